// The root command for the dashboard binary.
// This root 'composes' the subcommands: serve, show, version.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/redclay/hostdash/internal/commands/serveCommand"
	"github.com/redclay/hostdash/internal/commands/showCommand"
	"github.com/redclay/hostdash/internal/version"
)

// Cobra root command
var rootCmd = &cobra.Command{
	// The command you run to call the compiled binary
	Use: "hostdash",
	// A short description of what the command does
	Short: "Local web dashboard for inspecting and controlling this host.",
	// A longer description for the command
	Long: `hostdash serves a small web dashboard for a single Linux, Alpine, or
Termux host: system stats, installed packages, running services, and a few
control actions, all backed by the platform's own tools.`,
	// Adds a help menu you can display with --help/-h
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute the root Cobra command
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	// Add CLI subcommands
	rootCmd.AddCommand(serveCommand.NewServeCmd())
	rootCmd.AddCommand(showCommand.NewShowCmd())
	rootCmd.AddCommand(version.NewVersionCommand())
}

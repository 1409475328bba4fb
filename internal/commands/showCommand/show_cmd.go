// Package showCommand prints dashboard data to the terminal without
// starting the server: the same facade the web UI polls, rendered once.
package showCommand

import (
	"github.com/spf13/cobra"
)

func NewShowCmd() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show commands print information in the selected domain, i.e. show stats.",
		Long: `Print dashboard data once and exit.

Run hostdash show --help to see all options.
`,
	}

	// Attach subcommands
	showCmd.AddCommand(NewStatsCmd())
	showCmd.AddCommand(NewPlatformCmd())

	return showCmd
}

package showCommand

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/redclay/hostdash/internal/logging"
	"github.com/redclay/hostdash/internal/services/execService"
	platformservice "github.com/redclay/hostdash/internal/services/platformService"
	"github.com/redclay/hostdash/internal/services/statsService"
)

func NewStatsCmd() *cobra.Command {
	var platformOverride string
	var prefix string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show system stats (uptime, temperature, CPU, memory, disk)",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := platformservice.Detect(platformservice.DetectOptions{
				Override: platformOverride,
				Prefix:   prefix,
			})
			collector := statsService.NewCollector(profile, execService.NewProcRunner(0), logging.New("warn"))

			spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			spin.Suffix = " gathering stats..."
			spin.Start()
			stats := collector.Collect(cmd.Context())
			spin.Stop()

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Metric", "Value"})
			t.AppendRows([]table.Row{
				{"Platform", string(profile.Platform)},
				{"Uptime", stats.Uptime},
				{"Temperature", stats.Temperature},
				{"CPU Usage", stats.CPUUsage},
				{"Memory Usage", stats.MemoryUsage},
				{"Disk Usage", stats.DiskUsage},
			})
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&platformOverride, "platform", "", "force platform: standard-linux, alpine, termux")
	cmd.Flags().StringVar(&prefix, "prefix", "", "filesystem prefix for platform probes")

	return cmd
}

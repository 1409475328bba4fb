package showCommand

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	platformservice "github.com/redclay/hostdash/internal/services/platformService"
)

func NewPlatformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Show detected platform profile and host information",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := platformservice.Detect(platformservice.DetectOptions{})
			info, err := platformservice.GatherHostInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("gather host info: %w", err)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Property", "Value"})
			t.AppendRows([]table.Row{
				{"Platform", string(profile.Platform)},
				{"Package Manager", profile.PackageManager},
				{"Service Manager", profile.ServiceManager},
				{"Hostname", info.Hostname},
				{"OS / Arch", info.OS + "/" + info.Arch},
				{"Distribution", info.Distribution},
				{"Kernel", info.Kernel},
				{"CPU Model", info.CPUModel},
				{"CPU Cores/Threads", fmt.Sprintf("%d/%d", info.CPUCores, info.CPUThreads)},
				{"Total RAM", fmt.Sprintf("%.2f GB", float64(info.TotalRAM)/(1024*1024*1024))},
				{"Gateways", strings.Join(info.GatewayIPs, ", ")},
			})
			t.Render()
			return nil
		},
	}

	return cmd
}

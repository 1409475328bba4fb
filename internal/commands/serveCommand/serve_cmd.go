// Package serveCommand runs the dashboard HTTP server.
package serveCommand

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/redclay/hostdash/internal/config"
	"github.com/redclay/hostdash/internal/logging"
	"github.com/redclay/hostdash/internal/server"
	"github.com/redclay/hostdash/internal/services/auditService"
	"github.com/redclay/hostdash/internal/services/execService"
	platformservice "github.com/redclay/hostdash/internal/services/platformService"
)

func NewServeCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server",
		Long: `Detect the host platform, bind the first free candidate port, and serve
the dashboard UI plus the JSON API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}

			log := logging.New(cfg.Log.Level)

			// Platform is detected exactly once, here, and injected into
			// everything downstream.
			profile := platformservice.Detect(platformservice.DetectOptions{
				Override: cfg.Platform.Override,
				Prefix:   cfg.Platform.Prefix,
			})
			log.Info("detected platform",
				"platform", profile.Platform,
				"packageManager", profile.PackageManager,
				"serviceManager", profile.ServiceManager,
			)

			runner := execService.NewProcRunner(cfg.Exec.Timeout)

			var audit *auditService.AuditService
			if cfg.Audit.Path != "off" {
				audit, err = auditService.NewAuditService(cfg.Audit.Path)
				if err != nil {
					// The dashboard is still useful without its audit trail.
					log.Warn("audit log disabled", "path", cfg.Audit.Path, "error", err)
					audit = nil
				} else {
					defer audit.Close()
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(cfg, profile, runner, audit, log)
			if err := srv.ListenAndServe(ctx); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (json/yaml/toml/env)")
	cmd.Flags().String("server.host", "", "host/interface to bind")
	cmd.Flags().Int("server.port", 0, "base port (falls back through the attempt range when busy)")
	cmd.Flags().Int("server.attempts", 0, "number of candidate ports to try")
	cmd.Flags().String("platform.override", "", "force platform: standard-linux, alpine, termux")
	cmd.Flags().String("platform.prefix", "", "filesystem prefix for platform probes")
	cmd.Flags().String("web.root", "", "directory to serve static assets from")
	cmd.Flags().String("audit.path", "", "sqlite audit database path ('off' disables)")
	cmd.Flags().String("log.level", "", "log level: debug, info, warn, error")

	return cmd
}

// Package server is the HTTP facade: it routes API requests to the
// platform services, serializes their results as JSON, and serves the
// static dashboard assets.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/redclay/hostdash/internal/config"
	"github.com/redclay/hostdash/internal/services/auditService"
	"github.com/redclay/hostdash/internal/services/commandService"
	"github.com/redclay/hostdash/internal/services/execService"
	"github.com/redclay/hostdash/internal/services/packageService"
	platformservice "github.com/redclay/hostdash/internal/services/platformService"
	"github.com/redclay/hostdash/internal/services/statsService"
	"github.com/redclay/hostdash/internal/services/svcService"
)

// Server wires the platform services behind the HTTP API.
type Server struct {
	cfg     config.Config
	profile platformservice.Profile
	log     *slog.Logger

	stats      *statsService.Collector
	packages   *packageService.Service
	services   *svcService.Lister
	dispatcher *commandService.Dispatcher
	audit      *auditService.AuditService

	metrics *httpMetrics
	handler http.Handler
}

// New builds a Server from the detected profile and a Runner. audit may be
// nil when auditing is disabled or unavailable.
func New(cfg config.Config, profile platformservice.Profile, runner execService.Runner, audit *auditService.AuditService, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		profile: profile,
		log:     log,
		audit:   audit,
		metrics: newHTTPMetrics(),
	}

	s.stats = statsService.NewCollector(profile, runner, log)
	s.packages = packageService.NewService(profile, runner, log)
	s.services = svcService.NewLister(profile, runner, log)

	var recorder commandService.Recorder
	if audit != nil {
		recorder = audit
	}
	s.dispatcher = commandService.NewDispatcher(profile, runner, recorder, log)

	s.handler = s.routes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern, label string, h http.HandlerFunc) {
		mux.Handle(pattern, s.instrument(label, h))
	}

	route("GET /api/system/stats", "system_stats", s.handleSystemStats)
	route("POST /api/system/command", "system_command", s.handleSystemCommand)
	route("GET /api/system/info", "system_info", s.handleSystemInfo)
	route("GET /api/packages/list", "packages_list", s.handlePackagesList)
	route("POST /api/packages/install", "packages_install", s.handlePackageInstall)
	route("POST /api/packages/uninstall", "packages_uninstall", s.handlePackageUninstall)
	route("GET /api/services/list", "services_list", s.handleServicesList)
	route("GET /api/audit/recent", "audit_recent", s.handleAuditRecent)
	route("GET /healthz", "healthz", s.handleHealthz)

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	// Static assets, including the index page and the 404 fallthrough.
	mux.Handle("/", s.instrument("static", http.HandlerFunc(s.handleStatic)))

	return mux
}

// ListenAndServe binds the first free candidate port and serves until ctx
// is canceled. Binding happens strictly before any request handling.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, port, err := BindFirst(s.cfg.Server.Host, s.cfg.Server.Port, s.cfg.Server.Attempts, nil)
	if err != nil {
		return err
	}

	s.log.Info("listening",
		"port", port,
		"platform", s.profile.Platform,
		"packageManager", s.profile.PackageManager,
		"serviceManager", s.profile.ServiceManager,
	)
	if port != s.cfg.Server.Port {
		s.log.Warn("base port busy, bound fallback port", "base", s.cfg.Server.Port, "port", port)
	}

	srv := &http.Server{Handler: s.handler}

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-done:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

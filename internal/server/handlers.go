package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redclay/hostdash/internal/services/commandService"
	"github.com/redclay/hostdash/internal/services/packageService"
	platformservice "github.com/redclay/hostdash/internal/services/platformService"
)

const shutdownGrace = 5 * time.Second

// The client always gets a well-formed JSON body; failure detail stays in
// the server log.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		s.log.Error(msg, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleSystemStats(w http.ResponseWriter, r *http.Request) {
	stats := s.stats.Collect(r.Context())
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSystemCommand(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	err := s.dispatcher.Execute(r.Context(), body.Command)
	s.metrics.observeCommand("lifecycle", err)
	switch {
	case errors.Is(err, commandService.ErrInvalidAction):
		s.writeError(w, http.StatusBadRequest, "invalid command", err)
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, "command execution failed", err)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "command": body.Command})
	}
}

func (s *Server) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	info, err := platformservice.GatherHostInfo(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "host info unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		platformservice.HostInfo
		Profile platformservice.Profile `json:"profile"`
	}{HostInfo: info, Profile: s.profile})
}

func (s *Server) handlePackagesList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.packages.List(r.Context()))
}

func (s *Server) handlePackageInstall(w http.ResponseWriter, r *http.Request) {
	s.handlePackageMutation(w, r, "install", s.packages.Install)
}

func (s *Server) handlePackageUninstall(w http.ResponseWriter, r *http.Request) {
	s.handlePackageMutation(w, r, "uninstall", s.packages.Uninstall)
}

func (s *Server) handlePackageMutation(w http.ResponseWriter, r *http.Request, kind string, op func(ctx context.Context, name string) error) {
	var body struct {
		PackageName string `json:"packageName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	err := op(r.Context(), body.PackageName)
	s.metrics.observeCommand("pkg-"+kind, err)
	s.recordPackageAudit(r, kind, body.PackageName, err)
	switch {
	case errors.Is(err, packageService.ErrInvalidName):
		s.writeError(w, http.StatusBadRequest, "invalid package name", err)
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, "package operation failed", err)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "package": body.PackageName})
	}
}

func (s *Server) recordPackageAudit(r *http.Request, kind, name string, opErr error) {
	if s.audit == nil || errors.Is(opErr, packageService.ErrInvalidName) {
		return
	}
	detail := ""
	if opErr != nil {
		detail = opErr.Error()
	}
	if err := s.audit.Record(r.Context(), kind, name, opErr == nil, detail); err != nil {
		s.log.Warn("audit record failed", "kind", kind, "package", name, "error", err)
	}
}

func (s *Server) handleServicesList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.services.List(r.Context()))
}

func (s *Server) handleAuditRecent(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	entries, err := s.audit.Recent(r.Context(), 0)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "audit log unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

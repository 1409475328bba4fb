package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// handleStatic serves the dashboard assets from the configured web root.
// Any path containing ".." is rejected outright rather than cleaned --
// the asset tree is flat and shallow, so traversal syntax is never
// legitimate here.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}

	urlPath := r.URL.Path
	if strings.Contains(urlPath, "..") {
		http.NotFound(w, r)
		return
	}

	switch urlPath {
	case "/favicon.ico":
		w.WriteHeader(http.StatusNoContent)
		return
	case "/":
		urlPath = "/index.html"
	}

	name := filepath.Join(s.cfg.Web.Root, filepath.FromSlash(urlPath))
	info, err := os.Stat(name)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, name)
}

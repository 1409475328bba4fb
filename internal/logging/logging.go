// Package logging builds the process-wide structured logger.
package logging

import (
	"log/slog"

	"github.com/prometheus/common/promslog"
)

// New returns a slog.Logger at the given level ("debug", "info", "warn",
// "error"). Unknown levels fall back to info.
func New(level string) *slog.Logger {
	allowed := promslog.NewLevel()
	if err := allowed.Set(level); err != nil {
		allowed = promslog.NewLevel()
		_ = allowed.Set("info")
	}
	return promslog.New(&promslog.Config{Level: allowed})
}

// Package svcService enumerates running services. Standard Linux asks
// systemd; Alpine asks OpenRC with a raw process-list fallback; Termux has
// no service manager at all, so it only gets the process list.
package svcService

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/redclay/hostdash/internal/constants"
	"github.com/redclay/hostdash/internal/services/execService"
	platformservice "github.com/redclay/hostdash/internal/services/platformService"
)

// MaxListed bounds the services listing response.
const MaxListed = 20

// Lister enumerates running services for one platform profile.
type Lister struct {
	profile platformservice.Profile
	runner  execService.Runner
	log     *slog.Logger
}

func NewLister(profile platformservice.Profile, runner execService.Runner, log *slog.Logger) *Lister {
	if log == nil {
		log = slog.Default()
	}
	return &Lister{profile: profile, runner: runner, log: log}
}

// List returns up to MaxListed running service names. Empty on failure,
// never an error.
func (l *Lister) List(ctx context.Context) []string {
	switch l.profile.Platform {
	case constants.PlatformTermux:
		return l.processNames(ctx)
	case constants.PlatformAlpine:
		if names := l.openrcServices(ctx); len(names) > 0 {
			return names
		}
		return l.processNames(ctx)
	default:
		return l.systemdUnits(ctx)
	}
}

func (l *Lister) systemdUnits(ctx context.Context) []string {
	out, err := l.run(ctx, constants.OpServiceList)
	if err != nil {
		l.log.Debug("systemctl listing failed", "error", err)
		return []string{}
	}
	names := make([]string, 0, MaxListed)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[0])
		if len(names) >= MaxListed {
			break
		}
	}
	return names
}

func (l *Lister) openrcServices(ctx context.Context) []string {
	out, err := l.run(ctx, constants.OpServiceList)
	if err != nil {
		l.log.Debug("rc-status listing failed, falling back to ps", "error", err)
		return nil
	}
	names := make([]string, 0, MaxListed)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[0])
		if len(names) >= MaxListed {
			break
		}
	}
	return names
}

// processNames mirrors the original's `ps ... | sort -u` fallback:
// deduplicated, sorted, then capped.
func (l *Lister) processNames(ctx context.Context) []string {
	out, err := l.run(ctx, constants.OpServiceListFallbck)
	if err != nil {
		l.log.Debug("process listing failed", "error", err)
		return []string{}
	}
	seen := make(map[string]struct{})
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > MaxListed {
		names = names[:MaxListed]
	}
	return names
}

func (l *Lister) run(ctx context.Context, op constants.Operation) (string, error) {
	cmd, ok := constants.CommandFor(op, l.profile.Platform)
	if !ok {
		return "", errNoCommand
	}
	return l.runner.Run(ctx, cmd)
}

var errNoCommand = errors.New("svcService: no command for platform")

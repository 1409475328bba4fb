// Package packageService lists, installs, and removes packages through
// the platform's package manager.
//
// Listing degrades to an empty result on failure, like the metric
// reporters. Install and uninstall are different: their failures matter
// to the operator and propagate to the HTTP boundary.
package packageService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/redclay/hostdash/internal/constants"
	"github.com/redclay/hostdash/internal/services/execService"
	platformservice "github.com/redclay/hostdash/internal/services/platformService"
)

// MaxListed bounds the package listing response.
const MaxListed = 50

// ErrInvalidName rejects a package name before any command is built.
var ErrInvalidName = errors.New("packageService: invalid package name")

// Package names come verbatim from the request body and end up as a
// command argument, so they are allow-listed: leading alphanumeric, then
// alphanumerics plus the punctuation real package names use.
var nameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+-]*$`)

// Record is one installed package. Description is reserved: no platform
// listing currently populates it.
type Record struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Installed   bool   `json:"installed"`
}

// Service performs package operations for one platform profile.
type Service struct {
	profile platformservice.Profile
	runner  execService.Runner
	log     *slog.Logger
}

func NewService(profile platformservice.Profile, runner execService.Runner, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{profile: profile, runner: runner, log: log}
}

// List returns up to MaxListed installed packages in the order the
// package manager reported them. Any failure yields an empty list, never
// an error.
func (s *Service) List(ctx context.Context) []Record {
	cmd, ok := constants.CommandFor(constants.OpPackageList, s.profile.Platform)
	if !ok {
		return []Record{}
	}
	out, err := s.runner.Run(ctx, cmd)
	if err != nil {
		s.log.Debug("package listing failed", "platform", s.profile.Platform, "error", err)
		return []Record{}
	}
	return parseListing(s.profile.Platform, out)
}

// Install installs the named package. The name is validated before any
// command is constructed; executor failures propagate.
func (s *Service) Install(ctx context.Context, name string) error {
	return s.mutate(ctx, constants.OpPackageInstall, name)
}

// Uninstall removes the named package, symmetric to Install.
func (s *Service) Uninstall(ctx context.Context, name string) error {
	return s.mutate(ctx, constants.OpPackageUninstall, name)
}

func (s *Service) mutate(ctx context.Context, op constants.Operation, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	cmd, ok := constants.CommandFor(op, s.profile.Platform)
	if !ok {
		return fmt.Errorf("packageService: no %s command for platform %s", op, s.profile.Platform)
	}
	cmd = cmd.WithArgs(name)

	s.log.Info("running package operation", "op", string(op), "package", name, "cmd", cmd.Line())
	if _, err := s.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("packageService: %s %s: %w", op, name, err)
	}
	return nil
}

// ValidateName reports whether a package name is safe to pass as a
// command argument.
func ValidateName(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func parseListing(platform constants.Platform, out string) []Record {
	records := make([]Record, 0, MaxListed)
	for _, line := range strings.Split(out, "\n") {
		if len(records) >= MaxListed {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch platform {
		case constants.PlatformStandard:
			// "<name> <version>", first two whitespace tokens
			fields := strings.Fields(line)
			rec := Record{Name: fields[0], Installed: true}
			if len(fields) > 1 {
				rec.Version = fields[1]
			}
			records = append(records, rec)
		case constants.PlatformTermux:
			// "name/stable,now 1.2 aarch64 [installed]"; header line
			// "Listing..." has no slash and is skipped
			name, _, found := strings.Cut(line, "/")
			if !found {
				continue
			}
			records = append(records, Record{Name: name, Installed: true})
		default:
			// apk info: bare names
			records = append(records, Record{Name: line, Installed: true})
		}
	}
	return records
}

// Package platformservice detects which host environment the dashboard is
// running on and gathers general host information.
//
// Detection runs exactly once at startup; the resulting Profile is a plain
// value passed into every component that needs platform dispatch. Nothing
// re-detects mid-run.
package platformservice

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/redclay/hostdash/internal/constants"
)

// Profile describes the detected host environment. Immutable after Detect.
type Profile struct {
	Platform constants.Platform `json:"platform"`
	// Prefix is the filesystem root used for marker probes and pseudo-file
	// reads. Empty means "/". Termux installs live under a prefix.
	Prefix         string `json:"prefix"`
	PackageManager string `json:"packageManager"`
	ServiceManager string `json:"serviceManager"`
}

// DetectOptions controls platform detection. The zero value probes the
// real environment.
type DetectOptions struct {
	// Override forces a platform outright, bypassing all probes.
	// Unrecognized values are ignored and probing proceeds.
	Override string
	// Prefix overrides the filesystem root for marker probes.
	Prefix string
	// Getenv defaults to os.Getenv. Injectable for tests.
	Getenv func(string) string
}

// Detect inspects environment markers and filesystem probes and returns a
// Profile. It never fails: probe errors mean "marker absent" and detection
// falls through to the next check, ending at standard Linux.
//
// Check order matters: the explicit override wins, then the Termux
// environment marker, then the Alpine release file. Termux precedes Alpine
// so an Alpine marker baked into an Android image can not shadow it.
func Detect(opts DetectOptions) Profile {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	prefix := opts.Prefix

	platform := constants.PlatformStandard
	switch {
	case overridePlatform(opts.Override) != "":
		platform = overridePlatform(opts.Override)
	case isTermuxEnv(getenv):
		platform = constants.PlatformTermux
		if prefix == "" {
			prefix = getenv("PREFIX")
		}
	case hasAlpineMarker(prefix):
		platform = constants.PlatformAlpine
	}

	return Profile{
		Platform:       platform,
		Prefix:         prefix,
		PackageManager: constants.PackageManagerFor(platform),
		ServiceManager: constants.ServiceManagerFor(platform),
	}
}

func overridePlatform(name string) constants.Platform {
	if name == "" {
		return ""
	}
	p, ok := constants.ParsePlatform(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return ""
	}
	return p
}

func isTermuxEnv(getenv func(string) string) bool {
	if getenv("TERMUX_VERSION") != "" {
		return true
	}
	return strings.Contains(getenv("PREFIX"), "com.termux")
}

// hasAlpineMarker reports whether the Alpine release file exists and is
// non-empty under the given prefix. Any stat error counts as absent.
func hasAlpineMarker(prefix string) bool {
	info, err := os.Stat(filepath.Join(prefix, "/etc/alpine-release"))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// ThermalZonePath returns the absolute path of the thermal pseudo-file for
// this profile, honoring the prefix.
func (p Profile) ThermalZonePath() string {
	return filepath.Join(p.Prefix, constants.ThermalZonePath)
}

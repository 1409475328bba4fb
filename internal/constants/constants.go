// Package constants holds the platform taxonomy and the command tables
// the rest of the services dispatch through. Everything in here is static
// data; detection of which platform applies happens in platformService.
package constants

// Platform identifies one of the supported host environments.
type Platform string

const (
	// PlatformStandard is a regular Linux distribution with systemd and apt.
	PlatformStandard Platform = "standard-linux"
	// PlatformAlpine is Alpine Linux (busybox userland, apk, OpenRC).
	PlatformAlpine Platform = "alpine"
	// PlatformTermux is the Termux environment on Android (pkg, no service manager).
	PlatformTermux Platform = "termux"
)

// ParsePlatform maps a user-supplied platform name to a Platform.
// Returns false for anything unrecognized.
func ParsePlatform(s string) (Platform, bool) {
	switch s {
	case string(PlatformStandard), "linux", "standard":
		return PlatformStandard, true
	case string(PlatformAlpine):
		return PlatformAlpine, true
	case string(PlatformTermux):
		return PlatformTermux, true
	}
	return "", false
}

// PackageManagerFor returns the package manager kind for a platform.
func PackageManagerFor(p Platform) string {
	switch p {
	case PlatformAlpine:
		return "apk"
	case PlatformTermux:
		return "pkg"
	default:
		return "apt"
	}
}

// ServiceManagerFor returns the service manager kind for a platform.
// Termux has no service manager.
func ServiceManagerFor(p Platform) string {
	switch p {
	case PlatformAlpine:
		return "openrc"
	case PlatformTermux:
		return "none"
	default:
		return "systemd"
	}
}

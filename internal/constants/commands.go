package constants

// Command is an argument-vector command template. Commands are always
// executed directly (argv), never through a shell, so user input appended
// as an argument can not be interpreted as shell syntax.
type Command struct {
	Name string
	Args []string
}

// WithArgs returns a copy of the command with extra arguments appended.
func (c Command) WithArgs(extra ...string) Command {
	args := make([]string, 0, len(c.Args)+len(extra))
	args = append(args, c.Args...)
	args = append(args, extra...)
	return Command{Name: c.Name, Args: args}
}

// Line renders the command as a display string for logs and audit records.
func (c Command) Line() string {
	line := c.Name
	for _, a := range c.Args {
		line += " " + a
	}
	return line
}

// Operation names one platform-dispatched action.
type Operation string

const (
	OpUptime             Operation = "uptime"
	OpTemperature        Operation = "temperature"
	OpCPU                Operation = "cpu"
	OpMemory             Operation = "memory"
	OpDisk               Operation = "disk"
	OpPackageList        Operation = "pkg-list"
	OpPackageInstall     Operation = "pkg-install"
	OpPackageUninstall   Operation = "pkg-uninstall"
	OpServiceList        Operation = "svc-list"
	OpServiceListFallbck Operation = "svc-list-fallback"
	OpLifecycle          Operation = "lifecycle"
)

// ThermalZonePath is the thermal pseudo-file read for temperature on
// non-Termux platforms, relative to the platform prefix.
const ThermalZonePath = "/sys/class/thermal/thermal_zone0/temp"

// commandTable maps (operation, platform) to a base command template.
// This is the single place command lines are constructed; callers append
// validated arguments (package names, file paths) via WithArgs.
var commandTable = map[Operation]map[Platform]Command{
	OpUptime: {
		PlatformStandard: {Name: "uptime", Args: []string{"-p"}},
		// busybox/toybox uptime has no pretty flag
		PlatformAlpine: {Name: "uptime"},
		PlatformTermux: {Name: "uptime"},
	},
	OpTemperature: {
		PlatformStandard: {Name: "cat"},
		PlatformAlpine:   {Name: "cat"},
		PlatformTermux:   {Name: "termux-battery-status"},
	},
	OpCPU: {
		PlatformStandard: {Name: "top", Args: []string{"-bn1"}},
		PlatformAlpine:   {Name: "top", Args: []string{"-bn1"}},
		PlatformTermux:   {Name: "top", Args: []string{"-bn1"}},
	},
	OpMemory: {
		PlatformStandard: {Name: "free", Args: []string{"-m"}},
		PlatformAlpine:   {Name: "free", Args: []string{"-m"}},
		PlatformTermux:   {Name: "free", Args: []string{"-m"}},
	},
	OpDisk: {
		PlatformStandard: {Name: "df", Args: []string{"-h", "/"}},
		PlatformAlpine:   {Name: "df", Args: []string{"-h", "/"}},
		PlatformTermux:   {Name: "df", Args: []string{"-h", "/"}},
	},
	OpPackageList: {
		PlatformStandard: {Name: "dpkg-query", Args: []string{"-W", "-f=${Package} ${Version}\n"}},
		PlatformAlpine:   {Name: "apk", Args: []string{"info"}},
		PlatformTermux:   {Name: "pkg", Args: []string{"list-installed"}},
	},
	OpPackageInstall: {
		PlatformStandard: {Name: "apt-get", Args: []string{"install", "-y"}},
		PlatformAlpine:   {Name: "apk", Args: []string{"add"}},
		PlatformTermux:   {Name: "pkg", Args: []string{"install", "-y"}},
	},
	OpPackageUninstall: {
		PlatformStandard: {Name: "apt-get", Args: []string{"remove", "-y"}},
		PlatformAlpine:   {Name: "apk", Args: []string{"del"}},
		PlatformTermux:   {Name: "pkg", Args: []string{"uninstall", "-y"}},
	},
	OpServiceList: {
		PlatformStandard: {Name: "systemctl", Args: []string{"list-units", "--type=service", "--state=running", "--no-legend", "--no-pager"}},
		PlatformAlpine:   {Name: "rc-status", Args: []string{"-s"}},
		PlatformTermux:   {Name: "ps", Args: []string{"-e", "-o", "comm="}},
	},
	OpServiceListFallbck: {
		PlatformStandard: {Name: "ps", Args: []string{"-e", "-o", "comm="}},
		PlatformAlpine:   {Name: "ps", Args: []string{"-e", "-o", "comm="}},
		PlatformTermux:   {Name: "ps", Args: []string{"-e", "-o", "comm="}},
	},
	// Lifecycle actions are acknowledged but not yet wired to a real
	// service manager invocation on any platform. The action name is
	// appended as an argument so the audit trail records intent.
	OpLifecycle: {
		PlatformStandard: {Name: "true"},
		PlatformAlpine:   {Name: "true"},
		PlatformTermux:   {Name: "true"},
	},
}

// CommandFor looks up the base command template for an operation on a
// platform. The second return is false when the pair has no mapping.
func CommandFor(op Operation, p Platform) (Command, bool) {
	byPlatform, ok := commandTable[op]
	if !ok {
		return Command{}, false
	}
	cmd, ok := byPlatform[p]
	return cmd, ok
}

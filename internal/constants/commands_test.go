package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allPlatforms = []Platform{PlatformStandard, PlatformAlpine, PlatformTermux}

var allOperations = []Operation{
	OpUptime, OpTemperature, OpCPU, OpMemory, OpDisk,
	OpPackageList, OpPackageInstall, OpPackageUninstall,
	OpServiceList, OpServiceListFallbck, OpLifecycle,
}

func TestCommandTableIsComplete(t *testing.T) {
	for _, op := range allOperations {
		for _, p := range allPlatforms {
			cmd, ok := CommandFor(op, p)
			require.True(t, ok, "no command for %s on %s", op, p)
			assert.NotEmpty(t, cmd.Name, "empty command name for %s on %s", op, p)
		}
	}
}

func TestCommandForUnknownPairs(t *testing.T) {
	_, ok := CommandFor("no-such-op", PlatformStandard)
	assert.False(t, ok)

	_, ok = CommandFor(OpUptime, Platform("freebsd"))
	assert.False(t, ok)
}

func TestPlatformSpecificCommands(t *testing.T) {
	cmd, ok := CommandFor(OpUptime, PlatformStandard)
	require.True(t, ok)
	assert.Equal(t, []string{"-p"}, cmd.Args)

	cmd, ok = CommandFor(OpUptime, PlatformAlpine)
	require.True(t, ok)
	assert.Empty(t, cmd.Args)

	cmd, ok = CommandFor(OpTemperature, PlatformTermux)
	require.True(t, ok)
	assert.Equal(t, "termux-battery-status", cmd.Name)

	cmd, ok = CommandFor(OpPackageInstall, PlatformAlpine)
	require.True(t, ok)
	assert.Equal(t, "apk", cmd.Name)
	assert.Equal(t, []string{"add"}, cmd.Args)
}

func TestParsePlatform(t *testing.T) {
	cases := map[string]Platform{
		"standard-linux": PlatformStandard,
		"linux":          PlatformStandard,
		"standard":       PlatformStandard,
		"alpine":         PlatformAlpine,
		"termux":         PlatformTermux,
	}
	for in, want := range cases {
		got, ok := ParsePlatform(in)
		require.True(t, ok, "input %q", in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "windows", "Alpine", "TERMUX"} {
		_, ok := ParsePlatform(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestManagerMappings(t *testing.T) {
	assert.Equal(t, "apt", PackageManagerFor(PlatformStandard))
	assert.Equal(t, "apk", PackageManagerFor(PlatformAlpine))
	assert.Equal(t, "pkg", PackageManagerFor(PlatformTermux))

	assert.Equal(t, "systemd", ServiceManagerFor(PlatformStandard))
	assert.Equal(t, "openrc", ServiceManagerFor(PlatformAlpine))
	assert.Equal(t, "none", ServiceManagerFor(PlatformTermux))
}

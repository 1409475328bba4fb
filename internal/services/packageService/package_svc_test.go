package packageService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redclay/hostdash/internal/constants"
	"github.com/redclay/hostdash/internal/services/execService"
	platformservice "github.com/redclay/hostdash/internal/services/platformService"
)

func profileFor(p constants.Platform) platformservice.Profile {
	return platformservice.Profile{Platform: p, PackageManager: constants.PackageManagerFor(p)}
}

// recordingRunner captures every executed command and returns canned output.
type recordingRunner struct {
	commands []constants.Command
	output   string
	err      error
}

func (r *recordingRunner) Run(ctx context.Context, cmd constants.Command) (string, error) {
	r.commands = append(r.commands, cmd)
	return r.output, r.err
}

func TestListParsesStandardNameAndVersion(t *testing.T) {
	runner := &recordingRunner{output: "bash 5.2.15-2\ncoreutils 9.1\nzlib1g\n"}
	svc := NewService(profileFor(constants.PlatformStandard), runner, nil)

	records := svc.List(context.Background())
	require.Len(t, records, 3)
	assert.Equal(t, Record{Name: "bash", Version: "5.2.15-2", Installed: true}, records[0])
	assert.Equal(t, Record{Name: "coreutils", Version: "9.1", Installed: true}, records[1])
	// version token absent: name only
	assert.Equal(t, Record{Name: "zlib1g", Installed: true}, records[2])
}

func TestListParsesAlpineNamesOnly(t *testing.T) {
	runner := &recordingRunner{output: "musl\nbusybox\nalpine-baselayout\n"}
	svc := NewService(profileFor(constants.PlatformAlpine), runner, nil)

	records := svc.List(context.Background())
	require.Len(t, records, 3)
	for _, rec := range records {
		assert.Empty(t, rec.Version)
		assert.Empty(t, rec.Description)
		assert.True(t, rec.Installed)
	}
}

func TestListParsesTermuxAndSkipsHeader(t *testing.T) {
	out := "Listing...\n" +
		"bash/stable,now 5.2.15 aarch64 [installed]\n" +
		"curl/stable,now 8.4.0 aarch64 [installed]\n"
	runner := &recordingRunner{output: out}
	svc := NewService(profileFor(constants.PlatformTermux), runner, nil)

	records := svc.List(context.Background())
	require.Len(t, records, 2)
	assert.Equal(t, "bash", records[0].Name)
	assert.Equal(t, "curl", records[1].Name)
}

func TestListTruncatesToFifty(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&sb, "pkg%03d 1.0.%d\n", i, i)
	}
	runner := &recordingRunner{output: sb.String()}
	svc := NewService(profileFor(constants.PlatformStandard), runner, nil)

	records := svc.List(context.Background())
	require.Len(t, records, MaxListed)
	// first 50 in original order
	assert.Equal(t, "pkg000", records[0].Name)
	assert.Equal(t, "pkg049", records[49].Name)
}

func TestListFailureYieldsEmptyNotError(t *testing.T) {
	runner := &recordingRunner{err: errors.New("dpkg-query: not found")}
	svc := NewService(profileFor(constants.PlatformStandard), runner, nil)

	records := svc.List(context.Background())
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestInstallBuildsPlatformCommand(t *testing.T) {
	tests := []struct {
		platform constants.Platform
		wantName string
		wantVerb string
	}{
		{constants.PlatformStandard, "apt-get", "install"},
		{constants.PlatformAlpine, "apk", "add"},
		{constants.PlatformTermux, "pkg", "install"},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			runner := &recordingRunner{}
			svc := NewService(profileFor(tt.platform), runner, nil)

			require.NoError(t, svc.Install(context.Background(), "htop"))
			require.Len(t, runner.commands, 1)

			cmd := runner.commands[0]
			assert.Equal(t, tt.wantName, cmd.Name)
			assert.Contains(t, cmd.Args, tt.wantVerb)
			// the literal package name rides along as its own argument
			assert.Equal(t, "htop", cmd.Args[len(cmd.Args)-1])
		})
	}
}

func TestUninstallBuildsPlatformCommand(t *testing.T) {
	runner := &recordingRunner{}
	svc := NewService(profileFor(constants.PlatformAlpine), runner, nil)

	require.NoError(t, svc.Uninstall(context.Background(), "htop"))
	require.Len(t, runner.commands, 1)
	assert.Equal(t, "apk", runner.commands[0].Name)
	assert.Equal(t, []string{"del", "htop"}, runner.commands[0].Args)
}

func TestMutationRejectsUnsafeNamesWithoutExecuting(t *testing.T) {
	bad := []string{
		"",
		"foo; rm -rf /",
		"foo && reboot",
		"$(whoami)",
		"foo bar",
		"-rf",
		"../etc/passwd",
	}
	runner := &recordingRunner{}
	svc := NewService(profileFor(constants.PlatformStandard), runner, nil)

	for _, name := range bad {
		err := svc.Install(context.Background(), name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
	assert.Empty(t, runner.commands, "no command may run for a rejected name")
}

func TestValidateNameAcceptsRealPackageNames(t *testing.T) {
	good := []string{"htop", "g++", "libstdc++6", "python3.11", "open-vm-tools", "zlib1g_1.2"}
	for _, name := range good {
		assert.NoError(t, ValidateName(name), "name %q", name)
	}
}

func TestInstallPropagatesExecutionError(t *testing.T) {
	execErr := &execService.ExecutionError{Cmd: "apt-get install -y ghost", ExitCode: 100, Err: errors.New("exit 100")}
	runner := &recordingRunner{err: execErr}
	svc := NewService(profileFor(constants.PlatformStandard), runner, nil)

	err := svc.Install(context.Background(), "ghost")
	require.Error(t, err)
	var got *execService.ExecutionError
	assert.ErrorAs(t, err, &got)
}

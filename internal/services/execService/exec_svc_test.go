package execService

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redclay/hostdash/internal/constants"
)

func TestRunCapturesStdout(t *testing.T) {
	r := NewProcRunner(5 * time.Second)
	out, err := r.Run(context.Background(), constants.Command{Name: "echo", Args: []string{"hello", "world"}})
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)
}

func TestRunArgumentsAreNotShellInterpreted(t *testing.T) {
	// The classic injection payload comes back as literal text because
	// there is no shell anywhere in the path.
	r := NewProcRunner(5 * time.Second)
	out, err := r.Run(context.Background(), constants.Command{Name: "echo", Args: []string{"x; rm -rf /"}})
	require.NoError(t, err)
	assert.Equal(t, "x; rm -rf /\n", out)
}

func TestRunNonZeroExitIsExecutionError(t *testing.T) {
	r := NewProcRunner(5 * time.Second)
	_, err := r.Run(context.Background(), constants.Command{Name: "false"})
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 1, execErr.ExitCode)
}

func TestRunMissingBinaryIsExecutionError(t *testing.T) {
	r := NewProcRunner(5 * time.Second)
	_, err := r.Run(context.Background(), constants.Command{Name: "definitely-not-a-real-tool-xyz"})

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, -1, execErr.ExitCode)
}

func TestRunTimeoutKillsCommand(t *testing.T) {
	r := NewProcRunner(100 * time.Millisecond)
	start := time.Now()
	_, err := r.Run(context.Background(), constants.Command{Name: "sleep", Args: []string{"10"}})

	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunCapsOutput(t *testing.T) {
	r := &ProcRunner{Timeout: 5 * time.Second, MaxOutputBytes: 16}
	out, err := r.Run(context.Background(), constants.Command{Name: "echo", Args: []string{strings.Repeat("a", 100)}})
	require.NoError(t, err)
	assert.Len(t, out, 16)
}

func TestRunnerFuncAdapts(t *testing.T) {
	var seen constants.Command
	r := RunnerFunc(func(ctx context.Context, cmd constants.Command) (string, error) {
		seen = cmd
		return "ok", nil
	})
	out, err := r.Run(context.Background(), constants.Command{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "x", seen.Name)
}

func TestCommandLineRendering(t *testing.T) {
	cmd := constants.Command{Name: "apt-get", Args: []string{"install", "-y", "htop"}}
	assert.Equal(t, "apt-get install -y htop", cmd.Line())
}

func TestWithArgsDoesNotAliasBase(t *testing.T) {
	base := constants.Command{Name: "apk", Args: []string{"add"}}
	first := base.WithArgs("htop")
	second := base.WithArgs("curl")

	assert.Equal(t, []string{"add", "htop"}, first.Args)
	assert.Equal(t, []string{"add", "curl"}, second.Args)
	assert.Equal(t, []string{"add"}, base.Args)
}

package server

import (
	"errors"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopListener struct {
	net.Listener
	addr string
}

func (l nopListener) Close() error { return nil }

// fakeListen simulates a host where some ports are taken or broken.
func fakeListen(inUse map[int]bool, brokenPort int, brokenErr error, attempted *[]string) ListenFunc {
	return func(network, address string) (net.Listener, error) {
		*attempted = append(*attempted, address)
		_, portStr, err := net.SplitHostPort(address)
		if err != nil {
			return nil, err
		}
		port := atoiMust(portStr)
		if port == brokenPort {
			return nil, brokenErr
		}
		if inUse[port] {
			return nil, syscall.EADDRINUSE
		}
		return nopListener{addr: address}, nil
	}
}

func atoiMust(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func TestBindFirstSkipsBusyPorts(t *testing.T) {
	var attempted []string
	listen := fakeListen(map[int]bool{3000: true, 3001: true}, 0, nil, &attempted)

	ln, port, err := BindFirst("", 3000, 3, listen)
	require.NoError(t, err)
	defer ln.Close()

	assert.Equal(t, 3002, port)
	assert.Equal(t, []string{":3000", ":3001", ":3002"}, attempted)
}

func TestBindFirstExhaustsCandidates(t *testing.T) {
	var attempted []string
	listen := fakeListen(map[int]bool{3000: true, 3001: true, 3002: true}, 0, nil, &attempted)

	_, _, err := BindFirst("", 3000, 3, listen)
	assert.ErrorIs(t, err, ErrPortsExhausted)
	assert.Len(t, attempted, 3)
}

func TestBindFirstPropagatesOtherErrorsImmediately(t *testing.T) {
	var attempted []string
	permErr := errors.New("listen tcp :3000: bind: permission denied")
	listen := fakeListen(nil, 3000, permErr, &attempted)

	_, _, err := BindFirst("", 3000, 5, listen)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPortsExhausted)
	assert.ErrorIs(t, err, permErr)
	// no further candidates tried after a non-EADDRINUSE failure
	assert.Equal(t, []string{":3000"}, attempted)
}

func TestBindFirstStopsAtPortSpace(t *testing.T) {
	var attempted []string
	listen := fakeListen(map[int]bool{65534: true, 65535: true}, 0, nil, &attempted)

	_, _, err := BindFirst("", 65534, 10, listen)
	assert.ErrorIs(t, err, ErrPortsExhausted)
	// walk must not run past port 65535
	assert.Equal(t, []string{":65534", ":65535"}, attempted)
}

func TestBindFirstRealSocket(t *testing.T) {
	// Bind an ephemeral port for real, then ask BindFirst for that exact
	// port with one fallback candidate.
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()
	base := taken.Addr().(*net.TCPAddr).Port

	ln, port, err := BindFirst("127.0.0.1", base, 2, nil)
	if err != nil {
		// base+1 can legitimately be taken on a busy host; only the
		// exhaustion sentinel is acceptable then.
		assert.ErrorIs(t, err, ErrPortsExhausted)
		return
	}
	defer ln.Close()
	assert.Equal(t, base+1, port)
}

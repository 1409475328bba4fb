package server

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"
)

// ErrPortsExhausted means every candidate port was already taken. Fatal at
// startup: the server must not pretend to run without a listener.
var ErrPortsExhausted = errors.New("server: all candidate ports in use")

// ListenFunc acquires a listener. Injectable so the fallback walk can be
// tested without real sockets.
type ListenFunc func(network, address string) (net.Listener, error)

// BindFirst walks the candidate ports base..base+attempts-1 in order and
// returns the first listener it can acquire.
//
// "Address in use" moves on to the next candidate; any other bind error
// propagates immediately, because retrying a permission or address error
// on a different port would only mask it.
func BindFirst(host string, base, attempts int, listen ListenFunc) (net.Listener, int, error) {
	if listen == nil {
		listen = net.Listen
	}
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		port := base + i
		if port > 65535 {
			break
		}
		ln, err := listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err == nil {
			return ln, port, nil
		}
		if errors.Is(err, syscall.EADDRINUSE) {
			continue
		}
		return nil, 0, fmt.Errorf("server: bind port %d: %w", port, err)
	}

	return nil, 0, fmt.Errorf("%w (base %d, attempts %d)", ErrPortsExhausted, base, attempts)
}

package transport

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// Guard errors.
var (
	// ErrAlreadyRunning means a live instance owns the endpoint. This is
	// the expected "already running" case: callers exit with success.
	ErrAlreadyRunning = errors.New("another instance owns the socket")

	// ErrSymlink means the endpoint path is a symbolic link. Refused as
	// hardening against symlink redirection; fatal, never retried.
	ErrSymlink = errors.New("socket path is a symbolic link")
)

// probeTimeout bounds the liveness probe against an existing socket file.
const probeTimeout = 200 * time.Millisecond

// refuseSymlink returns ErrSymlink if path exists and is a symbolic link.
func refuseSymlink(path string) error {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to check socket path: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%w: %s", ErrSymlink, path)
	}
	return nil
}

// Probe is the cheap singleton check run before any heavy startup work.
// It refuses a symlinked endpoint, probes an existing socket file with a
// short-timeout connection, and removes the file when the probe finds no
// listener. ErrAlreadyRunning means a live instance answered.
//
// Probe never touches the output subsystem, keeping the "already running"
// exit path fast.
func Probe(path string) error {
	if err := refuseSymlink(path); err != nil {
		return err
	}

	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to check socket path: %w", err)
	}

	conn, err := net.DialTimeout("unix", path, probeTimeout)
	if err == nil {
		// Best-effort close; the probe result is all that matters.
		_ = conn.Close()
		return ErrAlreadyRunning
	}

	// No listener: the entry is stale. Removal is best-effort; if it
	// fails, the bind below reports the real problem.
	_ = os.Remove(path)
	return nil
}

// Listen runs the full guard protocol and binds the endpoint. The socket
// file is restricted to owner-only permissions after creation.
func Listen(path string) (net.Listener, error) {
	if err := Probe(path); err != nil {
		return nil, err
	}

	// Re-check for a symlink immediately before bind (closes the race
	// window between the probe and the bind).
	if err := refuseSymlink(path); err != nil {
		return nil, err
	}

	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to bind socket %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		l.Close()
		return nil, fmt.Errorf("failed to restrict socket permissions: %w", err)
	}
	return l, nil
}

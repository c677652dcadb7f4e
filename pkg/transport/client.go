package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// Client defaults.
const (
	// DefaultConnectTimeout bounds the connect attempt.
	DefaultConnectTimeout = 500 * time.Millisecond

	// DefaultReplyTimeout bounds the wait for an optional server reply.
	DefaultReplyTimeout = 400 * time.Millisecond
)

// Client errors.
var (
	ErrConnect = errors.New("connect failed")
	ErrSend    = errors.New("send failed")
	ErrReceive = errors.New("receive failed")
)

// Reply is the client-side result of sending a token.
//
// The current server sends no reply: a reply-read timeout (or an empty
// read) is best-effort success and yields the zero Reply. OK and
// "ERR: ..." reply lines are recognized for forward compatibility.
type Reply struct {
	// Text is the raw reply line, empty when the server sent nothing.
	Text string

	// Acked is true when the server answered with an OK line.
	Acked bool

	// ServerErr is true when the server answered with an ERR line.
	ServerErr bool
}

// SendToken sends one trigger token over the endpoint at path: connect,
// write the token as a single newline-terminated line, half-close the
// write side, and optionally read a one-line reply.
func SendToken(path, token string) (Reply, error) {
	conn, err := net.DialTimeout("unix", path, DefaultConnectTimeout)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(token + "\n")); err != nil {
		return Reply{}, fmt.Errorf("%w: %v", ErrSend, err)
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		// Half-close is best-effort; the server does not require it.
		_ = uc.CloseWrite()
	}

	if err := conn.SetReadDeadline(time.Now().Add(DefaultReplyTimeout)); err != nil {
		return Reply{}, fmt.Errorf("%w: %v", ErrReceive, err)
	}

	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			// No ACK from the server (current contract): best-effort success.
			return Reply{}, nil
		}
		if errors.Is(err, io.EOF) {
			return Reply{}, nil
		}
		return Reply{}, fmt.Errorf("%w: %v", ErrReceive, err)
	}

	line := strings.TrimSpace(string(buf[:n]))
	if line == "" {
		return Reply{}, nil
	}
	low := strings.ToLower(line)
	switch {
	case strings.HasPrefix(low, "ok"):
		return Reply{Text: line, Acked: true}, nil
	case strings.HasPrefix(low, "err"):
		return Reply{Text: line, ServerErr: true}, nil
	default:
		// Unknown reply: surface as-is but treat as success.
		return Reply{Text: line}, nil
	}
}

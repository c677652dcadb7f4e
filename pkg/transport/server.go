package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/notesock/notesock-go/pkg/log"
)

// Server defaults.
const (
	// DefaultReceiveTimeout bounds how long a connection may stay silent.
	DefaultReceiveTimeout = 1 * time.Second

	// DefaultMaxLineBytes caps the received line.
	DefaultMaxLineBytes = 1024

	// DefaultAcceptBackoff is the pause after a transient accept failure.
	DefaultAcceptBackoff = 50 * time.Millisecond
)

// ServerConfig configures a trigger server.
type ServerConfig struct {
	// Listener is the bound endpoint, from Listen. Required.
	Listener net.Listener

	// ReceiveTimeout bounds the wait for data on an accepted connection
	// (default: 1s).
	ReceiveTimeout time.Duration

	// MaxLineBytes caps the receive buffer (default: 1024).
	MaxLineBytes int

	// AcceptBackoff is the pause after a transient accept failure
	// (default: 50ms).
	AcceptBackoff time.Duration

	// OnToken is called with the first token of each well-formed
	// connection. Required. It runs on the accept goroutine: the server
	// accepts no further connection until it returns.
	OnToken func(connID, token string)

	// OnAccept is called for every accepted connection (optional).
	OnAccept func(connID string)

	// OnError is called for contained per-connection failures such as
	// receive timeouts (optional). Never called for accept errors.
	OnError func(connID string, err error)

	// Logger for diagnostics (optional).
	Logger *slog.Logger

	// EventLogger for structured event capture (optional).
	EventLogger log.Logger
}

// Server owns the accept loop over the IPC endpoint. Connections are
// handled one at a time on the accept goroutine: the dispatch hold happens
// synchronously inside connection handling, a deliberate single-in-flight
// throughput bound that keeps note pulses from interleaving on the wire.
type Server struct {
	config   ServerConfig
	listener net.Listener

	running atomic.Bool
	wg      sync.WaitGroup
}

// NewServer creates a server over a bound listener.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Listener == nil {
		return nil, fmt.Errorf("listener is required")
	}
	if config.OnToken == nil {
		return nil, fmt.Errorf("OnToken handler is required")
	}
	if config.ReceiveTimeout == 0 {
		config.ReceiveTimeout = DefaultReceiveTimeout
	}
	if config.MaxLineBytes == 0 {
		config.MaxLineBytes = DefaultMaxLineBytes
	}
	if config.AcceptBackoff == 0 {
		config.AcceptBackoff = DefaultAcceptBackoff
	}
	return &Server{
		config:   config,
		listener: config.Listener,
	}, nil
}

// Start launches the accept loop.
func (s *Server) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("server already running")
	}
	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener and waits for the accept loop to drain.
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

// acceptLoop accepts and handles connections, one at a time. A transient
// accept failure is logged and retried after a short backoff; nothing a
// single connection does can abort the loop.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for s.running.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logWarn("accept failed", "err", err)
			time.Sleep(s.config.AcceptBackoff)
			continue
		}
		s.handle(conn)
	}
}

// handle processes one accepted connection to completion. Every terminal
// transition (dispatch, timeout, empty read, read error) closes the
// connection; no failure escapes to the accept loop.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	connID := uuid.New().String()
	if s.config.OnAccept != nil {
		s.config.OnAccept(connID)
	}
	s.logEvent(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionIn,
		Category:     log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			NewState: "ACCEPTED",
		},
	})
	defer s.logEvent(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionIn,
		Category:     log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			OldState: "ACCEPTED",
			NewState: "CLOSED",
		},
	})

	// Drop half-open clients quickly: no payload within the deadline
	// means this client is ignored.
	if err := conn.SetReadDeadline(time.Now().Add(s.config.ReceiveTimeout)); err != nil {
		s.logDebug("failed to set read deadline", "conn", connID, "err", err)
	}

	buf := make([]byte, s.config.MaxLineBytes)
	n, err := conn.Read(buf)
	if err != nil {
		s.containError(connID, err)
		return
	}
	if n == 0 {
		return
	}

	token := FirstToken(string(buf[:n]))
	if token == "" {
		return
	}

	s.logEvent(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionIn,
		Category:     log.CategoryTrigger,
		Trigger:      &log.TriggerEvent{Token: token, Outcome: log.OutcomeReceived},
	})
	s.config.OnToken(connID, token)
}

// containError records a per-connection failure without letting it escape.
func (s *Server) containError(connID string, err error) {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		s.logDebug("connection timed out", "conn", connID)
	} else {
		s.logDebug("connection read failed", "conn", connID, "err", err)
	}
	s.logEvent(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionIn,
		Category:     log.CategoryError,
		Error:        &log.ErrorEventData{Message: err.Error(), Context: "receive"},
	})
	if s.config.OnError != nil {
		s.config.OnError(connID, err)
	}
}

func (s *Server) logEvent(e log.Event) {
	if s.config.EventLogger != nil {
		s.config.EventLogger.Log(e)
	}
}

func (s *Server) logWarn(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Warn(msg, args...)
	}
}

func (s *Server) logDebug(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, args...)
	}
}

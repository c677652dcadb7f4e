package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/notesock/notesock-go/pkg/catalog"
	"github.com/notesock/notesock-go/pkg/dispatch"
	"github.com/notesock/notesock-go/pkg/log"
	"github.com/notesock/notesock-go/pkg/match"
	"github.com/notesock/notesock-go/pkg/transport"
)

// Service runs the trigger relay daemon: one resolved output port, one
// socket endpoint, one dispatcher.
type Service struct {
	config Config
	logger *slog.Logger
	events log.Logger

	mu         sync.Mutex
	state      State
	server     *transport.Server
	dispatcher *dispatch.Dispatcher
}

// New creates a Service from a validated configuration.
func New(config Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	events := config.EventLogger
	if events == nil {
		events = log.NoopLogger{}
	}
	return &Service{
		config: config,
		logger: logger,
		events: events,
		state:  StateIdle,
	}, nil
}

// Resolve enumerates the catalog and applies the configured filters,
// without opening anything. Used by Start and by the dry-run check mode.
func (s *Service) Resolve() (match.Selection, error) {
	recs, err := catalog.List(s.config.Driver)
	if err != nil {
		return match.Selection{}, fmt.Errorf("failed to enumerate output ports: %w", err)
	}
	return match.Resolve(recs, s.config.DeviceFilter, s.config.PortFilter)
}

// Start resolves and opens the output port, binds the endpoint, and
// launches the accept loop. On any failure everything opened so far is
// released and the service stays startable.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning || s.state == StateStarting {
		return ErrAlreadyStarted
	}
	s.setStateLocked(StateStarting, "")

	sel, err := s.Resolve()
	if err != nil {
		s.setStateLocked(StateStopped, err.Error())
		return err
	}

	port, err := s.config.Driver.Open(sel.Original)
	if err != nil {
		s.setStateLocked(StateStopped, err.Error())
		return fmt.Errorf("failed to open output port %q: %w", sel.Display, err)
	}

	listener, err := transport.Listen(s.config.SocketPath)
	if err != nil {
		_ = port.Close()
		s.setStateLocked(StateStopped, err.Error())
		return err
	}

	dispatcher := dispatch.New(dispatch.Config{
		Port:        port,
		Channel:     s.config.Channel,
		Hold:        s.config.Hold,
		Logger:      s.logger,
		EventLogger: s.events,
	})

	metrics := s.config.Metrics
	server, err := transport.NewServer(transport.ServerConfig{
		Listener:       listener,
		ReceiveTimeout: s.config.ReceiveTimeout,
		OnToken: func(connID, token string) {
			switch dispatcher.Trigger(connID, token) {
			case log.OutcomeDispatched:
				metrics.RecordDispatched()
			case log.OutcomeIgnored:
				metrics.RecordIgnored()
			case log.OutcomeDropped:
				metrics.RecordDropped()
			case log.OutcomeFailed:
				metrics.RecordSendFailure()
			}
		},
		OnAccept:    func(string) { metrics.RecordAccepted() },
		OnError:     func(string, error) { metrics.RecordReceiveError() },
		Logger:      s.logger,
		EventLogger: s.events,
	})
	if err != nil {
		_ = listener.Close()
		_ = dispatcher.Close()
		s.setStateLocked(StateStopped, err.Error())
		return err
	}

	if err := server.Start(); err != nil {
		_ = listener.Close()
		_ = dispatcher.Close()
		s.setStateLocked(StateStopped, err.Error())
		return err
	}

	s.server = server
	s.dispatcher = dispatcher
	s.setStateLocked(StateRunning, "")
	s.logger.Info("relay running",
		"port", sel.Display,
		"channel", int(s.config.Channel),
		"socket", s.config.SocketPath)
	return nil
}

// Stop drains the accept loop, removes the endpoint, and releases the
// output port.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return ErrNotStarted
	}
	s.setStateLocked(StateStopping, "")

	err := s.server.Stop()
	// The socket file outlives the closed listener only on abnormal paths,
	// but removing it keeps the next start from probing a stale endpoint.
	_ = os.Remove(s.config.SocketPath)
	if cerr := s.dispatcher.Close(); err == nil {
		err = cerr
	}

	s.server = nil
	s.dispatcher = nil
	s.setStateLocked(StateStopped, "")
	s.logger.Info("relay stopped")
	return err
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SocketPath returns the configured endpoint path.
func (s *Service) SocketPath() string {
	return s.config.SocketPath
}

// setStateLocked transitions the lifecycle state and emits the matching
// event. Callers hold the mutex.
func (s *Service) setStateLocked(next State, reason string) {
	prev := s.state
	s.state = next
	s.events.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionIn,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityService,
			OldState: prev.String(),
			NewState: next.String(),
			Reason:   reason,
		},
	})
}

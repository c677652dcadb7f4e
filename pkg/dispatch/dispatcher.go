package dispatch

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/notesock/notesock-go/pkg/log"
	"github.com/notesock/notesock-go/pkg/midi"
	"github.com/notesock/notesock-go/pkg/output"
)

// DefaultHold is the pause between the Note On and Note Off events.
const DefaultHold = 50 * time.Millisecond

// Config configures a Dispatcher.
type Config struct {
	// Port is the open output port. May be nil: triggers are then
	// silently dropped until a restart opens a port.
	Port output.Port

	// Channel selects the MIDI channel; its status bytes are encoded
	// once here, not per message.
	Channel midi.Channel

	// Hold is the on/off pulse width (default: 50ms).
	Hold time.Duration

	// Logger for diagnostics (optional).
	Logger *slog.Logger

	// EventLogger for structured event capture (optional).
	EventLogger log.Logger
}

// Dispatcher owns the output port handle. All sends go through the single
// connection-handling goroutine, so the mutex only guards against an
// external Close racing a trigger.
type Dispatcher struct {
	mu      sync.Mutex
	port    output.Port
	channel midi.Channel
	hold    time.Duration
	logger  *slog.Logger
	events  log.Logger
}

// New creates a Dispatcher.
func New(cfg Config) *Dispatcher {
	if cfg.Hold == 0 {
		cfg.Hold = DefaultHold
	}
	if cfg.Channel == 0 {
		cfg.Channel = midi.DefaultChannel
	}
	events := cfg.EventLogger
	if events == nil {
		events = log.NoopLogger{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		port:    cfg.Port,
		channel: cfg.Channel,
		hold:    cfg.Hold,
		logger:  logger,
		events:  events,
	}
}

// Trigger handles one received token: on a recognized token with a live
// port it sends the Note On, holds, and sends the matching Note Off,
// synchronously. The returned outcome reports what happened.
func (d *Dispatcher) Trigger(connID, token string) log.TriggerOutcome {
	n, ok := midi.NoteNumber(token)
	if !ok {
		d.logger.Debug("ignored token (not a note)", "conn", connID, "token", token)
		d.logTrigger(connID, token, nil, log.OutcomeIgnored)
		return log.OutcomeIgnored
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port == nil {
		d.logger.Debug("dropped trigger (no output port)", "conn", connID, "token", token)
		d.logTrigger(connID, token, &n, log.OutcomeDropped)
		return log.OutcomeDropped
	}

	if err := d.port.Send(d.channel.NoteOn(n)); err != nil {
		d.teardownLocked(token, err)
		d.logTrigger(connID, token, &n, log.OutcomeFailed)
		return log.OutcomeFailed
	}
	time.Sleep(d.hold)
	if err := d.port.Send(d.channel.NoteOff(n)); err != nil {
		d.teardownLocked(token, err)
		d.logTrigger(connID, token, &n, log.OutcomeFailed)
		return log.OutcomeFailed
	}

	d.logger.Debug("dispatched note", "conn", connID, "token", token, "note", n)
	d.logTrigger(connID, token, &n, log.OutcomeDispatched)
	return log.OutcomeDispatched
}

// HasPort reports whether an output port is currently held.
func (d *Dispatcher) HasPort() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.port != nil
}

// Close releases the output port, if any.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.port == nil {
		return nil
	}
	err := d.port.Close()
	d.port = nil
	return err
}

// teardownLocked drops the broken port so the next trigger does not retry
// against it. Callers hold the mutex.
func (d *Dispatcher) teardownLocked(token string, err error) {
	d.logger.Warn(fmt.Sprintf("failed to send note %q", token), "err", err)
	// Best-effort close; the handle is gone either way.
	_ = d.port.Close()
	d.port = nil
	d.events.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionOut,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityPort,
			OldState: "OPEN",
			NewState: "CLOSED",
			Reason:   err.Error(),
		},
	})
}

func (d *Dispatcher) logTrigger(connID, token string, note *uint8, outcome log.TriggerOutcome) {
	d.events.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionOut,
		Category:     log.CategoryTrigger,
		Trigger:      &log.TriggerEvent{Token: token, Note: note, Outcome: outcome},
	})
}

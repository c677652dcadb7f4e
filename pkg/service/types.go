package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/notesock/notesock-go/pkg/log"
	"github.com/notesock/notesock-go/pkg/match"
	"github.com/notesock/notesock-go/pkg/metric"
	"github.com/notesock/notesock-go/pkg/midi"
	"github.com/notesock/notesock-go/pkg/output"
)

// Service lifecycle errors.
var (
	ErrAlreadyStarted = errors.New("service already started")
	ErrNotStarted     = errors.New("service not started")
)

// State tracks the service lifecycle.
type State uint8

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateStarting:
		return "STARTING"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	default:
		return fmt.Sprintf("STATE(%d)", uint8(s))
	}
}

// Config configures a Service.
type Config struct {
	// SocketPath is the IPC endpoint path. Required.
	SocketPath string

	// Channel is the MIDI channel for note pulses.
	Channel midi.Channel

	// DeviceFilter narrows the catalog before PortFilter.
	DeviceFilter match.Filter

	// PortFilter selects the output port within the device subset.
	PortFilter match.Filter

	// ReceiveTimeout bounds the wait for a line on each connection
	// (default: transport.DefaultReceiveTimeout).
	ReceiveTimeout time.Duration

	// Hold is the note pulse width (default: dispatch.DefaultHold).
	Hold time.Duration

	// Driver enumerates and opens output ports. Required.
	Driver output.Driver

	// Logger for diagnostics (optional).
	Logger *slog.Logger

	// EventLogger for structured event capture (optional).
	EventLogger log.Logger

	// Metrics is the optional counter set. Nil disables recording.
	Metrics *metric.Metrics
}

// Validate checks the required fields.
func (c Config) Validate() error {
	if c.SocketPath == "" {
		return fmt.Errorf("socket path is required")
	}
	if c.Driver == nil {
		return fmt.Errorf("output driver is required")
	}
	return nil
}

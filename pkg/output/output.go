package output

import "errors"

// Output errors.
var (
	ErrPortNotFound = errors.New("output port not found")
	ErrPortClosed   = errors.New("output port closed")
)

// Driver enumerates and opens MIDI output ports.
//
// Ports returns the exact names reported by the underlying subsystem.
// Open must be called with one of those exact names; healed or normalized
// forms are display/matching artifacts and are never valid for opening.
type Driver interface {
	// Ports returns the names of all available output ports.
	Ports() ([]string, error)

	// Open opens the port with the given exact name.
	Open(name string) (Port, error)
}

// Port is an open MIDI output port.
type Port interface {
	// Send writes one raw MIDI message to the port.
	Send(data []byte) error

	// Close closes the port. It is safe to call Close multiple times.
	Close() error
}

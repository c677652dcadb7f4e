// Package rtmidi implements the output.Driver interface on top of the
// rtmidi backend from gitlab.com/gomidi/midi/v2.
package rtmidi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/notesock/notesock-go/pkg/output"
)

// Driver enumerates and opens ports through rtmidi.
type Driver struct {
	drv *rtmididrv.Driver
}

// New creates a new rtmidi-backed driver.
func New() (*Driver, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rtmidi: %w", err)
	}
	return &Driver{drv: drv}, nil
}

// Ports returns the names of all available MIDI output ports.
func (d *Driver) Ports() ([]string, error) {
	outs, err := d.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate output ports: %w", err)
	}
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names, nil
}

// Open opens the output port with the given exact name.
func (d *Driver) Open(name string) (output.Port, error) {
	outs, err := d.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate output ports: %w", err)
	}
	for _, out := range outs {
		if out.String() != name {
			continue
		}
		if err := out.Open(); err != nil {
			return nil, fmt.Errorf("failed to open output port %q: %w", name, err)
		}
		return &port{out: out}, nil
	}
	return nil, fmt.Errorf("%w: %q", output.ErrPortNotFound, name)
}

// Close releases the underlying rtmidi driver.
func (d *Driver) Close() error {
	return d.drv.Close()
}

// port wraps an open rtmidi output port.
type port struct {
	out drivers.Out
}

func (p *port) Send(data []byte) error {
	return p.out.Send(data)
}

func (p *port) Close() error {
	return p.out.Close()
}

// Compile-time interface satisfaction check.
var _ output.Driver = (*Driver)(nil)

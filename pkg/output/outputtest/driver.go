// Package outputtest provides scripted in-memory fakes of the output
// interfaces for testing.
package outputtest

import (
	"fmt"
	"sync"

	"github.com/notesock/notesock-go/pkg/output"
)

// Driver is a fake output.Driver backed by a fixed name list.
type Driver struct {
	// Names are the port names returned by Ports.
	Names []string

	// PortsErr, when set, is returned by Ports.
	PortsErr error

	// OpenErr, when set, is returned by Open.
	OpenErr error

	// Opened tracks every port handed out by Open, in order.
	Opened []*Port

	mu sync.Mutex
}

// Ports returns the configured port names.
func (d *Driver) Ports() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.PortsErr != nil {
		return nil, d.PortsErr
	}
	return append([]string(nil), d.Names...), nil
}

// Open opens a fake port. The name must match one of Names exactly.
func (d *Driver) Open(name string) (output.Port, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	for _, n := range d.Names {
		if n == name {
			p := &Port{Name: name}
			d.Opened = append(d.Opened, p)
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", output.ErrPortNotFound, name)
}

// Port is a fake output.Port that records every message sent to it.
type Port struct {
	// Name is the name the port was opened with.
	Name string

	// SendErr, when set, is returned by the next Send call.
	SendErr error

	sent   [][]byte
	closed bool
	mu     sync.Mutex
}

// Send records the message, or fails with SendErr if configured.
func (p *Port) Send(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return output.ErrPortClosed
	}
	if p.SendErr != nil {
		return p.SendErr
	}
	p.sent = append(p.sent, append([]byte(nil), data...))
	return nil
}

// Close marks the port closed. Subsequent sends fail with ErrPortClosed.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Sent returns a snapshot of all recorded messages.
func (p *Port) Sent() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.sent))
	for i, m := range p.sent {
		out[i] = append([]byte(nil), m...)
	}
	return out
}

// FailNext makes the next Send call return err.
func (p *Port) FailNext(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SendErr = err
}

// Closed reports whether Close has been called.
func (p *Port) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Compile-time interface satisfaction checks.
var (
	_ output.Driver = (*Driver)(nil)
	_ output.Port   = (*Port)(nil)
)

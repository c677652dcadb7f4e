package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "notesock"

// Metrics holds the daemon's counters. A nil *Metrics is valid: every
// record method is a no-op, so callers never need to guard the optional
// metrics path.
type Metrics struct {
	registry *prometheus.Registry

	ConnectionsAccepted prometheus.Counter
	TriggersDispatched  prometheus.Counter
	TriggersIgnored     prometheus.Counter
	TriggersDropped     prometheus.Counter
	SendFailures        prometheus.Counter
	ReceiveErrors       prometheus.Counter
}

// NewMetrics creates the counter set on a fresh registry, with Go
// runtime and process collectors alongside.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connections",
			Name:      "accepted_total",
			Help:      "Total number of accepted socket connections",
		}),
		TriggersDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "triggers",
			Name:      "dispatched_total",
			Help:      "Total number of tokens dispatched as note pulses",
		}),
		TriggersIgnored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "triggers",
			Name:      "ignored_total",
			Help:      "Total number of tokens that were not note names",
		}),
		TriggersDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "triggers",
			Name:      "dropped_total",
			Help:      "Total number of tokens dropped for lack of an output port",
		}),
		SendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "output",
			Name:      "send_failures_total",
			Help:      "Total number of failed MIDI sends",
		}),
		ReceiveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connections",
			Name:      "receive_errors_total",
			Help:      "Total number of connection reads that failed or timed out",
		}),
	}

	m.registry.MustRegister(
		m.ConnectionsAccepted,
		m.TriggersDispatched,
		m.TriggersIgnored,
		m.TriggersDropped,
		m.SendFailures,
		m.ReceiveErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordAccepted counts an accepted connection.
func (m *Metrics) RecordAccepted() {
	if m != nil {
		m.ConnectionsAccepted.Inc()
	}
}

// RecordDispatched counts a token turned into a note pulse.
func (m *Metrics) RecordDispatched() {
	if m != nil {
		m.TriggersDispatched.Inc()
	}
}

// RecordIgnored counts a token that was not a note name.
func (m *Metrics) RecordIgnored() {
	if m != nil {
		m.TriggersIgnored.Inc()
	}
}

// RecordDropped counts a token dropped because no output port is open.
func (m *Metrics) RecordDropped() {
	if m != nil {
		m.TriggersDropped.Inc()
	}
}

// RecordSendFailure counts a failed MIDI send.
func (m *Metrics) RecordSendFailure() {
	if m != nil {
		m.SendFailures.Inc()
	}
}

// RecordReceiveError counts a failed or timed-out connection read.
func (m *Metrics) RecordReceiveError() {
	if m != nil {
		m.ReceiveErrors.Inc()
	}
}

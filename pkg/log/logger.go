package log

// Logger is the interface event sinks implement.
// Pass nil or NoopLogger to disable event capture.
type Logger interface {
	// Log records an event. Implementations must be thread-safe.
	// The event should be processed quickly; blocking stalls dispatch.
	Log(event Event)
}

// NoopLogger discards all events. Use when event capture is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}

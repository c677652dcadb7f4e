package log

import "time"

// Event represents one captured server event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection (UUID), when the
	// event belongs to one.
	ConnectionID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	Trigger     *TriggerEvent     `cbor:"5,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"6,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"7,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates data arriving from a client.
	DirectionIn Direction = 0
	// DirectionOut indicates data sent toward the output device.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryTrigger indicates a trigger token event.
	CategoryTrigger Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTrigger:
		return "TRIGGER"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// TriggerEvent captures one trigger token and what became of it.
type TriggerEvent struct {
	// Token is the raw trigger token as received.
	Token string `cbor:"1,keyasint"`

	// Note is the resolved note number, when the token was recognized.
	Note *uint8 `cbor:"2,keyasint,omitempty"`

	// Outcome records how the trigger was handled.
	Outcome TriggerOutcome `cbor:"3,keyasint"`
}

// TriggerOutcome records how a trigger token was handled.
type TriggerOutcome uint8

const (
	// OutcomeReceived indicates a token arrived on a connection.
	OutcomeReceived TriggerOutcome = 0
	// OutcomeDispatched indicates a complete on/off note pulse was sent.
	OutcomeDispatched TriggerOutcome = 1
	// OutcomeIgnored indicates the token is not a known note name.
	OutcomeIgnored TriggerOutcome = 2
	// OutcomeDropped indicates no output port was open.
	OutcomeDropped TriggerOutcome = 3
	// OutcomeFailed indicates the device send failed.
	OutcomeFailed TriggerOutcome = 4
)

// String returns the outcome name.
func (o TriggerOutcome) String() string {
	switch o {
	case OutcomeReceived:
		return "RECEIVED"
	case OutcomeDispatched:
		return "DISPATCHED"
	case OutcomeIgnored:
		return "IGNORED"
	case OutcomeDropped:
		return "DROPPED"
	case OutcomeFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures connection, service, and port lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityConnection indicates a connection state change.
	StateEntityConnection StateEntity = 0
	// StateEntityService indicates a service lifecycle change.
	StateEntityService StateEntity = 1
	// StateEntityPort indicates an output port state change.
	StateEntityPort StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntityService:
		return "SERVICE"
	case StateEntityPort:
		return "PORT"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures contained failures.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}

package match

import (
	"errors"
	"fmt"

	"github.com/notesock/notesock-go/pkg/catalog"
)

// Resolution errors.
var (
	ErrNoMatch   = errors.New("no matching output port")
	ErrAmbiguous = errors.New("ambiguous output port selection")
)

// Selection is the outcome of a successful resolution.
type Selection struct {
	// Original is the exact enumerated name, the only value valid for
	// opening the port.
	Original string

	// Display is the healed human-readable name.
	Display string
}

// ResolutionError reports a failed resolution. It carries the display names
// of the matched subset after all filters and of the full unfiltered
// catalog, for operator diagnostics.
type ResolutionError struct {
	Matched []string
	All     []string
}

// Error describes the failure class.
func (e *ResolutionError) Error() string {
	if len(e.Matched) == 0 {
		return "no matching output port"
	}
	return fmt.Sprintf("ambiguous output port selection (matched %d)", len(e.Matched))
}

// Unwrap maps the failure onto the package sentinels.
func (e *ResolutionError) Unwrap() error {
	if len(e.Matched) > 1 {
		return ErrAmbiguous
	}
	return ErrNoMatch
}

// Resolve narrows the catalog with the device filter, then the port filter,
// and returns the single remaining record. The device→port order is fixed.
// Resolution is deterministic: the same records and filters always produce
// the same outcome.
func Resolve(recs []catalog.Record, device, port Filter) (Selection, error) {
	matched := port.Apply(device.Apply(recs))

	if len(matched) == 1 {
		return Selection{
			Original: matched[0].Original,
			Display:  matched[0].Display,
		}, nil
	}

	return Selection{}, &ResolutionError{
		Matched: displayNames(matched),
		All:     displayNames(recs),
	}
}

func displayNames(recs []catalog.Record) []string {
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec.Display
	}
	return out
}

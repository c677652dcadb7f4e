package catalog

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/notesock/notesock-go/pkg/output"
)

// Record describes one enumerated output port.
//
// Original is the only value valid for opening the port. Display and
// NormalizedForms are derived and must never be fed back into open calls.
// Records are built fresh on every enumeration and are immutable after
// construction.
type Record struct {
	// Original is the exact name reported by the enumerator.
	Original string

	// Alternates are candidate re-decodings of Original, in priority order.
	Alternates []string

	// NormalizedForms holds NFKC+casefolded forms of Original and every
	// alternate, used only for matching.
	NormalizedForms []string

	// Display is the best human-readable form, healed if possible.
	Display string
}

// Normalize returns the NFKC-normalized, case-folded form of s used for
// language-agnostic matching.
func Normalize(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}

// NewRecord builds a Record for one enumerated port name.
func NewRecord(original string) Record {
	var alts []string
	if Suspect(original) {
		alts = Variants(original)
	}

	forms := []string{Normalize(original)}
	seen := map[string]struct{}{forms[0]: {}}
	for _, a := range alts {
		n := Normalize(a)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		forms = append(forms, n)
	}

	return Record{
		Original:        original,
		Alternates:      alts,
		NormalizedForms: forms,
		Display:         display(original, alts),
	}
}

// List enumerates all output ports through the driver and returns one
// Record per port, in enumeration order.
func List(d output.Driver) ([]Record, error) {
	names, err := d.Ports()
	if err != nil {
		return nil, fmt.Errorf("failed to list output ports: %w", err)
	}
	recs := make([]Record, len(names))
	for i, name := range names {
		recs[i] = NewRecord(name)
	}
	return recs, nil
}

package match

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/notesock/notesock-go/pkg/catalog"
)

// Kind identifies the filter variant.
type Kind uint8

const (
	// KindNone is the zero filter: it passes every record through.
	KindNone Kind = iota

	// KindLiteral matches by normalized substring.
	KindLiteral

	// KindRegex matches by case-insensitive unanchored regex.
	KindRegex
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindLiteral:
		return "literal"
	case KindRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// Filter selects catalog records by name. The zero value passes everything.
// A Filter is immutable after construction.
type Filter struct {
	kind    Kind
	literal string
	re      *regexp.Regexp
}

// Literal builds a filter that keeps records where the normalized value is
// a substring of any normalized form. An empty value yields the zero filter.
func Literal(value string) Filter {
	if value == "" {
		return Filter{}
	}
	return Filter{kind: KindLiteral, literal: catalog.Normalize(value)}
}

// Regex builds a filter from a regex pattern. The pattern is NFKC-normalized
// and compiled case-insensitively; matching is an unanchored search. A
// compile failure is a configuration error surfaced here, not at match time.
func Regex(pattern string) (Filter, error) {
	if pattern == "" {
		return Filter{}, nil
	}
	re, err := regexp.Compile("(?i)" + norm.NFKC.String(pattern))
	if err != nil {
		return Filter{}, fmt.Errorf("invalid regex %q: %w", pattern, err)
	}
	return Filter{kind: KindRegex, re: re}, nil
}

// Kind returns the filter variant.
func (f Filter) Kind() Kind {
	return f.kind
}

// IsZero reports whether the filter passes every record.
func (f Filter) IsZero() bool {
	return f.kind == KindNone
}

// Matches reports whether any of the record's normalized forms satisfies
// the filter.
func (f Filter) Matches(rec catalog.Record) bool {
	switch f.kind {
	case KindNone:
		return true
	case KindLiteral:
		for _, form := range rec.NormalizedForms {
			if strings.Contains(form, f.literal) {
				return true
			}
		}
	case KindRegex:
		for _, form := range rec.NormalizedForms {
			if f.re.MatchString(form) {
				return true
			}
		}
	}
	return false
}

// Apply returns the records satisfying the filter, preserving order.
// Input records are never mutated.
func (f Filter) Apply(recs []catalog.Record) []catalog.Record {
	if f.IsZero() {
		return recs
	}
	var out []catalog.Record
	for _, rec := range recs {
		if f.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

package catalog

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// mojibakeHints are characters typical of double-decoded legacy text.
// A name containing any of them is treated as a healing candidate.
var mojibakeHints = map[rune]struct{}{
	'Â': {}, 'Ã': {}, 'Ä': {}, 'Å': {},
	'æ': {}, 'ð': {}, 'ø': {}, 'þ': {},
	'�': {}, '„': {}, 'É': {}, 'ê': {}, 'Ç': {}, 'π': {},
}

// legacyCharmaps are tried in fixed priority order when healing.
var legacyCharmaps = []*charmap.Charmap{
	charmap.Windows1252,
	charmap.Macintosh,
	charmap.ISO8859_1,
}

// Suspect reports whether name looks like mojibake.
func Suspect(name string) bool {
	for _, r := range name {
		if _, ok := mojibakeHints[r]; ok {
			return true
		}
	}
	return false
}

// Variants returns candidate healed forms of a mis-decoded UTF-8 string.
//
// Each legacy charmap is tried in priority order: the name is re-encoded
// strictly under the charmap and the resulting bytes re-decoded as strict
// UTF-8. Attempts with unmappable runes or invalid UTF-8 output are
// discarded, as are candidates identical to the input. The result is
// deduplicated preserving first-seen order.
func Variants(name string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, cm := range legacyCharmaps {
		b, err := cm.NewEncoder().Bytes([]byte(name))
		if err != nil {
			continue
		}
		if !utf8.Valid(b) {
			continue
		}
		cand := string(b)
		if cand == name {
			continue
		}
		if _, dup := seen[cand]; dup {
			continue
		}
		seen[cand] = struct{}{}
		out = append(out, cand)
	}
	return out
}

// containsCJK reports whether s contains Hiragana/Katakana or CJK Unified
// Ideograph characters.
func containsCJK(s string) bool {
	for _, r := range s {
		if (r >= 0x3040 && r <= 0x30FF) || (r >= 0x4E00 && r <= 0x9FFF) {
			return true
		}
	}
	return false
}

// display picks the best human-readable form among the healed candidates.
// Candidates containing Japanese/CJK text win; otherwise the first candidate
// in priority order; otherwise the original name.
func display(original string, variants []string) string {
	for _, v := range variants {
		if containsCJK(v) {
			return v
		}
	}
	if len(variants) > 0 {
		return variants[0]
	}
	return original
}

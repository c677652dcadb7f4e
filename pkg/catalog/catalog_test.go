package catalog

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"github.com/notesock/notesock-go/pkg/output/outputtest"
)

// latin1Mojibake returns s as it would appear after its UTF-8 bytes were
// mis-decoded as Latin-1.
func latin1Mojibake(s string) string {
	var b strings.Builder
	for _, by := range []byte(s) {
		b.WriteRune(rune(by))
	}
	return b.String()
}

// macRomanMojibake returns s as it would appear after its UTF-8 bytes were
// mis-decoded as Mac-Roman.
func macRomanMojibake(t *testing.T, s string) string {
	t.Helper()
	out, err := charmap.Macintosh.NewDecoder().String(s)
	if err != nil {
		t.Fatalf("failed to build Mac-Roman mojibake: %v", err)
	}
	return out
}

func TestSuspect(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"plain ascii", "Loop A", false},
		{"empty", "", false},
		{"plain unicode", "Drums básicos", false},
		{"latin1 mojibake of kanji", latin1Mojibake("打楽器"), true},
		{"replacement char", "Bus �1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Suspect(tt.in); got != tt.want {
				t.Errorf("Suspect(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewRecord_CleanNameIsIdentity(t *testing.T) {
	for _, name := range []string{"Loop A", "IAC Driver Bus 1", "Virtual Out"} {
		rec := NewRecord(name)
		if rec.Display != name {
			t.Errorf("Display = %q, want %q", rec.Display, name)
		}
		if len(rec.Alternates) != 0 {
			t.Errorf("Alternates = %v, want none", rec.Alternates)
		}
		if rec.Original != name {
			t.Errorf("Original = %q, want %q", rec.Original, name)
		}
	}
}

func TestNewRecord_HealsLatin1Mojibake(t *testing.T) {
	const healed = "打楽器"
	moji := latin1Mojibake(healed)

	rec := NewRecord(moji)
	if rec.Original != moji {
		t.Errorf("Original = %q, want raw mojibake %q", rec.Original, moji)
	}
	if rec.Display != healed {
		t.Errorf("Display = %q, want %q", rec.Display, healed)
	}

	found := false
	for _, a := range rec.Alternates {
		if a == healed {
			found = true
		}
	}
	if !found {
		t.Errorf("Alternates = %v, want to contain %q", rec.Alternates, healed)
	}
}

func TestNewRecord_HealsMacRomanMojibake(t *testing.T) {
	const healed = "ポート"
	moji := macRomanMojibake(t, healed)

	rec := NewRecord(moji)
	if rec.Display != healed {
		t.Errorf("Display = %q, want %q", rec.Display, healed)
	}
	if rec.Original != moji {
		t.Errorf("Original must stay the raw mojibake name, got %q", rec.Original)
	}
}

func TestVariants_RoundTrip(t *testing.T) {
	const healed = "ポート"
	moji := macRomanMojibake(t, healed)

	vars := Variants(moji)
	if len(vars) == 0 {
		t.Fatal("expected at least one variant")
	}

	// The healing round trip must be exact: re-encoding the mojibake under
	// the legacy charmap yields bytes that decode as UTF-8 to the variant.
	b, err := charmap.Macintosh.NewEncoder().Bytes([]byte(moji))
	if err != nil {
		t.Fatalf("Mac-Roman re-encode failed: %v", err)
	}
	if string(b) != healed {
		t.Errorf("round trip = %q, want %q", string(b), healed)
	}
}

func TestVariants_NoneForUnhealable(t *testing.T) {
	// Contains a hint rune but also Katakana, which none of the legacy
	// charmaps can encode: every attempt fails, no candidates.
	in := "Ã ポート"
	if got := Variants(in); len(got) != 0 {
		t.Errorf("Variants(%q) = %v, want none", in, got)
	}
	if rec := NewRecord(in); rec.Display != in {
		t.Errorf("Display = %q, want original %q", rec.Display, in)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"casefold", "LOOP A", "loop a"},
		{"fullwidth to ascii", "Ｌｏｏｐ", "loop"},
		{"halfwidth katakana to katakana", "ﾎﾟｰﾄ", "ポート"},
		{"identity", "loop a", "loop a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewRecord_NormalizedFormsCoverAlternates(t *testing.T) {
	const healed = "ポート"
	moji := macRomanMojibake(t, healed)

	rec := NewRecord(moji)
	want := Normalize(healed)
	found := false
	for _, f := range rec.NormalizedForms {
		if f == want {
			found = true
		}
	}
	if !found {
		t.Errorf("NormalizedForms = %v, want to contain %q", rec.NormalizedForms, want)
	}
	if rec.NormalizedForms[0] != Normalize(moji) {
		t.Errorf("first normalized form should be the original's, got %q", rec.NormalizedForms[0])
	}
}

func TestList(t *testing.T) {
	driver := &outputtest.Driver{Names: []string{"Loop A", "Loop B"}}
	recs, err := List(driver)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Original != "Loop A" || recs[1].Original != "Loop B" {
		t.Errorf("records out of order: %v", recs)
	}
}

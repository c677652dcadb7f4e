package midi

import (
	"bytes"
	"testing"
)

func TestNoteName(t *testing.T) {
	tests := []struct {
		num  uint8
		name string
	}{
		{0, "C-1"},
		{21, "A0"},
		{60, "C4"},
		{61, "C#4"},
		{69, "A4"},
		{127, "G9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NoteName(tt.num); got != tt.name {
				t.Errorf("NoteName(%d) = %q, want %q", tt.num, got, tt.name)
			}
			num, ok := NoteNumber(tt.name)
			if !ok || num != tt.num {
				t.Errorf("NoteNumber(%q) = %d, %v, want %d, true", tt.name, num, ok, tt.num)
			}
		})
	}
}

func TestNoteNumber_TableIsComplete(t *testing.T) {
	if len(noteToNumber) != NoteCount {
		t.Fatalf("table has %d entries, want %d", len(noteToNumber), NoteCount)
	}
}

func TestNoteNumber_Misses(t *testing.T) {
	for _, name := range []string{"", "c#4", "H2", "C#", "Db4", "C10", "C#4 "} {
		if _, ok := NoteNumber(name); ok {
			t.Errorf("NoteNumber(%q) unexpectedly found", name)
		}
	}
}

func TestClampChannel(t *testing.T) {
	tests := []struct {
		in   int
		want Channel
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{10, 10},
		{16, 16},
		{17, 16},
		{100, 16},
	}
	for _, tt := range tests {
		if got := ClampChannel(tt.in); got != tt.want {
			t.Errorf("ClampChannel(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestChannelMessages(t *testing.T) {
	ch := Channel(1)
	if got := ch.NoteOn(61); !bytes.Equal(got, []byte{0x90, 61, 127}) {
		t.Errorf("NoteOn = %v", got)
	}
	if got := ch.NoteOff(61); !bytes.Equal(got, []byte{0x80, 61, 0}) {
		t.Errorf("NoteOff = %v", got)
	}

	ch = Channel(10)
	if ch.StatusOn() != 0x99 || ch.StatusOff() != 0x89 {
		t.Errorf("channel 10 status bytes = %#x/%#x", ch.StatusOn(), ch.StatusOff())
	}
}

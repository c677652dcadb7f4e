package midi

import "fmt"

// NoteCount is the number of representable MIDI notes.
const NoteCount = 128

// noteNames are the pitch class names, sharps only.
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// noteToNumber maps note names ("C-1".."G9") to note numbers (0..127).
var noteToNumber map[string]uint8

func init() {
	noteToNumber = make(map[string]uint8, NoteCount)
	for n := 0; n < NoteCount; n++ {
		noteToNumber[NoteName(uint8(n))] = uint8(n)
	}
}

// NoteName returns the name of a note number, e.g. 61 -> "C#4".
func NoteName(n uint8) string {
	return fmt.Sprintf("%s%d", noteNames[n%12], int(n/12)-1)
}

// NoteNumber looks up a note name. The lookup is exact and case-sensitive;
// ok is false for anything outside the table.
func NoteNumber(name string) (uint8, bool) {
	n, ok := noteToNumber[name]
	return n, ok
}

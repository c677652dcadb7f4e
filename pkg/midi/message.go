package midi

// Status byte bases and velocity bounds.
const (
	StatusNoteOn  byte = 0x90
	StatusNoteOff byte = 0x80

	MaxVelocity byte = 127
)

// Channel bounds.
const (
	MinChannel     = 1
	MaxChannel     = 16
	DefaultChannel = 1
)

// Channel is a MIDI channel number in the range 1..16.
type Channel uint8

// ClampChannel clamps n into the valid channel range.
func ClampChannel(n int) Channel {
	if n < MinChannel {
		return MinChannel
	}
	if n > MaxChannel {
		return MaxChannel
	}
	return Channel(n)
}

// StatusOn returns the Note On status byte for the channel.
func (c Channel) StatusOn() byte {
	return StatusNoteOn + byte(c-1)
}

// StatusOff returns the Note Off status byte for the channel.
func (c Channel) StatusOff() byte {
	return StatusNoteOff + byte(c-1)
}

// NoteOn returns the 3-byte Note On message for key at full velocity.
func (c Channel) NoteOn(key uint8) []byte {
	return []byte{c.StatusOn(), key, MaxVelocity}
}

// NoteOff returns the matching 3-byte Note Off message for key.
func (c Channel) NoteOff(key uint8) []byte {
	return []byte{c.StatusOff(), key, 0}
}

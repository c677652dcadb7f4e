// Package midi provides the note name table and channel message encoding.
//
// Note names span the full representable range C-1..G9 using sharps only
// (C4 = 60). Lookup is exact and case-sensitive; a miss is not an error at
// this layer. Channel status bytes are encoded once per channel, not per
// message.
package midi

// Package catalog enumerates MIDI output ports and heals mojibake names.
//
// Port names reported by the OS are sometimes the result of legacy 8-bit
// text (CP1252, Mac-Roman, Latin-1) being interpreted as UTF-8, which turns
// a Japanese device name into strings like "Ã£Æ..." (mojibake). The catalog
// builds a Record per port that keeps the exact original name for opening,
// best-effort healed alternates for display, and NFKC+casefolded forms for
// matching.
//
// Healing is lossy and best-effort. Healed and normalized forms are only
// ever used for display and matching; opening a port always uses the
// original name exactly as enumerated.
package catalog

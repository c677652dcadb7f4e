// Package output defines the boundary to the physical MIDI output subsystem.
//
// The rest of the repository only depends on the Driver and Port interfaces
// declared here. The real backend lives in the rtmidi subpackage; tests use
// the scripted fake in the outputtest subpackage. Keeping the backend behind
// an interface means the catalog, resolver, and dispatcher never import a
// cgo-backed MIDI library.
package output

// Package version carries the build version stamped into the binaries.
package version

import "runtime/debug"

// Version is the release version, overridable at build time via
// -ldflags "-X github.com/notesock/notesock-go/pkg/version.Version=...".
var Version = "dev"

// String returns the release version, falling back to VCS metadata when
// no version was stamped in.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 12 {
				return "dev-" + s.Value[:12]
			}
		}
	}
	return Version
}

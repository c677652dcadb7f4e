package transport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// SocketName is the endpoint file name under the runtime directory.
const SocketName = "notesock.sock"

// DefaultSocketPath returns the default endpoint path:
// $XDG_RUNTIME_DIR/notesock.sock, or a per-user file under the temp
// directory when no runtime dir is available.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, SocketName)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("notesock-%d.sock", os.Getuid()))
}

// FirstToken extracts the trigger token from a received line: the input is
// trimmed and split on the first run of commas/whitespace, and only the
// first token counts. Returns "" when the line holds no token.
func FirstToken(line string) string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Package transport implements the local IPC endpoint: a unix stream
// socket with a one-line-per-connection wire protocol.
//
// # Wire protocol
//
// A client connects, writes one UTF-8 line, and may half-close its write
// side. The server trims the line and uses the first comma/whitespace
// delimited token as the trigger name; any further payload is ignored. The
// server sends no reply. Clients apply a short connect timeout and treat a
// reply-read timeout as best-effort success; OK and "ERR: ..." reply lines
// are recognized for forward compatibility.
//
// # Singleton guard
//
// At most one server owns the endpoint at a time, enforced by connection
// probing rather than a lock file: an existing socket file that accepts a
// short-timeout connection means a live instance (the new process exits
// with success), one that refuses is stale and is removed. A symlink at
// the endpoint path is refused outright, and re-checked immediately before
// bind to close the race window.
package transport

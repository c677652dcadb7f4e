// Package service assembles the daemon: it resolves the configured
// output port against the device catalog, opens it, binds the socket
// endpoint, and wires received tokens into the note dispatcher.
package service

// Package log provides structured event capture and stderr diagnostics.
//
// Two concerns live here. The Event/Logger types capture machine-readable
// trigger, state, and error events to an append-only CBOR file for later
// analysis with the notesock-log CLI. NewDiagnosticLogger builds the slog
// logger used for human-readable operational output; it always writes
// level-tagged lines to stderr, and the NOTESOCK_DEBUG environment variable
// raises its verbosity to debug.
//
// # Event capture
//
//	// For production: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/notesock/server.nslog")
//
//	// For development: mirror events to the console too
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(logger),
//	    fileLogger,
//	)
//
// Event files use CBOR encoding with integer keys and the .nslog extension.
package log

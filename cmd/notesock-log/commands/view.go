// Package commands implements the notesock-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/notesock/notesock-go/pkg/log"
)

// RunView reads the log file and prints matching events.
func RunView(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	connID := shortenConnID(event.ConnectionID)
	dir := event.Direction.String()

	var typeLabel string
	switch {
	case event.Trigger != nil:
		typeLabel = "Trigger"
	case event.StateChange != nil:
		typeLabel = event.StateChange.Entity.String()
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [conn:%s] %-3s %s %s\n", ts, connID, dir, event.Category.String(), typeLabel)

	switch {
	case event.Trigger != nil:
		formatTriggerDetails(w, event.Trigger)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenConnID returns the first 8 characters of the connection ID.
func shortenConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatTriggerDetails(w io.Writer, trigger *log.TriggerEvent) {
	fmt.Fprintf(w, "  Token: %q\n", trigger.Token)
	if trigger.Note != nil {
		fmt.Fprintf(w, "  Note: %d\n", *trigger.Note)
	}
	fmt.Fprintf(w, "  Outcome: %s\n", trigger.Outcome.String())
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  Transition: %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  State: %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, errEvent *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", errEvent.Message)
	if errEvent.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", errEvent.Context)
	}
}

// ParseDirectionFlag parses the -direction flag value.
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (expected in, out)", s)
	}
}

// ParseCategoryFlag parses the -category flag value.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "trigger":
		return log.CategoryTrigger, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category %q (expected trigger, state, error)", s)
	}
}

// ParseOutcomeFlag parses the -outcome flag value.
func ParseOutcomeFlag(s string) (log.TriggerOutcome, error) {
	switch strings.ToLower(s) {
	case "received":
		return log.OutcomeReceived, nil
	case "dispatched":
		return log.OutcomeDispatched, nil
	case "ignored":
		return log.OutcomeIgnored, nil
	case "dropped":
		return log.OutcomeDropped, nil
	case "failed":
		return log.OutcomeFailed, nil
	default:
		return 0, fmt.Errorf("unknown outcome %q (expected received, dispatched, ignored, dropped, failed)", s)
	}
}

// ParseTimeFlag parses an RFC3339 time flag value.
func ParseTimeFlag(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected RFC3339): %w", s, err)
	}
	return t, nil
}

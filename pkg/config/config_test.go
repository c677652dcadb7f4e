package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/notesock/notesock-go/pkg/match"
)

func TestParse_Full(t *testing.T) {
	cfg, err := Parse([]byte(`
midi:
  channel: 10
  device:
    name: "IAC Driver"
  port:
    regex: "bus [0-9]+"
socket: /tmp/custom.sock
event_log: /var/log/notesock/server.nslog
metrics_listen: 127.0.0.1:9615
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Channel != 10 {
		t.Errorf("Channel = %d, want 10", cfg.Channel)
	}
	if cfg.Device.Kind() != match.KindLiteral {
		t.Errorf("Device kind = %v, want literal", cfg.Device.Kind())
	}
	if cfg.Port.Kind() != match.KindRegex {
		t.Errorf("Port kind = %v, want regex", cfg.Port.Kind())
	}
	if cfg.Socket != "/tmp/custom.sock" {
		t.Errorf("Socket = %q", cfg.Socket)
	}
	if cfg.EventLog != "/var/log/notesock/server.nslog" {
		t.Errorf("EventLog = %q", cfg.EventLog)
	}
	if cfg.MetricsListen != "127.0.0.1:9615" {
		t.Errorf("MetricsListen = %q", cfg.MetricsListen)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Channel != 1 {
		t.Errorf("Channel = %d, want default 1", cfg.Channel)
	}
	if !cfg.Device.IsZero() || !cfg.Port.IsZero() {
		t.Error("filters should default to pass-through")
	}
}

func TestParse_ChannelLenient(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want int
	}{
		{"integer", "midi: {channel: 7}", 7},
		{"absent", "midi: {}", 1},
		{"float truncates", "midi: {channel: 8.9}", 8},
		{"numeric string", `midi: {channel: "12"}`, 12},
		{"padded numeric string", `midi: {channel: " 3 "}`, 3},
		{"non-numeric string", `midi: {channel: loud}`, 1},
		{"bool falls back", "midi: {channel: true}", 1},
		{"mapping falls back", "midi: {channel: {a: 1}}", 1},
		{"below range clamps", "midi: {channel: 0}", 1},
		{"above range clamps", "midi: {channel: 99}", 16},
		{"negative clamps", "midi: {channel: -4}", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if int(cfg.Channel) != tt.want {
				t.Errorf("Channel = %d, want %d", cfg.Channel, tt.want)
			}
		})
	}
}

func TestParse_FilterValidation(t *testing.T) {
	if _, err := Parse([]byte("midi:\n  device:\n    name: a\n    regex: b\n")); !errors.Is(err, ErrInvalid) {
		t.Errorf("both name and regex: err = %v, want ErrInvalid", err)
	}
	if _, err := Parse([]byte("midi:\n  port:\n    regex: '('\n")); !errors.Is(err, ErrInvalid) {
		t.Errorf("bad regex: err = %v, want ErrInvalid", err)
	}

	// Empty strings count as absent.
	cfg, err := Parse([]byte("midi:\n  device:\n    name: \"\"\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !cfg.Device.IsZero() {
		t.Error("empty name should yield the zero filter")
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("midi: [unclosed")); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("err = %v, want ErrMissing", err)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("midi:\n  channel: 2\n  port:\n    name: Loop A\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Channel != 2 || cfg.Port.Kind() != match.KindLiteral {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

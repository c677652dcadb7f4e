package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/notesock/notesock-go/pkg/match"
	"github.com/notesock/notesock-go/pkg/midi"
)

// Configuration errors.
var (
	ErrMissing = errors.New("config file not found")
	ErrInvalid = errors.New("invalid config")
)

// Config is the validated server configuration.
type Config struct {
	// Channel is the MIDI channel for note events, clamped to 1..16.
	Channel midi.Channel

	// Device is the optional device-level filter.
	Device match.Filter

	// Port is the optional port-level filter.
	Port match.Filter

	// Socket optionally overrides the endpoint path.
	Socket string

	// EventLog optionally enables CBOR event capture to this path.
	EventLog string

	// MetricsListen optionally enables the Prometheus endpoint on this
	// host:port.
	MetricsListen string
}

// rawConfig mirrors the YAML document shape before validation.
type rawConfig struct {
	MIDI struct {
		Channel yaml.Node  `yaml:"channel"`
		Device  *rawFilter `yaml:"device"`
		Port    *rawFilter `yaml:"port"`
	} `yaml:"midi"`
	Socket        string `yaml:"socket"`
	EventLog      string `yaml:"event_log"`
	MetricsListen string `yaml:"metrics_listen"`
}

type rawFilter struct {
	Name  string `yaml:"name"`
	Regex string `yaml:"regex"`
}

// DefaultPath returns the default configuration file location,
// ~/.config/notesock/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	return filepath.Join(dir, "notesock", "config.yaml"), nil
}

// Load reads, parses, and validates the configuration at path.
// A missing file yields ErrMissing; a malformed or contradictory document
// yields ErrInvalid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	cfg := &Config{
		Channel:       channelFromNode(raw.MIDI.Channel),
		Socket:        raw.Socket,
		EventLog:      raw.EventLog,
		MetricsListen: raw.MetricsListen,
	}

	var err error
	if cfg.Device, err = filterFromRaw("midi.device", raw.MIDI.Device); err != nil {
		return nil, err
	}
	if cfg.Port, err = filterFromRaw("midi.port", raw.MIDI.Port); err != nil {
		return nil, err
	}
	return cfg, nil
}

// channelFromNode parses the channel leniently: integer, truncated float,
// or numeric string; any other shape falls back to the default. The result
// is clamped to the valid channel range.
func channelFromNode(n yaml.Node) midi.Channel {
	ch := midi.DefaultChannel

	var i int
	var f float64
	var s string
	switch {
	case n.IsZero():
		// absent: keep default
	case n.Decode(&i) == nil:
		ch = i
	case n.Decode(&f) == nil:
		ch = int(f)
	case n.Decode(&s) == nil:
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			ch = v
		}
	}
	return midi.ClampChannel(ch)
}

// filterFromRaw validates one filter block. Exactly one of name or regex
// may be set; empty strings count as absent.
func filterFromRaw(key string, raw *rawFilter) (match.Filter, error) {
	if raw == nil {
		return match.Filter{}, nil
	}
	if raw.Name != "" && raw.Regex != "" {
		return match.Filter{}, fmt.Errorf("%w: %s: exactly one of name or regex", ErrInvalid, key)
	}
	if raw.Name != "" {
		return match.Literal(raw.Name), nil
	}
	if raw.Regex != "" {
		f, err := match.Regex(raw.Regex)
		if err != nil {
			return match.Filter{}, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
		}
		return f, nil
	}
	return match.Filter{}, nil
}

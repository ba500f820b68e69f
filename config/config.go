// Package config loads the YAML configuration for the OSC remote-control service.
package config

import (
	"bytes"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration.
type Config struct {
	OSC     OSCConfig     `yaml:"osc"`
	Events  EventsConfig  `yaml:"events"`
	Logging LoggingConfig `yaml:"logging"`
}

type OSCConfig struct {
	// Listen is the host:port the UDP listener binds.
	Listen        string `yaml:"listen"`
	ReadTimeoutMS int    `yaml:"read_timeout_ms,omitempty"`
}

// EventsConfig controls the WebSocket feed of dispatched actions.
type EventsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Listen       string `yaml:"listen"`
	Path         string `yaml:"path"`
	SendBuf      int    `yaml:"send_buf,omitempty"`
	BroadcastBuf int    `yaml:"broadcast_buf,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	return Config{
		OSC: OSCConfig{
			Listen: "127.0.0.1:9000",
		},
		Events: EventsConfig{
			Enabled: true,
			Listen:  "127.0.0.1:9001",
			Path:    "/events",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFile reads and parses a YAML config file on top of DefaultConfig.
// Unknown fields are rejected.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, errors.Wrap(err, "read config file")
	}
	return Parse(b)
}

// Parse decodes YAML config bytes on top of DefaultConfig.
func Parse(b []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, errors.Wrap(err, "decode config yaml")
	}

	// Only whitespace and comments may follow the document.
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return Config{}, errors.New("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// Validate checks the config for values the service can't start with.
func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.OSC.Listen); err != nil {
		return errors.Wrapf(err, "osc.listen %q", c.OSC.Listen)
	}
	if c.OSC.ReadTimeoutMS < 0 {
		return errors.Errorf("osc.read_timeout_ms must be >= 0, got %d", c.OSC.ReadTimeoutMS)
	}
	if c.Events.Enabled {
		if _, _, err := net.SplitHostPort(c.Events.Listen); err != nil {
			return errors.Wrapf(err, "events.listen %q", c.Events.Listen)
		}
		if !strings.HasPrefix(c.Events.Path, "/") {
			return errors.Errorf("events.path must start with '/', got %q", c.Events.Path)
		}
	}
	if c.Events.SendBuf < 0 || c.Events.BroadcastBuf < 0 {
		return errors.New("events buffer sizes must be >= 0")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "error", "warn", "warning", "info", "debug":
	default:
		return errors.Errorf("invalid log level: %s (must be error, warn, info, or debug)", c.Logging.Level)
	}
	return nil
}

// FlagOverrides holds values set on the command line. A nil pointer means the
// flag wasn't given; a non-nil one is applied even if it holds a zero value.
type FlagOverrides struct {
	OSCListen     *string
	EventsEnabled *bool
	EventsListen  *string
	LogLevel      *string
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.OSCListen != nil {
		cfg.OSC.Listen = *o.OSCListen
	}
	if o.EventsEnabled != nil {
		cfg.Events.Enabled = *o.EventsEnabled
	}
	if o.EventsListen != nil {
		cfg.Events.Listen = *o.EventsListen
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// ExpandPath expands a leading "~/" to the user's home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

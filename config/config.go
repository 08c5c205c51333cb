package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/orb/filter"
	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/risk"
	"github.com/rustyeddy/orb/session"
)

// Config represents a complete backtest configuration
type Config struct {
	Instrument string        `json:"instrument" yaml:"instrument"`
	Timeframe  string        `json:"timeframe" yaml:"timeframe"`
	Data       DataConfig    `json:"data" yaml:"data"`
	Session    SessionConfig `json:"session" yaml:"session"`
	Risk       risk.Config   `json:"risk" yaml:"risk"`
	Filters    []filter.Spec `json:"filters,omitempty" yaml:"filters,omitempty"`
	Sweep      SweepConfig   `json:"sweep" yaml:"sweep"`
	Journal    JournalConfig `json:"journal" yaml:"journal"`
}

// DataConfig selects the bar source
type DataConfig struct {
	Source string `json:"source" yaml:"source"` // "sqlite", "csv" or "clickhouse"
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	DSN    string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// SessionConfig is the venue clock in its file form
type SessionConfig struct {
	Timezone        string `json:"timezone" yaml:"timezone"`
	Anchor          string `json:"anchor" yaml:"anchor"`
	DurationMinutes int    `json:"duration_minutes" yaml:"duration_minutes"`
	AnchorDayOffset int    `json:"anchor_day_offset,omitempty" yaml:"anchor_day_offset,omitempty"`
	ScanEnd         string `json:"scan_end" yaml:"scan_end"`
	ExitEnd         string `json:"exit_end,omitempty" yaml:"exit_end,omitempty"`
}

// SweepConfig is the day range and parameter grid. Empty grid axes fall
// back to the single value in the risk/session sections.
type SweepConfig struct {
	From             string          `json:"from" yaml:"from"`
	To               string          `json:"to" yaml:"to"`
	Workers          int             `json:"workers" yaml:"workers"`
	RewardMultiples  []float64       `json:"reward_multiples,omitempty" yaml:"reward_multiples,omitempty"`
	ConfirmationBars []int           `json:"confirmation_bars,omitempty" yaml:"confirmation_bars,omitempty"`
	Durations        []int           `json:"durations,omitempty" yaml:"durations,omitempty"`
	StopModes        []risk.StopMode `json:"stop_modes,omitempty" yaml:"stop_modes,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "csv" or "sqlite"
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	ResultsFile string `json:"results_file,omitempty" yaml:"results_file,omitempty"`
}

// Load parses data (YAML, or JSON when it starts with '{'), fills
// instrument defaults and validates.
func Load(data []byte) (*Config, error) {
	cfg := &Config{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if !looksJSON(data) {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		*cfg = Config{}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.ApplyInstrumentDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func looksJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// LoadFromFile loads configuration from a YAML or JSON file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Load(data)
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ApplyInstrumentDefaults fills tick size and timezone from the instrument
// table when they are omitted.
func (c *Config) ApplyInstrumentDefaults() {
	meta, ok := market.Lookup(c.Instrument)
	if !ok {
		return
	}
	if c.Risk.TickSize == 0 {
		c.Risk.TickSize = meta.TickSize
	}
	if c.Session.Timezone == "" {
		c.Session.Timezone = meta.Timezone
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Instrument == "" {
		return fmt.Errorf("instrument is required")
	}
	if _, err := market.ParseTimeframe(c.Timeframe); err != nil {
		return fmt.Errorf("timeframe: %w", err)
	}

	switch c.Data.Source {
	case "sqlite", "csv":
		if c.Data.Path == "" {
			return fmt.Errorf("data.path required for %s source", c.Data.Source)
		}
	case "clickhouse":
		if c.Data.DSN == "" {
			return fmt.Errorf("data.dsn required for clickhouse source")
		}
	default:
		return fmt.Errorf("data.source must be 'sqlite', 'csv' or 'clickhouse'")
	}

	if _, err := c.Session.Build(); err != nil {
		return err
	}
	if err := c.Risk.Validate(); err != nil {
		return err
	}
	if _, err := filter.BuildAll(c.Filters); err != nil {
		return err
	}
	if err := c.Sweep.validate(); err != nil {
		return err
	}

	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "csv":
		if c.Journal.ResultsFile == "" {
			return fmt.Errorf("journal results_file required for CSV type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	return nil
}

// Build resolves the session section into a session.Config.
func (s SessionConfig) Build() (session.Config, error) {
	if s.Timezone == "" {
		return session.Config{}, fmt.Errorf("session.timezone is required")
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return session.Config{}, fmt.Errorf("session.timezone: %w", err)
	}
	anchor, err := session.ParseClock(s.Anchor)
	if err != nil {
		return session.Config{}, fmt.Errorf("session.anchor: %w", err)
	}
	scanEnd, err := session.ParseClock(s.ScanEnd)
	if err != nil {
		return session.Config{}, fmt.Errorf("session.scan_end: %w", err)
	}

	cfg := session.Config{
		Location:        loc,
		Anchor:          anchor,
		Duration:        time.Duration(s.DurationMinutes) * time.Minute,
		AnchorDayOffset: s.AnchorDayOffset,
		ScanEnd:         scanEnd,
	}
	if s.ExitEnd != "" {
		exitEnd, err := session.ParseClock(s.ExitEnd)
		if err != nil {
			return session.Config{}, fmt.Errorf("session.exit_end: %w", err)
		}
		cfg.ExitEnd = &exitEnd
	}

	if err := cfg.Validate(); err != nil {
		return session.Config{}, err
	}
	return cfg, nil
}

// Days returns the weekday trading days in [from, to].
func (s SweepConfig) Days() ([]session.Day, error) {
	from, err := session.ParseDay(s.From)
	if err != nil {
		return nil, fmt.Errorf("sweep.from: %w", err)
	}
	to, err := session.ParseDay(s.To)
	if err != nil {
		return nil, fmt.Errorf("sweep.to: %w", err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("sweep.to must not be before sweep.from")
	}
	return session.Days(from, to), nil
}

func (s SweepConfig) validate() error {
	if s.From != "" || s.To != "" {
		if _, err := s.Days(); err != nil {
			return err
		}
	}
	if s.Workers < 0 {
		return fmt.Errorf("sweep.workers must not be negative")
	}
	for _, r := range s.RewardMultiples {
		if r <= 0 {
			return fmt.Errorf("sweep.reward_multiples must be positive, got %v", r)
		}
	}
	for _, n := range s.ConfirmationBars {
		if n < 1 {
			return fmt.Errorf("sweep.confirmation_bars must be at least 1, got %d", n)
		}
	}
	for _, d := range s.Durations {
		if d <= 0 {
			return fmt.Errorf("sweep.durations must be positive, got %d", d)
		}
	}
	for _, m := range s.StopModes {
		if m != risk.StopFull && m != risk.StopHalf {
			return fmt.Errorf("sweep.stop_modes must be full or half")
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults. The risk anchor
// is deliberately left unset: it must be chosen explicitly.
func Default() *Config {
	return &Config{
		Instrument: "ES",
		Timeframe:  "M5",
		Data: DataConfig{
			Source: "sqlite",
			Path:   "./orb.sqlite",
		},
		Session: SessionConfig{
			Timezone:        "America/New_York",
			Anchor:          "09:30",
			DurationMinutes: 15,
			ScanEnd:         "16:00",
		},
		Risk: risk.Config{
			StopMode:         risk.StopFull,
			RewardMultiple:   2,
			ConfirmationBars: 1,
			TickSize:         0.25,
		},
		Sweep: SweepConfig{
			Workers: 4,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./orb.sqlite",
		},
	}
}

package config

import (
	"time"
)

// Manager-level defaults.
const (
	DefaultCategory             = "Uncategorized"
	DefaultMinTimestampPeriodMs = 60
	DefaultMinUpdatesPeriodMs   = 1000
)

// SourcesConfig switches the built-in log sources.
type SourcesConfig struct {
	// Slog installs a slog.Handler feeding the default category.
	Slog bool `yaml:"slog"`
	// StdLog redirects the standard library log package.
	StdLog bool `yaml:"stdlog"`
	// Panics enables recovery of panics and unobserved goroutine errors.
	Panics bool `yaml:"panics"`
}

// Settings is the whole configuration asset: manager settings plus one
// Configuration per destination keyed by Name(destinationType).
type Settings struct {
	DefaultCategory      string                   `yaml:"defaultCategory"`
	MinTimestampPeriodMs uint32                   `yaml:"minTimestampPeriodMs"`
	MinUpdatesPeriodMs   uint32                   `yaml:"minUpdatesPeriodMs"`
	Sources              SourcesConfig            `yaml:"sources"`
	Destinations         map[string]Configuration `yaml:"-"`
}

// DefaultSettings returns settings with manager defaults and no
// destination configurations.
func DefaultSettings() Settings {
	return Settings{
		DefaultCategory:      DefaultCategory,
		MinTimestampPeriodMs: DefaultMinTimestampPeriodMs,
		MinUpdatesPeriodMs:   DefaultMinUpdatesPeriodMs,
		Sources:              SourcesConfig{Panics: true},
		Destinations:         map[string]Configuration{},
	}
}

// MinTimestampPeriod returns the timestamp re-render period.
func (s *Settings) MinTimestampPeriod() time.Duration {
	return time.Duration(s.MinTimestampPeriodMs) * time.Millisecond
}

// MinUpdatesPeriod returns the manager-wide scheduler floor.
func (s *Settings) MinUpdatesPeriod() time.Duration {
	return time.Duration(s.MinUpdatesPeriodMs) * time.Millisecond
}

// normalize fills zero manager fields with defaults.
func (s *Settings) normalize() {
	if s.DefaultCategory == "" {
		s.DefaultCategory = DefaultCategory
	}
	if s.MinTimestampPeriodMs == 0 {
		s.MinTimestampPeriodMs = DefaultMinTimestampPeriodMs
	}
	if s.MinUpdatesPeriodMs == 0 {
		s.MinUpdatesPeriodMs = DefaultMinUpdatesPeriodMs
	}
	if s.Destinations == nil {
		s.Destinations = map[string]Configuration{}
	}
}

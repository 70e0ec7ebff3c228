package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/philipp01105/sinklog/internal/diag"
)

// Source loads the configuration asset.
type Source interface {
	Load(ctx context.Context) (Settings, error)
}

// StaticSource serves settings held in memory.
type StaticSource struct {
	Settings Settings
}

// Static creates a source that returns DefaultSettings overlaid with the
// given destination configurations.
func Static(destinations map[string]Configuration) *StaticSource {
	s := DefaultSettings()
	for name, cfg := range destinations {
		s.Destinations[name] = cfg.Clone()
	}
	return &StaticSource{Settings: s}
}

// Load returns a deep copy of the held settings.
func (s *StaticSource) Load(ctx context.Context) (Settings, error) {
	if err := ctx.Err(); err != nil {
		return Settings{}, err
	}
	out := s.Settings
	out.Destinations = make(map[string]Configuration, len(s.Settings.Destinations))
	for name, cfg := range s.Settings.Destinations {
		out.Destinations[name] = cfg.Clone()
	}
	out.normalize()
	return out, nil
}

// FileSource loads settings from a YAML file.
type FileSource struct {
	Path string
}

// File creates a YAML file source.
func File(path string) *FileSource {
	return &FileSource{Path: path}
}

type fileDocument struct {
	Settings     `yaml:",inline"`
	Destinations map[string]yaml.Node `yaml:"destinations"`
}

// Load reads and decodes the file. A missing file is an error: the
// manager cannot start without its configuration asset.
func (f *FileSource) Load(ctx context.Context) (Settings, error) {
	if err := ctx.Err(); err != nil {
		return Settings{}, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("configuration file %s not found: %w", f.Path, err)
		}
		return Settings{}, fmt.Errorf("error reading configuration from %s: %w", f.Path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("error loading configuration from %s: %w", f.Path, err)
	}
	diag.Debug("ConfigLoader", "Loaded %d destination configurations from %s", len(s.Destinations), f.Path)
	return s, nil
}

// Parse decodes a YAML document. Every destination block is decoded on
// top of Default(), so keys absent from an older document keep their
// current defaults.
func Parse(data []byte) (Settings, error) {
	doc := fileDocument{Settings: DefaultSettings()}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Settings{}, err
	}

	s := doc.Settings
	s.Destinations = make(map[string]Configuration, len(doc.Destinations))
	for name, node := range doc.Destinations {
		cfg := Default()
		if err := node.Decode(&cfg); err != nil {
			return Settings{}, fmt.Errorf("destination %s: %w", name, err)
		}
		if err := cfg.Validate(); err != nil {
			return Settings{}, fmt.Errorf("destination %s: %w", name, err)
		}
		cfg.StackTraces = MergeStackTraces(nil, cfg.StackTraces)
		s.Destinations[name] = cfg
	}
	s.normalize()
	return s, nil
}

// Marshal encodes settings in the format Parse reads.
func Marshal(s Settings) ([]byte, error) {
	doc := struct {
		Settings     `yaml:",inline"`
		Destinations map[string]Configuration `yaml:"destinations"`
	}{Settings: s, Destinations: s.Destinations}
	return yaml.Marshal(doc)
}

// Package config provides YAML-based editor configuration loading and the
// thresholds used to rate map difficulty.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

// EditorConfig contains all configuration for the map editor.
type EditorConfig struct {
	GridSize         float64         `yaml:"grid_size"`
	WorldSize        float64         `yaml:"world_size"` // full edge length, centered on the origin
	MinPathLength    int             `yaml:"min_path_length"`
	MaxUndoSteps     int             `yaml:"max_undo_steps"`
	SnapToGrid       bool            `yaml:"snap_to_grid"`
	AutosaveInterval time.Duration   `yaml:"autosave_interval"` // 0 disables autosave
	DefaultSettings  mapdoc.Settings `yaml:"default_settings"`
	ColorPresets     ColorPresets    `yaml:"color_presets"`
	Generator        GeneratorConfig `yaml:"generator"`
	Rating           RatingConfig    `yaml:"rating"`
	Community        CommunityConfig `yaml:"community"`
}

// CommunityConfig points at a community map server. An empty URL disables
// uploads and downloads.
type CommunityConfig struct {
	URL     string        `yaml:"url"`
	Creator string        `yaml:"creator"`
	Timeout time.Duration `yaml:"timeout"`
}

// ColorPresets are the quick-pick palettes offered by the settings panel.
type ColorPresets struct {
	Backgrounds []core.HexColor `yaml:"backgrounds"`
	Tracks      []core.HexColor `yaml:"tracks"`
	Particles   []core.HexColor `yaml:"particles"`
}

// GeneratorConfig defines the random map generator.
type GeneratorConfig struct {
	StartX    float64 `yaml:"start_x"`
	StartZ    float64 `yaml:"start_z"`
	Bound     float64 `yaml:"bound"` // cells stay within [-bound, bound]
	MinLength int     `yaml:"min_length"`
	MaxLength int     `yaml:"max_length"` // inclusive
}

// HalfExtent returns the largest allowed absolute coordinate.
func (c EditorConfig) HalfExtent() float64 {
	return c.WorldSize / 2
}

// Validate checks that the configuration is usable.
func (c EditorConfig) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("config: grid_size must be positive, got %g", c.GridSize)
	}
	if c.WorldSize <= 0 {
		return fmt.Errorf("config: world_size must be positive, got %g", c.WorldSize)
	}
	if c.MinPathLength < 0 {
		return fmt.Errorf("config: min_path_length must not be negative, got %d", c.MinPathLength)
	}
	if c.MaxUndoSteps <= 0 {
		return fmt.Errorf("config: max_undo_steps must be positive, got %d", c.MaxUndoSteps)
	}
	if c.AutosaveInterval < 0 {
		return fmt.Errorf("config: autosave_interval must not be negative, got %s", c.AutosaveInterval)
	}
	for _, color := range []core.HexColor{
		c.DefaultSettings.BgColor,
		c.DefaultSettings.FloorColor,
		c.DefaultSettings.TrackColor,
		c.DefaultSettings.ParticleColor,
		c.DefaultSettings.FogColor,
	} {
		if !color.Valid() {
			return fmt.Errorf("config: default_settings color %q is not #rrggbb", color)
		}
	}
	g := c.Generator
	if g.MinLength < 1 || g.MaxLength < g.MinLength {
		return fmt.Errorf("config: generator length range [%d, %d] is invalid", g.MinLength, g.MaxLength)
	}
	if g.Bound <= 0 || g.Bound > c.HalfExtent() {
		return fmt.Errorf("config: generator bound %g must be in (0, %g]", g.Bound, c.HalfExtent())
	}
	if c.Community.URL != "" {
		u, err := url.Parse(c.Community.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: community url %q must be an http(s) URL", c.Community.URL)
		}
	}
	if c.Community.Timeout < 0 {
		return fmt.Errorf("config: community timeout must not be negative, got %s", c.Community.Timeout)
	}
	return nil
}

package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

//go:embed defaults/editor.yaml
var defaultEditorYAML []byte

// DefaultEditorConfig returns the default editor configuration.
func DefaultEditorConfig() EditorConfig {
	return EditorConfig{
		GridSize:         4,
		WorldSize:        200,
		MinPathLength:    10,
		MaxUndoSteps:     20,
		SnapToGrid:       true,
		AutosaveInterval: 30 * time.Second,
		DefaultSettings:  mapdoc.DefaultSettings(),
		ColorPresets: ColorPresets{
			Backgrounds: []core.HexColor{"#0a0a1a", "#1a0f0f", "#1a2a1a", "#2c3e50", "#1e272e"},
			Tracks:      []core.HexColor{"#808080", "#8b4513", "#4169e1", "#32cd32", "#ff6347"},
			Particles:   []core.HexColor{"#ffffff", "#ffff00", "#00ffff", "#ff00ff", "#00ff00"},
		},
		Generator: GeneratorConfig{
			StartX:    -80,
			StartZ:    0,
			Bound:     90,
			MinLength: 15,
			MaxLength: 34,
		},
		Rating: RatingConfig{
			ShortPath:      15,
			MediumPath:     25,
			ManyTurns:      8,
			SomeTurns:      5,
			ManyDecoration: 20,
		},
		Community: CommunityConfig{
			Creator: "Anonymous",
			Timeout: 10 * time.Second,
		},
	}
}

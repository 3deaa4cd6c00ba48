package mapdoc

import "github.com/vovakirdan/trackforge/internal/core"

// DefaultName is the name given to new maps.
const DefaultName = "Custom Map"

// Settings holds the visual tuning of a map. Settings are not versioned:
// undo and redo never touch them.
type Settings struct {
	BgColor         core.HexColor `json:"bgColor" yaml:"bg_color"`
	FloorColor      core.HexColor `json:"floorColor" yaml:"floor_color"`
	TrackColor      core.HexColor `json:"trackColor" yaml:"track_color"`
	ParticleColor   core.HexColor `json:"particleColor" yaml:"particle_color"`
	ParticleDensity float64       `json:"particleDensity" yaml:"particle_density"`
	ParticleSpeed   float64       `json:"particleSpeed" yaml:"particle_speed"`
	FogColor        core.HexColor `json:"fogColor" yaml:"fog_color"`
	FogDensity      float64       `json:"fogDensity" yaml:"fog_density"`
}

// DefaultSettings returns the settings new maps start with.
func DefaultSettings() Settings {
	return Settings{
		BgColor:         "#0a0a1a",
		FloorColor:      "#1e272e",
		TrackColor:      "#808080",
		ParticleColor:   "#ffffff",
		ParticleDensity: 0.5,
		ParticleSpeed:   0.3,
		FogColor:        "#000000",
		FogDensity:      0.3,
	}
}

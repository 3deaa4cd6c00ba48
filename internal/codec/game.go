package codec

import (
	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

// TrackCustom is the track identifier the game uses for user maps.
const TrackCustom = "custom"

// GameMap is the structure the game renderer loads.
type GameMap struct {
	Name           string         `json:"name"`
	Track          string         `json:"track"`
	FloorColor     uint32         `json:"floorColor"`
	Path           []core.Point   `json:"path"`
	CustomSettings CustomSettings `json:"customSettings"`
}

// CustomSettings carries the visual settings in the game's grouping.
type CustomSettings struct {
	BgColor     core.HexColor       `json:"bgColor"`
	TrackColor  core.HexColor       `json:"trackColor"`
	Decorations []mapdoc.Decoration `json:"decorations"`
	Particles   Particles           `json:"particles"`
	Fog         Fog                 `json:"fog"`
}

// Particles groups the particle settings.
type Particles struct {
	Color   core.HexColor `json:"color"`
	Density float64       `json:"density"`
	Speed   float64       `json:"speed"`
}

// Fog groups the fog settings.
type Fog struct {
	Color   core.HexColor `json:"color"`
	Density float64       `json:"density"`
}

// ExportGame converts a document to the game format. It does not validate;
// callers that need a playable map validate first. An unparsable floor
// color exports as 0.
func ExportGame(doc *mapdoc.Document) GameMap {
	s := doc.Settings()
	floor, _ := s.FloorColor.ParseHex()

	path := doc.Path().Cells()
	if path == nil {
		path = []core.Point{}
	}

	return GameMap{
		Name:       doc.Name(),
		Track:      TrackCustom,
		FloorColor: floor,
		Path:       path,
		CustomSettings: CustomSettings{
			BgColor:     s.BgColor,
			TrackColor:  s.TrackColor,
			Decorations: doc.Decorations(),
			Particles: Particles{
				Color:   s.ParticleColor,
				Density: s.ParticleDensity,
				Speed:   s.ParticleSpeed,
			},
			Fog: Fog{
				Color:   s.FogColor,
				Density: s.FogDensity,
			},
		},
	}
}

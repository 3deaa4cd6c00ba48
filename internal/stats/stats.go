// Package stats derives summary numbers from maps: turn counts, difficulty
// ratings and per-creator totals across saved slots.
package stats

import (
	"sort"

	"github.com/vovakirdan/trackforge/internal/config"
	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

// CountTurns counts the places where the step direction changes.
func CountTurns(path []core.Point) int {
	turns := 0
	for i := 2; i < len(path); i++ {
		dx1, dz1 := core.Step(path[i-2], path[i-1])
		dx2, dz2 := core.Step(path[i-1], path[i])
		if dx1 != dx2 || dz1 != dz2 {
			turns++
		}
	}
	return turns
}

// RateDifficulty rates a document against the given thresholds.
func RateDifficulty(doc *mapdoc.Document, rules config.RatingConfig) config.Rating {
	cells := doc.Path().Cells()
	return rules.Rate(len(cells), CountTurns(cells), len(doc.Decorations()))
}

// Report summarizes one map.
type Report struct {
	Name        string
	PathLength  int
	Turns       int
	Decorations int
	Rating      config.Rating
	Score       int
}

// Summarize builds a Report for doc.
func Summarize(doc *mapdoc.Document, rules config.RatingConfig) Report {
	cells := doc.Path().Cells()
	turns := CountTurns(cells)
	decos := len(doc.Decorations())
	score := rules.Score(len(cells), turns, decos)
	return Report{
		Name:        doc.Name(),
		PathLength:  len(cells),
		Turns:       turns,
		Decorations: decos,
		Rating:      config.RatingForScore(score),
		Score:       score,
	}
}

// Creator totals a creator's saved maps.
type Creator struct {
	MapsCreated        int
	TilesPlaced        int
	DecorationsPlaced  int
	FavoriteDecoration mapdoc.DecorationType // empty when no decorations exist
	DecorationCounts   map[mapdoc.DecorationType]int
}

// CreatorStats totals the given documents. Ties for favorite decoration go
// to the type listed first in mapdoc.DecorationTypes.
func CreatorStats(docs []*mapdoc.Document) Creator {
	c := Creator{DecorationCounts: make(map[mapdoc.DecorationType]int)}
	for _, d := range docs {
		if d == nil {
			continue
		}
		c.MapsCreated++
		c.TilesPlaced += d.PathLen()
		for _, deco := range d.Decorations() {
			c.DecorationsPlaced++
			c.DecorationCounts[deco.Type]++
		}
	}

	order := make(map[mapdoc.DecorationType]int)
	for i, t := range mapdoc.DecorationTypes() {
		order[t] = i
	}
	types := make([]mapdoc.DecorationType, 0, len(c.DecorationCounts))
	for t := range c.DecorationCounts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		ci, cj := c.DecorationCounts[types[i]], c.DecorationCounts[types[j]]
		if ci != cj {
			return ci > cj
		}
		return order[types[i]] < order[types[j]]
	})
	if len(types) > 0 {
		c.FavoriteDecoration = types[0]
	}
	return c
}

package stats

import (
	"testing"

	"github.com/vovakirdan/trackforge/internal/config"
	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

func TestCountTurns(t *testing.T) {
	tests := []struct {
		name string
		path []core.Point
		want int
	}{
		{"empty", nil, 0},
		{"two cells", []core.Point{core.P(0, 0), core.P(4, 0)}, 0},
		{"straight", []core.Point{core.P(0, 0), core.P(4, 0), core.P(8, 0), core.P(12, 0)}, 0},
		{"one corner", []core.Point{core.P(0, 0), core.P(4, 0), core.P(4, 4)}, 1},
		{"zigzag", []core.Point{core.P(0, 0), core.P(4, 0), core.P(4, 4), core.P(8, 4), core.P(8, 8)}, 3},
		{"u-turn", []core.Point{core.P(0, 0), core.P(0, 4), core.P(4, 4), core.P(4, 0)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountTurns(tt.path); got != tt.want {
				t.Errorf("CountTurns() = %d, expected %d", got, tt.want)
			}
		})
	}
}

func straightDoc(n, decos int) *mapdoc.Document {
	path := make([]core.Point, n)
	for i := range path {
		path[i] = core.P(float64(i*4)-60, 0)
	}
	var ds []mapdoc.Decoration
	for i := 0; i < decos; i++ {
		ds = append(ds, mapdoc.NewDecoration(mapdoc.DecorationTree, core.P(float64(i), 40), 0))
	}
	return mapdoc.FromParts("s", path, ds, mapdoc.DefaultSettings())
}

func TestRateDifficulty(t *testing.T) {
	rules := config.DefaultEditorConfig().Rating

	if got := RateDifficulty(straightDoc(30, 0), rules); got != config.RatingMedium {
		t.Errorf("long straight = %s, expected Medium", got)
	}
	if got := RateDifficulty(straightDoc(12, 0), rules); got != config.RatingExtreme {
		t.Errorf("short straight = %s, expected Extreme", got)
	}
	if got := RateDifficulty(straightDoc(30, 25), rules); got != config.RatingHard {
		t.Errorf("long cluttered = %s, expected Hard", got)
	}
}

func TestSummarize(t *testing.T) {
	r := Summarize(straightDoc(20, 3), config.DefaultEditorConfig().Rating)
	if r.PathLength != 20 || r.Turns != 0 || r.Decorations != 3 || r.Score != 2 || r.Rating != config.RatingHard {
		t.Errorf("Summarize() = %+v", r)
	}
}

func TestCreatorStats(t *testing.T) {
	a := straightDoc(10, 0)
	a.PlaceDecoration(mapdoc.NewDecoration(mapdoc.DecorationRock, core.P(0, 20), 0), 4, true)
	b := straightDoc(5, 1)

	c := CreatorStats([]*mapdoc.Document{a, nil, b})
	if c.MapsCreated != 2 || c.TilesPlaced != 15 || c.DecorationsPlaced != 3 {
		t.Errorf("CreatorStats() = %+v", c)
	}
	if c.FavoriteDecoration != mapdoc.DecorationRock {
		t.Errorf("FavoriteDecoration = %q, expected rock", c.FavoriteDecoration)
	}
}

func TestCreatorStatsTieAndEmpty(t *testing.T) {
	if c := CreatorStats(nil); c.MapsCreated != 0 || c.FavoriteDecoration != "" {
		t.Errorf("empty stats = %+v", c)
	}

	d := mapdoc.FromParts("t", nil, []mapdoc.Decoration{
		mapdoc.NewDecoration(mapdoc.DecorationCrystal, core.P(0, 0), 0),
		mapdoc.NewDecoration(mapdoc.DecorationTree, core.P(8, 8), 0),
	}, mapdoc.DefaultSettings())
	if c := CreatorStats([]*mapdoc.Document{d}); c.FavoriteDecoration != mapdoc.DecorationTree {
		t.Errorf("tie should go to tree, got %q", c.FavoriteDecoration)
	}
}

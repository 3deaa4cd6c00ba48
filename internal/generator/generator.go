// Package generator builds random starter maps.
package generator

import (
	"errors"
	"math"
	"math/rand"

	"github.com/vovakirdan/trackforge/internal/config"
	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

// ErrNoPath is returned when no path of the requested length fits the bounds.
var ErrNoPath = errors.New("generator: no path fits the configured bounds")

// maxSteps caps the depth-first search so bounds that admit no path of the
// target length fail instead of searching forever.
const maxSteps = 1 << 18

// Generator produces random self-avoiding paths. Every path it returns was
// built through the normal append rules, so it is connected and never
// crosses itself.
type Generator struct {
	cfg      config.GeneratorConfig
	gridSize float64
	rng      *rand.Rand
	steps    int
}

// New creates a generator with a deterministic seed.
func New(cfg config.GeneratorConfig, gridSize float64, seed int64) *Generator {
	return &Generator{
		cfg:      cfg,
		gridSize: gridSize,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Path returns a random path whose length lies in [MinLength, MaxLength].
func (g *Generator) Path() (mapdoc.Path, error) {
	span := g.cfg.MaxLength - g.cfg.MinLength + 1
	if span < 1 || g.cfg.MinLength < 1 {
		return mapdoc.Path{}, ErrNoPath
	}
	target := g.cfg.MinLength + g.rng.Intn(span)

	start := core.Snap(core.P(g.cfg.StartX, g.cfg.StartZ), g.gridSize)
	if !core.WithinHalfExtent(start, g.cfg.Bound) {
		return mapdoc.Path{}, ErrNoPath
	}
	if g.capacity() < target {
		return mapdoc.Path{}, ErrNoPath
	}
	g.steps = 0

	var p mapdoc.Path
	p.Append(start, g.gridSize)
	if g.extend(&p, target) {
		return p, nil
	}
	return mapdoc.Path{}, ErrNoPath
}

// capacity returns the number of grid cells inside the bound.
func (g *Generator) capacity() int {
	if g.gridSize <= 0 {
		return 0
	}
	side := 2*int(math.Floor(g.cfg.Bound/g.gridSize)) + 1
	return side * side
}

// Document returns a new document holding a random path.
func (g *Generator) Document(name string, settings mapdoc.Settings) (*mapdoc.Document, error) {
	p, err := g.Path()
	if err != nil {
		return nil, err
	}
	return mapdoc.FromParts(name, p.Cells(), nil, settings), nil
}

// extend grows p to target cells by depth-first search over shuffled
// directions, backtracking out of dead ends. It gives up after maxSteps
// calls.
func (g *Generator) extend(p *mapdoc.Path, target int) bool {
	if p.Len() >= target {
		return true
	}
	g.steps++
	if g.steps > maxSteps {
		return false
	}
	tail, _ := p.Tail()
	for _, dir := range g.directions() {
		next := core.P(tail.X+dir.X*g.gridSize, tail.Z+dir.Z*g.gridSize)
		if !core.WithinHalfExtent(next, g.cfg.Bound) {
			continue
		}
		if !p.Append(next, g.gridSize).OK() {
			continue
		}
		if g.extend(p, target) {
			return true
		}
		p.RemoveTail()
	}
	return false
}

var unitSteps = [4]core.Point{
	{X: 1}, {X: -1}, {Z: 1}, {Z: -1},
}

func (g *Generator) directions() [4]core.Point {
	dirs := unitSteps
	g.rng.Shuffle(len(dirs), func(i, j int) {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	})
	return dirs
}

// Rotation returns a random rotation in [0, 2π).
func Rotation(rng *rand.Rand) float64 {
	return rng.Float64() * 2 * math.Pi
}

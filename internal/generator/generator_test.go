package generator

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/trackforge/internal/config"
	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
	"github.com/vovakirdan/trackforge/internal/validate"
)

func TestGeneratedPathsAreValid(t *testing.T) {
	cfg := config.DefaultEditorConfig()

	for seed := int64(0); seed < 50; seed++ {
		g := New(cfg.Generator, cfg.GridSize, seed)
		doc, err := g.Document("random", mapdoc.DefaultSettings())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		n := doc.PathLen()
		if n < cfg.Generator.MinLength || n > cfg.Generator.MaxLength {
			t.Errorf("seed %d: length %d outside [%d, %d]", seed, n, cfg.Generator.MinLength, cfg.Generator.MaxLength)
		}
		if first, _ := doc.Spawn(); first != core.P(-80, 0) {
			t.Errorf("seed %d: starts at %v", seed, first)
		}

		res := validate.Rules{GridSize: cfg.GridSize, WorldSize: cfg.WorldSize, MinPathLength: cfg.MinPathLength}.Validate(doc)
		if !res.Valid {
			t.Errorf("seed %d: generated map invalid: %v", seed, res.Errors)
		}
		for i, c := range doc.Path().Cells() {
			if !core.WithinHalfExtent(c, cfg.Generator.Bound) {
				t.Errorf("seed %d: cell %d %v outside generator bound", seed, i, c)
			}
		}
	}
}

func TestGeneratorIsDeterministic(t *testing.T) {
	cfg := config.DefaultEditorConfig()
	a, _ := New(cfg.Generator, 4, 42).Path()
	b, _ := New(cfg.Generator, 4, 42).Path()
	if !a.Equal(b) {
		t.Error("same seed should give the same path")
	}
}

func TestGeneratorBacktracksInTightBounds(t *testing.T) {
	// A 3x3 box around the origin holds at most 9 cells.
	cfg := config.GeneratorConfig{StartX: 0, StartZ: 0, Bound: 4, MinLength: 9, MaxLength: 9}
	for seed := int64(0); seed < 10; seed++ {
		p, err := New(cfg, 4, seed).Path()
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if p.Len() != 9 {
			t.Errorf("seed %d: length %d, expected 9", seed, p.Len())
		}
	}
}

func TestGeneratorImpossible(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.GeneratorConfig
	}{
		{"too long for box", config.GeneratorConfig{Bound: 4, MinLength: 10, MaxLength: 10}},
		{"start outside", config.GeneratorConfig{StartX: 50, Bound: 10, MinLength: 2, MaxLength: 3}},
		{"empty range", config.GeneratorConfig{Bound: 10, MinLength: 5, MaxLength: 4}},
		{"longer than 7x7 box", config.GeneratorConfig{Bound: 12, MinLength: 50, MaxLength: 50}},
		// 25 even and 24 odd cells: a 49-cell path must start on an even cell.
		{"wrong parity start", config.GeneratorConfig{StartX: 4, Bound: 12, MinLength: 49, MaxLength: 49}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan error, 1)
			go func() {
				_, err := New(tt.cfg, 4, 1).Path()
				done <- err
			}()
			select {
			case err := <-done:
				if !errors.Is(err, ErrNoPath) {
					t.Errorf("Path() error = %v, expected ErrNoPath", err)
				}
			case <-time.After(30 * time.Second):
				t.Fatal("Path() did not give up")
			}
		})
	}
}

func TestRotationRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		r := Rotation(rng)
		if r < 0 || r >= 2*math.Pi {
			t.Fatalf("Rotation() = %g outside [0, 2π)", r)
		}
	}
}

// Package validate checks a map document for the structural properties a
// playable map needs. Every check runs; nothing short-circuits.
package validate

import (
	"fmt"

	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

// Issue codes.
const (
	CodeTooShort    = "PATH_TOO_SHORT"
	CodeBroken      = "PATH_BROKEN"
	CodeOutOfBounds = "OUT_OF_BOUNDS"
)

// Issue describes one validation failure.
type Issue struct {
	Code    string
	Index   int // path index the issue refers to, -1 for whole-path issues
	Message string
}

func (i Issue) Error() string {
	return fmt.Sprintf("[%s] %s", i.Code, i.Message)
}

// Result is the outcome of a validation run.
type Result struct {
	Valid  bool
	Errors []string
	Issues []Issue
}

// Rules are the thresholds a document is checked against.
type Rules struct {
	GridSize      float64
	WorldSize     float64
	MinPathLength int
}

// DefaultRules mirrors the editor's default configuration.
func DefaultRules() Rules {
	return Rules{GridSize: 4, WorldSize: 200, MinPathLength: 10}
}

// Validate runs all checks with DefaultRules.
func Validate(doc *mapdoc.Document) Result {
	return DefaultRules().Validate(doc)
}

// Validate runs every check and collects all failures in order:
// length first, then adjacency breaks, then out-of-bounds cells.
func (r Rules) Validate(doc *mapdoc.Document) Result {
	var res Result
	cells := doc.Path().Cells()

	if len(cells) < r.MinPathLength {
		res.add(Issue{
			Code:    CodeTooShort,
			Index:   -1,
			Message: fmt.Sprintf("Path must be at least %d tiles long (currently %d)", r.MinPathLength, len(cells)),
		})
	}

	for i := 1; i < len(cells); i++ {
		if !core.IsCardinalAdjacent(cells[i-1], cells[i], r.GridSize) {
			res.add(Issue{
				Code:    CodeBroken,
				Index:   i,
				Message: fmt.Sprintf("Path broken at tile %d - tiles must be adjacent", i),
			})
		}
	}

	half := r.WorldSize / 2
	for i, c := range cells {
		if !core.WithinHalfExtent(c, half) {
			res.add(Issue{
				Code:    CodeOutOfBounds,
				Index:   i,
				Message: fmt.Sprintf("Tile %d is out of bounds", i),
			})
		}
	}

	res.Valid = len(res.Issues) == 0
	return res
}

func (r *Result) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
	r.Errors = append(r.Errors, issue.Message)
}

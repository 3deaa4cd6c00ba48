package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

// Map view colors.
const (
	colorGrid     = "240"
	colorBorder   = "245"
	colorSpawn    = "#2ecc71"
	colorBase     = "#e74c3c"
	colorCursorOK = "#f1c40f"
	colorCursorNo = "#c0392b"
	colorMirror   = "238"
)

// decorationColors gives each decoration type its own tint.
var decorationColors = map[mapdoc.DecorationType]string{
	mapdoc.DecorationTree:    "#27ae60",
	mapdoc.DecorationRock:    "#95a5a6",
	mapdoc.DecorationCrystal: "#9b59b6",
	mapdoc.DecorationGeneric: "#d35400",
}

// styleFor returns the lipgloss style for a cell color. Empty means the
// terminal default.
func styleFor(cache map[string]lipgloss.Style, color string) lipgloss.Style {
	if st, ok := cache[color]; ok {
		return st
	}
	st := lipgloss.NewStyle()
	if color != "" {
		st = st.Foreground(lipgloss.Color(color))
	}
	cache[color] = st
	return st
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())
	styles := make(map[string]lipgloss.Style)

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(styleFor(styles, startColor).Render(run.String()))
		}
	}
	return sb.String()
}

// mapView projects world cells onto a screen. Each grid cell is two
// columns wide and one row tall; north (negative Z) is up.
type mapView struct {
	screen   *core.Screen
	gridSize float64
	center   core.Point
}

// cellsAcross returns how many grid cells fit horizontally and vertically.
func (v mapView) cellsAcross() (int, int) {
	return v.screen.Width() / 2, v.screen.Height()
}

// toScreen returns the screen position of a world cell and whether it is
// visible.
func (v mapView) toScreen(p core.Point) (int, int, bool) {
	cw, ch := v.cellsAcross()
	dx := int(math.Round((p.X - v.center.X) / v.gridSize))
	dz := int(math.Round((p.Z - v.center.Z) / v.gridSize))
	cx := cw/2 + dx
	cy := ch/2 + dz
	if cx < 0 || cy < 0 || cx >= cw || cy >= ch {
		return 0, 0, false
	}
	return cx * 2, cy, true
}

// toWorld returns the world cell under a screen position.
func (v mapView) toWorld(x, y int) core.Point {
	cw, ch := v.cellsAcross()
	dx := x/2 - cw/2
	dz := y - ch/2
	return core.P(v.center.X+float64(dx)*v.gridSize, v.center.Z+float64(dz)*v.gridSize)
}

func (v mapView) put(p core.Point, glyph string, color string) {
	if x, y, ok := v.toScreen(p); ok {
		v.screen.DrawText(x, y, glyph, color)
	}
}

// mapFrame is everything drawn in one frame of the map view.
type mapFrame struct {
	snapshot   mapdoc.Snapshot
	trackColor string
	halfExtent float64
	cursor     core.Point
	cursorOK   bool
	symmetry   bool
}

// draw renders the world grid, path, decorations and cursor.
func (v mapView) draw(f mapFrame) {
	v.screen.Clear()
	cw, ch := v.cellsAcross()
	for cy := range ch {
		for cx := range cw {
			p := v.toWorld(cx*2, cy)
			if !core.WithinHalfExtent(p, f.halfExtent) {
				continue
			}
			v.screen.Set(cx*2, cy, '·', colorGrid)
		}
	}

	if f.symmetry {
		for cy := range ch {
			p := v.toWorld(0, cy)
			v.put(core.P(0, p.Z), "│", colorMirror)
		}
	}

	for _, d := range f.snapshot.Decorations {
		color := decorationColors[d.Type]
		v.put(d.Cell(v.gridSize), string(d.Type.Glyph()), color)
	}

	for _, p := range f.snapshot.Path {
		v.put(p, "██", f.trackColor)
	}
	if n := len(f.snapshot.Path); n > 0 {
		v.put(f.snapshot.Path[0], "S ", colorSpawn)
		v.put(f.snapshot.Path[n-1], "B ", colorBase)
	}

	cursorColor := colorCursorNo
	if f.cursorOK {
		cursorColor = colorCursorOK
	}
	v.put(f.cursor, "[]", cursorColor)
}

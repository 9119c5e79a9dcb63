package cloud

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// boldScale is the font size, in cell heights, from which terms are bold.
const boldScale = 2.5

// TerminalRenderer draws clouds into a grid of character cells. Layout runs
// in pixel space with every cell CellWidth x CellHeight pixels, so font
// sizes keep their meaning; a term reserves room in proportion to its size
// but is printed one glyph per cell.
type TerminalRenderer struct {
	CellWidth  int
	CellHeight int
}

func (r TerminalRenderer) cell() (int, int) {
	w, h := r.CellWidth, r.CellHeight
	if w <= 0 {
		w = 8
	}
	if h <= 0 {
		h = 16
	}
	return w, h
}

// PixelSize is the drawing surface behind cols x rows cells.
func (r TerminalRenderer) PixelSize(cols, rows int) (int, int) {
	cw, ch := r.cell()
	return cols * cw, rows * ch
}

// Measure never returns less than the cells the glyphs occupy.
func (r TerminalRenderer) Measure(term string, size float64, rotated bool) (int, int) {
	cw, ch := r.cell()
	scale := math.Max(size, float64(ch)) / float64(ch)
	parts := clusters(term)
	if rotated {
		widest := 1
		for _, c := range parts {
			if c.width > widest {
				widest = c.width
			}
		}
		return int(math.Ceil(float64(widest*cw) * scale)), int(math.Ceil(float64(len(parts)*ch) * scale))
	}
	return int(math.Ceil(float64(runewidth.StringWidth(term)*cw) * scale)), int(math.Ceil(float64(ch) * scale))
}

type cluster struct {
	text  string
	width int
}

// clusters splits term into printable cells, attaching zero-width runes
// such as combining marks to the cell before them.
func clusters(term string) []cluster {
	var out []cluster
	for _, ru := range term {
		w := runewidth.RuneWidth(ru)
		if w == 0 && len(out) > 0 {
			out[len(out)-1].text += string(ru)
			continue
		}
		if w == 0 {
			w = 1
		}
		out = append(out, cluster{text: string(ru), width: w})
	}
	return out
}

type termCell struct {
	text  string
	style int // index into styles; -1 for background
	cont  bool
}

// Render lays out cfg on a cols x rows surface and returns the rows joined by
// newlines.
func (r TerminalRenderer) Render(cfg Config, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	cw, ch := r.cell()
	width, height := r.PixelSize(cols, rows)
	bg := cfg.background()

	cells := make([][]termCell, rows)
	for i := range cells {
		cells[i] = make([]termCell, cols)
		for j := range cells[i] {
			cells[i][j] = termCell{text: " ", style: -1}
		}
	}

	var styles []lipgloss.Style
	base := lipgloss.NewStyle()
	backdrop := colorful.Color{}
	if !bg.Transparent() {
		backdrop = bg.Over(colorful.Color{})
		base = base.Background(lipgloss.Color(backdrop.Hex()))
	}

	for _, p := range Layout(cfg, width, height, r.Measure) {
		glyphs := glyphCells(p, cw, ch)
		if !fits(cells, glyphs) {
			continue
		}
		style := base.Foreground(lipgloss.Color(p.Paint.Over(backdrop).Hex()))
		if p.Size >= boldScale*float64(ch) {
			style = style.Bold(true)
		}
		styles = append(styles, style)
		for _, g := range glyphs {
			cells[g.row][g.col] = termCell{text: g.text, style: len(styles) - 1}
			if g.wide {
				cells[g.row][g.col+1] = termCell{style: len(styles) - 1, cont: true}
			}
		}
	}

	lines := make([]string, rows)
	for i, row := range cells {
		lines[i] = renderRow(row, base, styles)
	}
	return strings.Join(lines, "\n")
}

type glyph struct {
	row, col int
	text     string
	wide     bool
}

// glyphCells centers the term inside its placement box, horizontally on the
// middle row or vertically down the middle column.
func glyphCells(p Placement, cw, ch int) []glyph {
	parts := clusters(p.Term)
	out := make([]glyph, 0, len(parts))
	if p.Rotated {
		col := (p.X + p.Width/2) / cw
		row := (p.Y+p.Height/2)/ch - len(parts)/2
		for i, c := range parts {
			out = append(out, glyph{row: row + i, col: col, text: c.text, wide: c.width == 2})
		}
		return out
	}
	row := (p.Y + p.Height/2) / ch
	col := (p.X+p.Width/2)/cw - runewidth.StringWidth(p.Term)/2
	for _, c := range parts {
		out = append(out, glyph{row: row, col: col, text: c.text, wide: c.width == 2})
		col += c.width
	}
	return out
}

func fits(cells [][]termCell, glyphs []glyph) bool {
	if len(glyphs) == 0 {
		return false
	}
	for _, g := range glyphs {
		if g.row < 0 || g.row >= len(cells) || g.col < 0 {
			return false
		}
		span := 1
		if g.wide {
			span = 2
		}
		if g.col+span > len(cells[g.row]) {
			return false
		}
		for c := g.col; c < g.col+span; c++ {
			if cells[g.row][c].style != -1 {
				return false
			}
		}
	}
	return true
}

func renderRow(row []termCell, base lipgloss.Style, styles []lipgloss.Style) string {
	var (
		b       strings.Builder
		segment strings.Builder
		current = -1
	)
	flush := func() {
		if segment.Len() == 0 {
			return
		}
		style := base
		if current >= 0 {
			style = styles[current]
		}
		b.WriteString(style.Render(segment.String()))
		segment.Reset()
	}
	for _, c := range row {
		if c.cont {
			continue
		}
		if c.style != current {
			flush()
			current = c.style
		}
		segment.WriteString(c.text)
	}
	flush()
	return b.String()
}

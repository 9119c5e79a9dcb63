package cloud

import (
	"math"
	"math/rand"
)

// ellipticity flattens the spiral to suit landscape surfaces.
const ellipticity = 0.65

// Measure reports the pixel box of term drawn at size. Rotated terms run
// top to bottom.
type Measure func(term string, size float64, rotated bool) (width, height int)

// Placement is a term that found room on the surface. Coordinates are pixels
// from the top-left corner.
type Placement struct {
	Term    string
	Weight  int
	Size    float64
	X, Y    int
	Width   int
	Height  int
	Rotated bool
	Paint   Paint
}

// Layout places the terms of cfg in list order on a width x height surface.
// Each term walks an elliptic archimedean spiral out from the center until
// its box fits on the occupancy grid; terms that never fit are dropped.
func Layout(cfg Config, width, height int, measure Measure) []Placement {
	if width <= 0 || height <= 0 || cfg.Empty() || measure == nil {
		return nil
	}
	g := cfg.GridSize
	if g < 1 {
		g = 1
	}
	rnd := rand.New(rand.NewSource(cfg.Seed))
	grid := newOccupancy((width+g-1)/g, (height+g-1)/g)
	maxRadius := int(math.Floor(math.Sqrt(float64(grid.cols*grid.cols + grid.rows*grid.rows))))
	centerX, centerY := float64(grid.cols)/2, float64(grid.rows)/2

	var placed []Placement
	for _, entry := range cfg.List {
		size := cfg.FontSize(entry.Weight)
		if size <= 0 || entry.Term == "" {
			continue
		}
		rotated := cfg.RotateRatio > 0 && rnd.Float64() < cfg.RotateRatio
		paint := cfg.paint(rnd)
		w, h := measure(entry.Term, size, rotated)
		if w <= 0 || h <= 0 || w > width || h > height {
			continue
		}
		cw, ch := (w+g-1)/g, (h+g-1)/g

	search:
		for r := 0; r <= maxRadius; r++ {
			for _, p := range spiralPoints(r, centerX, centerY, rnd) {
				gx := int(math.Floor(p[0] - float64(cw)/2))
				gy := int(math.Floor(p[1] - float64(ch)/2))
				if !grid.free(gx, gy, cw, ch) || gx*g+w > width || gy*g+h > height {
					continue
				}
				grid.fill(gx, gy, cw, ch)
				placed = append(placed, Placement{
					Term:    entry.Term,
					Weight:  entry.Weight,
					Size:    size,
					X:       gx * g,
					Y:       gy * g,
					Width:   w,
					Height:  h,
					Rotated: rotated,
					Paint:   paint,
				})
				break search
			}
		}
	}
	return placed
}

// spiralPoints returns the 8r points at radius r in shuffled order.
func spiralPoints(r int, cx, cy float64, rnd *rand.Rand) [][2]float64 {
	if r == 0 {
		return [][2]float64{{cx, cy}}
	}
	total := r * 8
	points := make([][2]float64, 0, total)
	for i := 0; i < total; i++ {
		theta := float64(i) / float64(total) * 2 * math.Pi
		points = append(points, [2]float64{
			cx + float64(r)*math.Cos(theta),
			cy + float64(r)*math.Sin(theta)*ellipticity,
		})
	}
	rnd.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })
	return points
}

type occupancy struct {
	cols, rows int
	cells      []bool
}

func newOccupancy(cols, rows int) *occupancy {
	return &occupancy{cols: cols, rows: rows, cells: make([]bool, cols*rows)}
}

func (o *occupancy) free(x, y, w, h int) bool {
	if x < 0 || y < 0 || x+w > o.cols || y+h > o.rows {
		return false
	}
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if o.cells[row*o.cols+col] {
				return false
			}
		}
	}
	return true
}

func (o *occupancy) fill(x, y, w, h int) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			o.cells[row*o.cols+col] = true
		}
	}
}

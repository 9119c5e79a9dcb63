package cloud

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	RandomDark  = "random-dark"
	RandomLight = "random-light"
	Transparent = "transparent"
)

var rgbaPattern = regexp.MustCompile(`^rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*([\d.]+)\s*)?\)$`)

// Paint is a color with its opacity.
type Paint struct {
	Color colorful.Color
	Alpha float64
}

// Transparent reports whether nothing would be painted.
func (p Paint) Transparent() bool {
	return p.Alpha <= 0
}

// Over composites p onto an opaque background color.
func (p Paint) Over(background colorful.Color) colorful.Color {
	if p.Alpha >= 1 {
		return p.Color
	}
	if p.Alpha <= 0 {
		return background
	}
	return background.BlendRgb(p.Color, p.Alpha).Clamped()
}

// ParseColor reads "#rgb", "#rrggbb", "rgb(r,g,b)", "rgba(r,g,b,a)" and
// "transparent". The random color keywords are not fixed colors and are
// rejected here; see Config.paint.
func ParseColor(spec string) (Paint, error) {
	spec = strings.TrimSpace(strings.ToLower(spec))
	switch {
	case spec == "" || spec == Transparent:
		return Paint{}, nil
	case strings.HasPrefix(spec, "#"):
		c, err := colorful.Hex(spec)
		if err != nil {
			return Paint{}, fmt.Errorf("invalid color %q: %w", spec, err)
		}
		return Paint{Color: c, Alpha: 1}, nil
	}

	m := rgbaPattern.FindStringSubmatch(spec)
	if m == nil {
		return Paint{}, fmt.Errorf("unsupported color %q", spec)
	}
	var channels [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(m[i+1])
		if err != nil || v > 255 {
			return Paint{}, fmt.Errorf("invalid color %q", spec)
		}
		channels[i] = float64(v) / 255
	}
	alpha := 1.0
	if m[4] != "" {
		a, err := strconv.ParseFloat(m[4], 64)
		if err != nil || a > 1 {
			return Paint{}, fmt.Errorf("invalid alpha in %q", spec)
		}
		alpha = a
	}
	return Paint{Color: colorful.Color{R: channels[0], G: channels[1], B: channels[2]}, Alpha: alpha}, nil
}

// ValidColor reports whether spec is usable as a word color.
func ValidColor(spec string) bool {
	switch strings.TrimSpace(strings.ToLower(spec)) {
	case RandomDark, RandomLight:
		return true
	}
	_, err := ParseColor(spec)
	return err == nil
}

// paint resolves the word color for one term. Random keywords draw a fresh
// color from rnd for every call.
func (c Config) paint(rnd *rand.Rand) Paint {
	switch strings.TrimSpace(strings.ToLower(c.Color)) {
	case RandomDark:
		return Paint{Color: randomChannel(rnd, 0), Alpha: 1}
	case RandomLight:
		return Paint{Color: randomChannel(rnd, 128), Alpha: 1}
	}
	p, err := ParseColor(c.Color)
	if err != nil || c.Color == "" {
		return Paint{Color: colorful.Color{}, Alpha: 1}
	}
	return p
}

// background returns the resolved background paint; invalid specs fall back
// to transparent.
func (c Config) background() Paint {
	p, err := ParseColor(c.BackgroundColor)
	if err != nil {
		return Paint{}
	}
	return p
}

func randomChannel(rnd *rand.Rand, base int) colorful.Color {
	channel := func() float64 { return float64(base+rnd.Intn(128)) / 255 }
	return colorful.Color{R: channel(), G: channel(), B: channel()}
}

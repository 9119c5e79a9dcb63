package cloud

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/csheth/wordcloud/internal/terms"
)

func TestDefaultThemesUseValidColors(t *testing.T) {
	themes := DefaultThemes()
	if len(themes) != 5 {
		t.Fatalf("expected 5 themes, got %d", len(themes))
	}
	for i, theme := range themes {
		if !ValidColor(theme.Color) {
			t.Errorf("theme %d: invalid word color %q", i, theme.Color)
		}
		if _, err := ParseColor(theme.BackgroundColor); err != nil {
			t.Errorf("theme %d: invalid background %q: %v", i, theme.BackgroundColor, err)
		}
		if theme.FontFamily == "" {
			t.Errorf("theme %d: missing font family", i)
		}
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		spec    string
		hex     string
		alpha   float64
		wantErr bool
	}{
		{spec: "#eee", hex: "#eeeeee", alpha: 1},
		{spec: "#353130", hex: "#353130", alpha: 1},
		{spec: "rgba(255,255,255,0.8)", hex: "#ffffff", alpha: 0.8},
		{spec: "rgba(255, 255, 255, 1)", hex: "#ffffff", alpha: 1},
		{spec: "rgb(0, 128, 255)", hex: "#0080ff", alpha: 1},
		{spec: "transparent", hex: "#000000", alpha: 0},
		{spec: "rgba(300,0,0,1)", wantErr: true},
		{spec: "chartreuse", wantErr: true},
		{spec: "#zzz", wantErr: true},
	}
	for _, tc := range cases {
		p, err := ParseColor(tc.spec)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: err = %v", tc.spec, err)
		}
		if tc.wantErr {
			continue
		}
		if got := p.Color.Hex(); got != tc.hex {
			t.Errorf("%s: hex = %s, want %s", tc.spec, got, tc.hex)
		}
		if math.Abs(p.Alpha-tc.alpha) > 1e-9 {
			t.Errorf("%s: alpha = %v, want %v", tc.spec, p.Alpha, tc.alpha)
		}
	}
}

func TestPaintOverBlendsAlpha(t *testing.T) {
	white, _ := ParseColor("rgba(255,255,255,0.5)")
	black, _ := ParseColor("#000")
	got := white.Over(black.Color)
	if math.Abs(got.R-0.5) > 0.01 || math.Abs(got.G-0.5) > 0.01 {
		t.Fatalf("half white over black = %v", got)
	}
}

func TestRandomColorsStayInRange(t *testing.T) {
	cfg := Config{Color: RandomLight, List: terms.List{{Term: "a", Weight: 1}}}
	for _, p := range Layout(cfg.withSize(10), 400, 400, fixedMeasure) {
		if p.Paint.Color.R < 0.5 || p.Paint.Color.G < 0.5 || p.Paint.Color.B < 0.5 {
			t.Fatalf("random-light produced %v", p.Paint.Color)
		}
	}
}

func TestIdleConfigScalesWithWidth(t *testing.T) {
	cfg := IdleConfig(1024)
	if got, want := len(cfg.List), len(IdleWords())*5; got != want {
		t.Fatalf("list has %d entries, want %d", got, want)
	}
	if cfg.GridSize != 16 {
		t.Fatalf("grid size = %d", cfg.GridSize)
	}
	if got, want := cfg.FontSize(5), math.Pow(5, 2.3); math.Abs(got-want) > 1e-9 {
		t.Fatalf("font size = %v, want %v", got, want)
	}
	if half := IdleConfig(512); half.GridSize != 8 || math.Abs(half.FontSize(2)-math.Pow(2, 2.3)/2) > 1e-9 {
		t.Fatalf("half width config = grid %d size %v", half.GridSize, half.FontSize(2))
	}
	if cfg.RotateRatio != 0.5 || cfg.BackgroundColor != Transparent {
		t.Fatalf("unexpected idle style %+v", cfg)
	}
}

func TestWithThemeKeepsData(t *testing.T) {
	cfg := Config{List: terms.List{{Term: "x", Weight: 1}}, GridSize: 4, WeightFactor: 2}
	themed := cfg.WithTheme(DefaultThemes()[1])
	if themed.Color != RandomLight || themed.BackgroundColor != "#000" {
		t.Fatalf("theme not applied: %+v", themed)
	}
	if themed.GridSize != 4 || themed.WeightFactor != 2 || len(themed.List) != 1 {
		t.Fatalf("data lost: %+v", themed)
	}
}

func fixedMeasure(term string, size float64, rotated bool) (int, int) {
	w, h := int(size)*len(term), int(size)
	if rotated {
		return h, w
	}
	return w, h
}

func (c Config) withSize(factor float64) Config {
	c.WeightFactor = factor
	c.GridSize = 2
	return c
}

func TestLayoutPlacesWithoutOverlap(t *testing.T) {
	list := terms.List{
		{Term: "cloud", Weight: 8},
		{Term: "rain", Weight: 5},
		{Term: "fog", Weight: 4},
		{Term: "mist", Weight: 3},
		{Term: "haze", Weight: 2},
		{Term: "sky", Weight: 2},
		{Term: "sun", Weight: 1},
	}
	cfg := Config{List: list, GridSize: 4, WeightFactor: 6, RotateRatio: 0.3, Seed: 7}
	placed := Layout(cfg, 400, 300, fixedMeasure)
	if len(placed) == 0 {
		t.Fatalf("nothing placed")
	}
	if placed[0].Term != "cloud" {
		t.Fatalf("first placement should follow list order, got %q", placed[0].Term)
	}
	for i, a := range placed {
		if a.X < 0 || a.Y < 0 || a.X+a.Width > 400 || a.Y+a.Height > 300 {
			t.Fatalf("%q out of bounds: %+v", a.Term, a)
		}
		for _, b := range placed[i+1:] {
			if a.X < b.X+b.Width && b.X < a.X+a.Width && a.Y < b.Y+b.Height && b.Y < a.Y+a.Height {
				t.Fatalf("%q overlaps %q", a.Term, b.Term)
			}
		}
	}

	again := Layout(cfg, 400, 300, fixedMeasure)
	if !reflect.DeepEqual(placed, again) {
		t.Fatalf("layout with the same seed should be deterministic")
	}
}

func TestLayoutDropsTermsThatDoNotFit(t *testing.T) {
	cfg := Config{
		List:         terms.List{{Term: "enormous", Weight: 100}, {Term: "ok", Weight: 1}, {Term: "zero", Weight: 0}},
		GridSize:     0,
		WeightFactor: 10,
	}
	placed := Layout(cfg, 200, 100, fixedMeasure)
	if len(placed) != 1 || placed[0].Term != "ok" {
		t.Fatalf("expected only the small term, got %+v", placed)
	}
	if Layout(cfg, 0, 100, fixedMeasure) != nil {
		t.Fatalf("empty surface should place nothing")
	}
}

func TestTerminalRenderer(t *testing.T) {
	r := TerminalRenderer{CellWidth: 8, CellHeight: 16}
	cfg := Config{
		List:            terms.List{{Term: "cloud", Weight: 3}, {Term: "雲", Weight: 2}},
		GridSize:        4,
		WeightFactor:    8,
		Color:           "#fff",
		BackgroundColor: "#000",
	}
	out := r.Render(cfg, 60, 12)
	lines := strings.Split(out, "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(lines))
	}
	if !strings.Contains(out, "cloud") || !strings.Contains(out, "雲") {
		t.Fatalf("rendered cloud is missing terms:\n%s", out)
	}
	if r.Render(cfg, 0, 10) != "" {
		t.Fatalf("zero width should render nothing")
	}

	w, h := r.Measure("雲", 8, false)
	if w != 16 || h != 16 {
		t.Fatalf("wide rune measured %dx%d", w, h)
	}
	w, h = r.Measure("ab", 32, true)
	if w != 16 || h != 64 {
		t.Fatalf("rotated term measured %dx%d", w, h)
	}
}

func TestClustersAttachCombiningMarks(t *testing.T) {
	got := clusters("e\u0301a")
	if len(got) != 2 || got[0].text != "e\u0301" || got[0].width != 1 || got[1].text != "a" {
		t.Fatalf("clusters = %+v", got)
	}
}

func TestWritePNG(t *testing.T) {
	cfg := Config{
		List:            terms.List{{Term: "cloud", Weight: 4}, {Term: "rain", Weight: 2}},
		GridSize:        4,
		WeightFactor:    10,
		Color:           "#fff",
		BackgroundColor: "#000",
		RotateRatio:     0.5,
		Seed:            3,
	}
	var buf bytes.Buffer
	if err := WritePNG(&buf, cfg, 320, 200); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 200 {
		t.Fatalf("bounds = %v", b)
	}
	r, g, b, a := img.At(0, 0).RGBA()
	if r != 0 || g != 0 || b != 0 || a != 0xffff {
		t.Fatalf("corner pixel should be opaque black, got %d %d %d %d", r, g, b, a)
	}

	if err := WritePNG(&buf, cfg, 0, 10); err == nil {
		t.Fatalf("expected error for empty image")
	}
}

func TestSavePNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	cfg := Config{List: terms.List{{Term: "sky", Weight: 1}}, GridSize: 4, WeightFactor: 20, Color: "random-dark", BackgroundColor: "#eee"}
	path, err := SavePNG(dir, cfg, 100, 80)
	if err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if filepath.Dir(path) != dir || filepath.Ext(path) != ".png" {
		t.Fatalf("unexpected path %q", path)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("saved file missing: %v", err)
	}
	if _, err := SavePNG("", cfg, 100, 80); err == nil {
		t.Fatalf("expected error without a directory")
	}
}

package cloud

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// glyphFace is the bitmap face every term is rasterized with before being
// scaled to its font size. It only covers ASCII; other runes are skipped.
var glyphFace = basicfont.Face7x13

// MeasureImage sizes terms for the PNG rasterizer.
func MeasureImage(term string, size float64, rotated bool) (int, int) {
	advance := font.MeasureString(glyphFace, term).Ceil()
	if advance <= 0 {
		advance = glyphFace.Advance
	}
	scale := size / float64(glyphFace.Height)
	w := int(math.Max(1, math.Ceil(float64(advance)*scale)))
	h := int(math.Max(1, math.Ceil(float64(glyphFace.Height)*scale)))
	if rotated {
		return h, w
	}
	return w, h
}

// Rasterize draws cfg onto a width x height RGBA image.
func Rasterize(cfg Config, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if bg := cfg.background(); !bg.Transparent() {
		draw.Draw(img, img.Bounds(), image.NewUniform(toNRGBA(bg)), image.Point{}, draw.Src)
	}
	for _, p := range Layout(cfg, width, height, MeasureImage) {
		src := rasterizeTerm(p.Term, toNRGBA(p.Paint))
		if p.Rotated {
			src = rotate(src)
		}
		dst := image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
		draw.ApproxBiLinear.Scale(img, dst, src, src.Bounds(), draw.Over, nil)
	}
	return img
}

// WritePNG encodes the rasterized cloud to w.
func WritePNG(w io.Writer, cfg Config, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	return png.Encode(w, Rasterize(cfg, width, height))
}

// SavePNG writes the cloud into dir under a timestamped name and returns
// the file path.
func SavePNG(dir string, cfg Config, width, height int) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("no save directory configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating save directory: %w", err)
	}
	path := filepath.Join(dir, "wordcloud-"+time.Now().Format("20060102-150405.000")+".png")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WritePNG(file, cfg, width, height); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func rasterizeTerm(term string, c color.NRGBA) *image.NRGBA {
	advance := font.MeasureString(glyphFace, term).Ceil()
	if advance <= 0 {
		advance = glyphFace.Advance
	}
	img := image.NewNRGBA(image.Rect(0, 0, advance, glyphFace.Height))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: glyphFace,
		Dot:  fixed.P(0, glyphFace.Ascent),
	}
	d.DrawString(term)
	return img
}

// rotate turns src a quarter clockwise so the text reads top to bottom.
func rotate(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetNRGBA(b.Max.Y-1-y, x-b.Min.X, src.NRGBAAt(x, y))
		}
	}
	return out
}

func toNRGBA(p Paint) color.NRGBA {
	r, g, b := p.Color.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(math.Max(0, math.Min(1, p.Alpha)) * 255))}
}

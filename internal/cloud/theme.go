// Package cloud lays out weighted terms as a word cloud and renders the
// result either into terminal cells or into a PNG image.
package cloud

import (
	"math"
	"strings"

	"github.com/csheth/wordcloud/internal/terms"
)

// Theme is the visual part of a cloud configuration.
type Theme struct {
	FontFamily      string
	Color           string
	BackgroundColor string
}

const (
	sansFamily = `"Trebuchet MS", "Heiti TC", "微軟正黑體", "Arial Unicode MS", "Droid Fallback Sans", sans-serif`
	// serif stack for CJK-heavy clouds
	serifFamily = `Baskerville, "Times New Roman", "華康儷金黑 Std", "華康儷宋 Std", DFLiKingHeiStd-W8, ` +
		`DFLiSongStd-W5, "Hiragino Mincho Pro", "LiSong Pro Light", "新細明體", serif`
	myriadFamily = `"Myriad Pro", "Lucida Grande", Helvetica, "Heiti TC", "微軟正黑體", "Arial Unicode MS", ` +
		`"Droid Fallback Sans", sans-serif`
)

// DefaultThemes returns the themes the dashboard cycles through.
func DefaultThemes() []Theme {
	return []Theme{
		{FontFamily: sansFamily, Color: "random-dark", BackgroundColor: "#eee"},
		{FontFamily: serifFamily, Color: "random-light", BackgroundColor: "#000"},
		{FontFamily: serifFamily, Color: "#fff", BackgroundColor: "#000"},
		{FontFamily: myriadFamily, Color: "rgba(255,255,255,0.8)", BackgroundColor: "#353130"},
		{FontFamily: sansFamily, Color: "rgba(0,0,0,0.7)", BackgroundColor: "rgba(255, 255, 255, 1)"},
	}
}

// DefaultRotateRatio is the share of words drawn vertically when a
// configuration does not ask for something else.
const DefaultRotateRatio = 0.1

// Config is everything a layout and a renderer need to draw one cloud.
type Config struct {
	List         terms.List
	GridSize     int
	WeightFactor float64
	// SizeFunc, when set, maps a weight to a font size in pixels and takes
	// precedence over WeightFactor.
	SizeFunc func(weight int) float64

	FontFamily      string
	Color           string
	BackgroundColor string

	RotateRatio float64
	Seed        int64
}

// WithTheme returns a copy of c using the theme's font and colors.
func (c Config) WithTheme(t Theme) Config {
	c.FontFamily = t.FontFamily
	c.Color = t.Color
	c.BackgroundColor = t.BackgroundColor
	return c
}

// FontSize is the pixel size of a term of the given weight.
func (c Config) FontSize(weight int) float64 {
	if c.SizeFunc != nil {
		return c.SizeFunc(weight)
	}
	return float64(weight) * c.WeightFactor
}

// Empty reports whether there is nothing to draw.
func (c Config) Empty() bool {
	return len(c.List) == 0
}

var idleWords = strings.Split("Arai,Awan,Bodjal,Boira,Bulud,Bulut,Caad,Chmura,Clood,"+
	"Cloud,Cwmwl,Dampog,Debesis,Ewr,Felhő,Hodei,Hûn,Koumoul,Leru,Lipata,"+
	"Mixtli,Moln,Mây,Méga,Mākoņi,Neul,Niula,Nivulu,Nor,Nouage,Nuage,Nube,"+
	"Nubes,Nubia,Nubo,Nuvem,Nuvi,Nuvia,Nuvola,Nwaj,Nívol,Nóvvla,Nùvoła,"+
	"Nùvula,Núvol,Nûl,Nûlêye,Oblaci,Oblak,Phuyu,Pil'v,Pilv,Pilvi,Qinaya,"+
	"Rahona,Rakun,Retë,Scamall,Sky,Ský,Swarken,Ulap,Vo'e,Wingu,Wolcen,"+
	"Wolk,Wolke,Wollek,Wulke,dilnu,Νέφος,Абр,Болот,Болытлар,Булут,"+
	"Бұлттар,Воблакі,Облак,Облака,Хмара,Үүл,Ամպ,וואלקן,ענן,"+
	"ابر,بادل,بدل,سحاب,ورېځ,ھەور,ܥܢܢܐ,"+
	"ढग,बादल,सुपाँय्,মেঘ,ਬੱਦਲ,વાદળ,முகில்,"+
	"మేఘం,മേഘം,เมฆ,སྤྲིན།,ღრუბელი,ᎤᎶᎩᎸ,ᓄᕗᔭᖅ,云,雲,구름", ",")

var idleWeights = []int{5, 4, 3, 2, 2}

// IdleWords is the word "cloud" in the languages shown behind the source
// dialog.
func IdleWords() []string {
	return append([]string(nil), idleWords...)
}

// IdleConfig is the decorative cloud drawn while no source is selected. It
// scales with the pixel width of the drawing surface.
func IdleConfig(width int) Config {
	list := make(terms.List, 0, len(idleWords)*len(idleWeights))
	for _, weight := range idleWeights {
		for _, word := range idleWords {
			list = append(list, terms.Entry{Term: word, Weight: weight})
		}
	}
	w := float64(width)
	return Config{
		List:     list,
		GridSize: int(math.Round(16 * w / 1024)),
		SizeFunc: func(weight int) float64 {
			return math.Pow(float64(weight), 2.3) * w / 1024
		},
		FontFamily:      "serif",
		Color:           "rgba(255, 255, 255, 0.8)",
		BackgroundColor: "transparent",
		RotateRatio:     0.5,
	}
}

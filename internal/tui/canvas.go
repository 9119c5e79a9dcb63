package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/wordcloud/internal/cloud"
)

type canvasMode int

const (
	canvasEmpty canvasMode = iota
	canvasIdle
	canvasCloud
)

// canvasView draws the current cloud. Layout is expensive, so the rendered
// frame is kept until the mode, the size or the configuration changes.
type canvasView struct {
	viewBase
	renderer cloud.TerminalRenderer
	mode     canvasMode
	config   cloud.Config
	version  int

	cache struct {
		mode          canvasMode
		width, height int
		version       int
		frame         string
		valid         bool
	}
}

func newCanvasView(renderer cloud.TerminalRenderer) *canvasView {
	v := &canvasView{renderer: renderer}
	v.viewBase = viewBase{name: viewCanvas}
	react := func(_, next UIState) bool {
		switch next {
		case StateSourceSelection:
			v.DrawIdle()
		case StateLoading, StateWorking:
			v.Empty()
		}
		return true
	}
	v.hooks.beforeShow = react
	v.hooks.beforeHide = react
	return v
}

// Draw replaces the canvas content with cfg.
func (v *canvasView) Draw(cfg cloud.Config) {
	v.mode = canvasCloud
	v.config = cfg
	v.version++
}

// DrawIdle shows the decorative cloud sized to the surface.
func (v *canvasView) DrawIdle() {
	v.mode = canvasIdle
	v.version++
}

func (v *canvasView) Empty() {
	v.mode = canvasEmpty
	v.config = cloud.Config{}
	v.version++
}

func (v *canvasView) Mode() canvasMode {
	return v.mode
}

// Config is the configuration last passed to Draw.
func (v *canvasView) Config() cloud.Config {
	return v.config
}

func (v *canvasView) Render(width, height int) string {
	c := &v.cache
	if c.valid && c.mode == v.mode && c.width == width && c.height == height && c.version == v.version {
		return c.frame
	}

	var frame string
	switch v.mode {
	case canvasIdle:
		pixelWidth, _ := v.renderer.PixelSize(width, height)
		frame = v.renderer.Render(cloud.IdleConfig(pixelWidth), width, height)
	case canvasCloud:
		frame = v.renderer.Render(v.config, width, height)
	}
	if frame == "" {
		frame = lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, "")
	}

	c.mode, c.width, c.height, c.version = v.mode, width, height, v.version
	c.frame = frame
	c.valid = true
	return frame
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View is a screen surface driven by state transitions. Show and Hide
// report false when a before-hook kept the view as it was.
type View interface {
	Name() string
	Show(prev, next UIState) bool
	Hide(prev, next UIState) bool
	Visible() bool
	Render(width, height int) string
}

// hooks are optional. A before-hook returning false vetoes the change for
// its own view only.
type hooks struct {
	beforeShow func(prev, next UIState) bool
	afterShow  func(prev, next UIState)
	beforeHide func(prev, next UIState) bool
	afterHide  func(prev, next UIState)
}

type viewBase struct {
	name    string
	visible bool
	hooks   hooks
}

func (v *viewBase) Name() string {
	return v.name
}

func (v *viewBase) Visible() bool {
	return v.visible
}

func (v *viewBase) Show(prev, next UIState) bool {
	if v.hooks.beforeShow != nil && !v.hooks.beforeShow(prev, next) {
		return false
	}
	v.visible = true
	if v.hooks.afterShow != nil {
		v.hooks.afterShow(prev, next)
	}
	return true
}

func (v *viewBase) Hide(prev, next UIState) bool {
	if v.hooks.beforeHide != nil && !v.hooks.beforeHide(prev, next) {
		return false
	}
	v.visible = false
	if v.hooks.afterHide != nil {
		v.hooks.afterHide(prev, next)
	}
	return true
}

// View composes the visible views: a backdrop (canvas or loading) over the
// whole body, a dialog overlaid on its center and one status row.
func (m *model) View() string {
	a := m.app
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	bodyHeight := a.bodyHeight()

	var body string
	switch {
	case a.canvas.Visible():
		body = a.canvas.Render(a.width, bodyHeight)
	case a.loading.Visible():
		body = a.loading.Render(a.width, bodyHeight)
	default:
		body = lipgloss.Place(a.width, bodyHeight, lipgloss.Left, lipgloss.Top, "")
	}

	for _, dialog := range []View{a.dialog, a.lists} {
		if dialog.Visible() {
			body = overlay(body, dialog.Render(a.width, bodyHeight), a.width)
		}
	}

	var status string
	switch {
	case a.dashboard.Visible():
		status = a.dashboard.Render(a.width, 1)
	case a.dialog.Visible():
		status = statusLine(a.width, a.dialog.helpText())
	}
	return strings.Join([]string{body, status}, "\n")
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

type keyHint struct {
	Key         string
	Description string
	Disabled    bool
}

func renderHints(hints []keyHint) string {
	cells := make([]string, 0, len(hints))
	for _, hint := range hints {
		if hint.Disabled {
			cells = append(cells, disabledKeyStyle.Render(hint.Key+" "+hint.Description))
			continue
		}
		cells = append(cells, keyStyle.Render(hint.Key)+keyDescStyle.Render(" "+hint.Description))
	}
	return strings.Join(cells, " ")
}

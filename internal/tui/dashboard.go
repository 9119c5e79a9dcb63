package tui

import (
	"github.com/muesli/reflow/truncate"
)

const (
	actionBack     = "back"
	actionRefresh  = "refresh"
	actionTheme    = "theme"
	actionEdit     = "edit"
	actionSizeUp   = "size+"
	actionSizeDown = "size-"
	actionGapUp    = "gap+"
	actionGapDown  = "gap-"
	actionSave     = "save"
)

type dashboardControl struct {
	action string
	key    string
	label  string
	// canvas controls only work while a cloud is on screen
	canvas bool
}

var dashboardControls = []dashboardControl{
	{action: actionBack, key: "b", label: "back"},
	{action: actionRefresh, key: "r", label: "refresh", canvas: true},
	{action: actionTheme, key: "t", label: "theme", canvas: true},
	{action: actionEdit, key: "e", label: "edit", canvas: true},
	{action: actionSizeUp, key: "+", label: "bigger", canvas: true},
	{action: actionSizeDown, key: "-", label: "smaller", canvas: true},
	{action: actionGapUp, key: "]", label: "looser", canvas: true},
	{action: actionGapDown, key: "[", label: "denser", canvas: true},
	{action: actionSave, key: "s", label: "save", canvas: true},
}

// dashboardKeys maps key presses onto actions; "=" is "+" without shift.
var dashboardKeys = func() map[string]string {
	keys := map[string]string{"=": actionSizeUp}
	for _, c := range dashboardControls {
		keys[c.key] = c.action
	}
	return keys
}()

type dashboardView struct {
	viewBase
	controlsEnabled bool
	status          func() string
}

func newDashboardView(status func() string) *dashboardView {
	v := &dashboardView{status: status}
	v.viewBase = viewBase{name: viewDashboard}
	toggle := func(_, next UIState) bool {
		v.controlsEnabled = next == StateDashboard
		return true
	}
	v.hooks.beforeShow = toggle
	v.hooks.beforeHide = toggle
	return v
}

// Enabled reports whether action can run right now.
func (v *dashboardView) Enabled(action string) bool {
	for _, c := range dashboardControls {
		if c.action == action {
			return !c.canvas || v.controlsEnabled
		}
	}
	return false
}

func (v *dashboardView) Render(width, height int) string {
	hints := make([]keyHint, 0, len(dashboardControls)+1)
	for _, c := range dashboardControls {
		hints = append(hints, keyHint{Key: c.key, Description: c.label, Disabled: !v.Enabled(c.action)})
	}
	hints = append(hints, keyHint{Key: "q", Description: "quit"})
	line := renderHints(hints)
	if v.status != nil {
		if status := v.status(); status != "" {
			line += "  " + helperStyle.Render(status)
		}
	}
	return truncate.String(line, uint(width))
}

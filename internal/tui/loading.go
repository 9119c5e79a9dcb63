package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/wordcloud/internal/fetch"
)

type loadingView struct {
	viewBase
	label   string
	failed  bool
	spinner spinner.Model
}

func newLoadingView() *loadingView {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	v := &loadingView{label: labelLoading, spinner: spin}
	v.viewBase = viewBase{name: viewLoading}
	v.hooks.beforeShow = func(_, next UIState) bool {
		v.failed = next == StateErrorWithDashboard
		return true
	}
	return v
}

// SetLabel switches the displayed message to one of the known label ids.
func (v *loadingView) SetLabel(id string) error {
	if _, ok := loadingLabels[id]; !ok {
		return fmt.Errorf("undefined label %q", id)
	}
	v.label = id
	return nil
}

func (v *loadingView) Label() string {
	return v.label
}

func (v *loadingView) Render(width, height int) string {
	text := loadingLabels[v.label]
	var body string
	if v.failed {
		body = errorBannerStyle.Render(wrap(text, dialogWidth(width)-4))
	} else {
		body = v.spinner.View() + " " + helperStyle.Render(text)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func labelForVerb(verb fetch.Verb) string {
	if verb == fetch.VerbDownloading {
		return labelDownloading
	}
	return labelLoading
}

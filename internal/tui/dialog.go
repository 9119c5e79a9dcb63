package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/csheth/wordcloud/internal/route"
)

// sourceDialogView lists the panels and shows the current one. Unsupported
// panels stay in the menu, dimmed, and can never become current.
type sourceDialogView struct {
	viewBase
	panels  []Panel
	current Panel
	submit  func(route.Route)

	filtering bool
	filter    textinput.Model
	matches   []string
}

func newSourceDialogView(submit func(route.Route)) *sourceDialogView {
	d := &sourceDialogView{submit: submit, filter: newInput("type a source name", 24)}
	d.viewBase = viewBase{name: viewSourceDialog}
	d.hooks.afterShow = func(prev, next UIState) {
		if d.current != nil {
			d.current.Show(prev, next)
		}
	}
	d.hooks.afterHide = func(prev, next UIState) {
		d.closeFilter()
	}
	return d
}

func (d *sourceDialogView) addPanel(p Panel) {
	p.attach(d)
	d.panels = append(d.panels, p)
	if !p.Supported() {
		return
	}
	if d.current == nil {
		d.ShowPanel(p.Name())
	}
}

func (d *sourceDialogView) panel(name string) Panel {
	for _, p := range d.panels {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// Current is the panel Submit delegates to.
func (d *sourceDialogView) Current() Panel {
	return d.current
}

// ShowPanel makes the named panel current. Unknown and unsupported panels
// are refused.
func (d *sourceDialogView) ShowPanel(name string) bool {
	p := d.panel(name)
	if p == nil || !p.Supported() {
		return false
	}
	if d.current != nil && d.current != p {
		d.current.Hide(StateSourceSelection, StateSourceSelection)
	}
	p.Show(StateSourceSelection, StateSourceSelection)
	d.current = p
	return true
}

// Submit pushes a route produced by a panel.
func (d *sourceDialogView) Submit(r route.Route) {
	if d.submit != nil {
		d.submit(r)
	}
}

func (d *sourceDialogView) cycle(step int) {
	supported := make([]Panel, 0, len(d.panels))
	at := 0
	for _, p := range d.panels {
		if !p.Supported() {
			continue
		}
		if p == d.current {
			at = len(supported)
		}
		supported = append(supported, p)
	}
	if len(supported) == 0 {
		return
	}
	next := (at + step + len(supported)) % len(supported)
	d.ShowPanel(supported[next].Name())
}

func (d *sourceDialogView) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if d.filtering {
		return d.updateFilter(msg)
	}
	switch msg.String() {
	case "tab":
		d.cycle(1)
		return nil
	case "shift+tab":
		d.cycle(-1)
		return nil
	case "ctrl+p":
		d.filtering = true
		d.matches = nil
		return d.filter.Focus()
	case "ctrl+s":
		if d.current != nil {
			return d.current.Submit()
		}
		return nil
	case "enter":
		if d.current != nil && !d.current.consumesEnter() {
			return d.current.Submit()
		}
	}
	if d.current != nil {
		return d.current.Update(msg)
	}
	return nil
}

// updateFilter narrows the panel menu with a fuzzy match on titles.
func (d *sourceDialogView) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		d.closeFilter()
		return nil
	case "enter":
		if len(d.matches) > 0 {
			d.ShowPanel(d.matches[0])
		}
		d.closeFilter()
		return nil
	}
	var cmd tea.Cmd
	d.filter, cmd = d.filter.Update(msg)
	d.matches = d.matchPanels(d.filter.Value())
	return cmd
}

func (d *sourceDialogView) matchPanels(query string) []string {
	titles := make([]string, 0, len(d.panels))
	names := make([]string, 0, len(d.panels))
	for _, p := range d.panels {
		if !p.Supported() {
			continue
		}
		titles = append(titles, p.Title())
		names = append(names, p.Name())
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return names
	}
	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)
	out := make([]string, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, names[rank.OriginalIndex])
	}
	return out
}

func (d *sourceDialogView) closeFilter() {
	d.filtering = false
	d.filter.Blur()
	d.filter.SetValue("")
	d.matches = nil
}

func (d *sourceDialogView) Render(width, height int) string {
	outer := dialogWidth(width)
	inner := outer - dialogChrome

	menu := make([]string, 0, len(d.panels))
	for _, p := range d.panels {
		switch {
		case !p.Supported():
			menu = append(menu, disabledKeyStyle.Render(p.Title()))
		case p == d.current:
			menu = append(menu, activeTabStyle.Render(p.Title()))
		default:
			menu = append(menu, tabStyle.Render(p.Title()))
		}
	}

	parts := []string{
		sectionHeaderStyle.Render("Create a word cloud from…"),
		wrap(strings.Join(menu, " "), inner),
	}
	if d.filtering {
		line := "Find source: " + d.filter.View()
		if len(d.matches) > 0 {
			line += helperStyle.Render("  → " + d.panel(d.matches[0]).Title())
		}
		parts = append(parts, line)
	}
	if d.current != nil {
		parts = append(parts, d.current.Render(inner, height))
	}
	return dialogBoxStyle.Width(outer - 2).Render(strings.Join(parts, "\n\n"))
}

func (d *sourceDialogView) helpText() string {
	return "tab next source • shift+tab previous • enter start • ctrl+p find source • alt+←/→ history • ctrl+c quit"
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/wordcloud/internal/fetch"
	"github.com/csheth/wordcloud/internal/identity"
	"github.com/csheth/wordcloud/internal/route"
	"github.com/csheth/wordcloud/internal/terms"
)

// Panel is one input method of the source dialog. Submit hands a route to
// the dialog or starts the work needed before one can be produced.
type Panel interface {
	View
	Title() string
	Supported() bool
	Submit() tea.Cmd
	Update(msg tea.KeyMsg) tea.Cmd

	attach(d *sourceDialogView)
	consumesEnter() bool
}

type panelBase struct {
	viewBase
	title  string
	dialog *sourceDialogView
}

func (p *panelBase) Title() string              { return p.title }
func (p *panelBase) Supported() bool            { return true }
func (p *panelBase) consumesEnter() bool        { return false }
func (p *panelBase) attach(d *sourceDialogView) { p.dialog = d }

func (p *panelBase) submitRoute(r route.Route) {
	if p.dialog != nil {
		p.dialog.Submit(r)
	}
}

func newInput(placeholder string, width int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 512
	in.Width = width
	return in
}

const panelInputWidth = 48

// examplePanel offers canned sources.
type examplePanel struct {
	panelBase
	examples []example
	cursor   int
}

type example struct {
	label string
	route route.Route
}

func newExamplePanel() *examplePanel {
	p := &examplePanel{examples: []example{
		{label: "Wikipedia: Cloud", route: route.Route{Token: "wikipedia.en", Payload: "Cloud"}},
		{label: "Wikipedia: Tag cloud", route: route.Route{Token: "wikipedia.en", Payload: "Tag cloud"}},
		{label: "The Go Blog feed", route: route.Route{Token: "feed", Payload: "https://go.dev/blog/feed.atom"}},
		{label: "A hand-made list", route: route.Route{Token: "list", Payload: "8\tcloud\n5\train\n5\tsky\n3\tfog\n3\tmist\n2\tdrizzle\n2\tthunder\n1\thail"}},
	}}
	p.viewBase = viewBase{name: "example"}
	p.title = "Examples"
	return p
}

func (p *examplePanel) Submit() tea.Cmd {
	if p.cursor < 0 || p.cursor >= len(p.examples) {
		return nil
	}
	p.submitRoute(p.examples[p.cursor].route)
	return nil
}

func (p *examplePanel) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.examples)-1 {
			p.cursor++
		}
	}
	return nil
}

func (p *examplePanel) Render(width, height int) string {
	rows := make([]string, 0, len(p.examples)+1)
	rows = append(rows, helperStyle.Render("Pick an example and press Enter."))
	for i, ex := range p.examples {
		if i == p.cursor {
			rows = append(rows, currentLineStyle.Render("▸ "+ex.label))
			continue
		}
		rows = append(rows, "  "+ex.label)
	}
	return strings.Join(rows, "\n")
}

// cpPanel takes pasted text.
type cpPanel struct {
	panelBase
	editor textarea.Model
}

func newCPPanel() *cpPanel {
	editor := textarea.New()
	editor.Placeholder = "Paste or type any text…"
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	// unbounded; the default stops accepting lines after 99
	editor.MaxHeight = 0
	editor.SetWidth(panelInputWidth)
	editor.SetHeight(6)
	p := &cpPanel{editor: editor}
	p.viewBase = viewBase{name: "cp"}
	p.title = "Paste"
	p.hooks.afterShow = func(UIState, UIState) { p.editor.Focus() }
	p.hooks.afterHide = func(UIState, UIState) { p.editor.Blur() }
	return p
}

func (p *cpPanel) consumesEnter() bool { return true }

func (p *cpPanel) Submit() tea.Cmd {
	text := p.editor.Value()
	if text == "" {
		return nil
	}
	p.submitRoute(route.Route{Token: "base64", Payload: terms.EncodeBase64(text)})
	return nil
}

func (p *cpPanel) Update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	p.editor, cmd = p.editor.Update(msg)
	return cmd
}

func (p *cpPanel) Render(width, height int) string {
	p.editor.SetWidth(width)
	return joinNonEmpty([]string{p.editor.View(), helperStyle.Render("Ctrl+S to start.")})
}

// filePanel selects a local text or PDF file. It is also the source the
// file fetcher reads from.
type filePanel struct {
	panelBase
	path     textinput.Model
	encoding textinput.Model
	focus    int
	err      string
}

func newFilePanel() *filePanel {
	p := &filePanel{
		path:     newInput("/path/to/document.txt", panelInputWidth),
		encoding: newInput("utf-8", 16),
	}
	p.viewBase = viewBase{name: fetch.FilePanel}
	p.title = "File"
	p.hooks.afterShow = func(UIState, UIState) { p.focusField(p.focus) }
	p.hooks.afterHide = func(UIState, UIState) {
		p.path.Blur()
		p.encoding.Blur()
	}
	return p
}

// SelectedFile reports the chosen path and encoding.
func (p *filePanel) SelectedFile() (string, string, bool) {
	path := strings.TrimSpace(p.path.Value())
	if path == "" {
		return "", "", false
	}
	return path, strings.TrimSpace(p.encoding.Value()), true
}

func (p *filePanel) focusField(idx int) {
	p.focus = idx
	if idx == 0 {
		p.encoding.Blur()
		p.path.Focus()
		return
	}
	p.path.Blur()
	p.encoding.Focus()
}

func (p *filePanel) Submit() tea.Cmd {
	if err := fetch.CheckFile(p.path.Value()); err != nil {
		p.err = err.Error()
		return nil
	}
	p.err = ""
	p.submitRoute(route.Route{Token: "file"})
	return nil
}

func (p *filePanel) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "down":
		p.focusField(1 - p.focus)
		return nil
	}
	var cmd tea.Cmd
	if p.focus == 0 {
		p.path, cmd = p.path.Update(msg)
	} else {
		p.encoding, cmd = p.encoding.Update(msg)
	}
	return cmd
}

func (p *filePanel) Render(width, height int) string {
	parts := []string{
		"Path      " + p.path.View(),
		"Encoding  " + p.encoding.View(),
		helperStyle.Render("Plain text or PDF. ↑/↓ switch fields."),
	}
	if p.err != "" {
		parts = append(parts, errorStyle.Render(p.err))
	}
	return strings.Join(parts, "\n")
}

// feedPanel takes a feed URL or a search query.
type feedPanel struct {
	panelBase
	input    textinput.Model
	template string
}

func newFeedPanel(template string) *feedPanel {
	if template == "" {
		template = "%s"
	}
	p := &feedPanel{input: newInput("https://example.com/feed.xml or a search query", panelInputWidth), template: template}
	p.viewBase = viewBase{name: "feed"}
	p.title = "Feed"
	p.hooks.afterShow = func(UIState, UIState) { p.input.Focus() }
	p.hooks.afterHide = func(UIState, UIState) { p.input.Blur() }
	return p
}

func (p *feedPanel) Submit() tea.Cmd {
	value := strings.TrimSpace(p.input.Value())
	if value == "" {
		return nil
	}
	p.submitRoute(route.Route{Token: "feed", Payload: strings.ReplaceAll(p.template, "%s", value)})
	return nil
}

func (p *feedPanel) Update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *feedPanel) Render(width, height int) string {
	return joinNonEmpty([]string{p.input.View(), helperStyle.Render("RSS and Atom feeds are supported.")})
}

// wikipediaPanel takes an article title and a language code.
type wikipediaPanel struct {
	panelBase
	input textinput.Model
	lang  textinput.Model
	focus int
}

func newWikipediaPanel(defaultLang string) *wikipediaPanel {
	if defaultLang == "" {
		defaultLang = "en"
	}
	p := &wikipediaPanel{
		input: newInput("Article title", panelInputWidth),
		lang:  newInput(defaultLang, 8),
	}
	p.lang.SetValue(defaultLang)
	p.viewBase = viewBase{name: "wikipedia"}
	p.title = "Wikipedia"
	p.hooks.afterShow = func(UIState, UIState) { p.focusField(p.focus) }
	p.hooks.afterHide = func(UIState, UIState) {
		p.input.Blur()
		p.lang.Blur()
	}
	return p
}

func (p *wikipediaPanel) focusField(idx int) {
	p.focus = idx
	if idx == 0 {
		p.lang.Blur()
		p.input.Focus()
		return
	}
	p.input.Blur()
	p.lang.Focus()
}

func (p *wikipediaPanel) Submit() tea.Cmd {
	title := strings.TrimSpace(p.input.Value())
	if title == "" {
		return nil
	}
	lang := strings.TrimSpace(p.lang.Value())
	if lang == "" {
		lang = p.lang.Placeholder
	}
	p.submitRoute(route.Route{Token: "wikipedia." + lang, Payload: title})
	return nil
}

func (p *wikipediaPanel) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "down":
		p.focusField(1 - p.focus)
		return nil
	}
	var cmd tea.Cmd
	if p.focus == 0 {
		p.input, cmd = p.input.Update(msg)
	} else {
		p.lang, cmd = p.lang.Update(msg)
	}
	return cmd
}

func (p *wikipediaPanel) Render(width, height int) string {
	return strings.Join([]string{
		"Title     " + p.input.View(),
		"Language  " + p.lang.View(),
		helperStyle.Render("↑/↓ switch fields."),
	}, "\n")
}

// identityPanel gates a social timeline behind its identity provider. It is
// unsupported when the provider could not be configured.
type identityPanel struct {
	panelBase
	provider  identity.Provider
	input     *textinput.Model
	routeFor  func() route.Route
	login     func(panel string, provider identity.Provider) tea.Cmd
	submitted bool
	err       string
}

func newGooglePlusPanel(provider identity.Provider, login func(string, identity.Provider) tea.Cmd) *identityPanel {
	in := newInput("me", panelInputWidth)
	p := &identityPanel{provider: provider, input: &in, login: login}
	p.viewBase = viewBase{name: fetch.GooglePlusPanel}
	p.title = "Google+"
	p.routeFor = func() route.Route {
		id := strings.TrimSpace(p.input.Value())
		if id == "" {
			id = "me"
		}
		if idx := strings.IndexByte(id, '/'); idx >= 0 {
			id = id[:idx]
		}
		return route.Route{Token: "googleplus", Payload: id}
	}
	p.hooks.afterShow = func(UIState, UIState) { p.input.Focus() }
	p.hooks.afterHide = func(UIState, UIState) { p.input.Blur() }
	return p
}

func newFacebookPanel(provider identity.Provider, login func(string, identity.Provider) tea.Cmd) *identityPanel {
	p := &identityPanel{provider: provider, login: login}
	p.viewBase = viewBase{name: fetch.FacebookPanel}
	p.title = "Facebook"
	p.routeFor = func() route.Route {
		return route.Route{Token: "facebook", Payload: p.provider.UserID()}
	}
	return p
}

func (p *identityPanel) Supported() bool {
	return p.provider != nil
}

// Ready mirrors the provider readiness shown as the panel status.
func (p *identityPanel) Ready() bool {
	return p.provider != nil && p.provider.Ready()
}

// Submit pushes the timeline route, or logs in first and submits once the
// login finishes.
func (p *identityPanel) Submit() tea.Cmd {
	if p.provider == nil {
		return nil
	}
	if !p.Ready() {
		if p.submitted || p.login == nil {
			return nil
		}
		p.submitted = true
		p.err = ""
		return p.login(p.name, p.provider)
	}
	p.submitRoute(p.routeFor())
	return nil
}

// loggedIn completes a submit that was waiting for login. Nothing happens
// when the user left the panel or the dialog in the meantime.
func (p *identityPanel) loggedIn(err error) {
	pending := p.submitted
	p.submitted = false
	if err != nil {
		p.err = fmt.Sprintf("Login failed: %v", err)
		return
	}
	if !pending || !p.Visible() || p.dialog == nil || !p.dialog.Visible() || !p.Ready() {
		return
	}
	p.submitRoute(p.routeFor())
}

func (p *identityPanel) Update(msg tea.KeyMsg) tea.Cmd {
	if p.input == nil {
		return nil
	}
	var cmd tea.Cmd
	*p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *identityPanel) Render(width, height int) string {
	status := "Not signed in. Press Enter to log in."
	if p.Ready() {
		status = "Signed in and ready."
	}
	if p.submitted {
		status = "Logging in…"
	}
	parts := []string{helperStyle.Render(status)}
	if p.input != nil {
		parts = append([]string{"Profile  " + p.input.View()}, parts...)
	}
	if p.err != "" {
		parts = append(parts, errorStyle.Render(p.err))
	}
	return strings.Join(parts, "\n")
}

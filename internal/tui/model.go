package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/wordcloud/internal/cloud"
	"github.com/csheth/wordcloud/internal/config"
	"github.com/csheth/wordcloud/internal/fetch"
	"github.com/csheth/wordcloud/internal/identity"
	"github.com/csheth/wordcloud/internal/route"
	"github.com/csheth/wordcloud/internal/wordfreq"
)

// Config wires the model to its collaborators. Only Router is needed;
// everything else has a working default.
type Config struct {
	Router   route.Router
	Analyzer Analyzer
	History  Recorder
	Remote   *fetch.Remote
	Settings *config.Config

	// Identity providers; nil leaves the matching panel disabled.
	GooglePlus identity.Provider
	Facebook   identity.Provider

	// Fetchers are registered after the built-in sources and replace them
	// for the types they declare.
	Fetchers []fetch.Fetcher
}

type model struct {
	app      *App
	settings *config.Config
	quitting bool
}

// New builds the application model. It starts in the loading state and
// evaluates the current route once the program runs.
func New(cfg Config) tea.Model {
	return newModel(cfg)
}

func newModel(cfg Config) *model {
	settings := cfg.Settings
	if settings == nil {
		settings = config.DefaultConfig()
	}
	router := cfg.Router
	if router == nil {
		router = route.NewHistory(route.Route{})
	}
	analyzer := cfg.Analyzer
	if analyzer == nil {
		analyzer = wordfreq.New(settings.MaxTerms)
	}

	renderer := cloud.TerminalRenderer{CellWidth: settings.CellWidth, CellHeight: settings.CellHeight}
	app := newApp(router, analyzer, renderer)
	app.saveDir = settings.SaveDir
	if cfg.History != nil {
		app.recorder = cfg.History
	}

	file := newFilePanel()
	for _, p := range []Panel{
		newExamplePanel(),
		newCPPanel(),
		file,
		newFeedPanel(settings.Feed.PanelTemplate),
		newWikipediaPanel(settings.Wikipedia.DefaultLang),
		newGooglePlusPanel(cfg.GooglePlus, app.startLogin),
		newFacebookPanel(cfg.Facebook, app.startLogin),
	} {
		app.dialog.addPanel(p)
	}

	remote := cfg.Remote
	for _, f := range []fetch.Fetcher{
		fetch.NewTextFetcher(),
		fetch.NewListFetcher(),
		fetch.NewFileFetcher(file),
		fetch.NewFeedFetcher(remote, settings.Feed.SearchTemplate),
		fetch.NewWikipediaFetcher(remote, settings.Wikipedia.APIURL, settings.Wikipedia.DefaultLang),
		fetch.NewGooglePlusFetcher(remote, settings.GooglePlus.APIURL, cfg.GooglePlus),
		fetch.NewFacebookFetcher(remote, settings.Facebook.GraphURL, cfg.Facebook),
	} {
		app.AddFetcher(f)
	}
	for _, f := range cfg.Fetchers {
		app.AddFetcher(f)
	}

	app.SwitchUIState(StateLoading)
	return &model{app: app, settings: settings}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		startCmd,
		waitForRoute(m.app.router.Changes()),
		m.app.loading.spinner.Tick,
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.app.Resize(msg.Width, msg.Height)
		return m, nil
	case startMsg:
		return m, m.app.Route()
	case routeChangedMsg:
		var cmd tea.Cmd
		// a later change is already queued when the router moved on
		if msg.route == m.app.router.Current() {
			cmd = m.app.Route()
		}
		return m, tea.Batch(cmd, waitForRoute(m.app.router.Changes()))
	case fetch.DataMsg:
		return m, m.app.HandleData(msg)
	case fetch.ListMsg:
		m.app.HandleListMsg(msg)
		return m, nil
	case fetch.RedirectMsg:
		m.app.HandleRedirect(msg)
		return m, nil
	case jobDoneMsg:
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case analysisResultMsg:
		m.app.HandleAnalysis(msg)
		return m, nil
	case saveResultMsg:
		m.app.HandleSave(msg)
		return m, nil
	case loginResultMsg:
		m.app.HandleLogin(msg)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.app.loading.spinner, cmd = m.app.loading.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "alt+left":
		m.app.router.Back()
		return m, nil
	case "alt+right":
		m.app.router.Forward()
		return m, nil
	}

	switch m.app.State() {
	case StateSourceSelection:
		return m, m.app.dialog.HandleKey(msg)
	case StateListEditor:
		return m, m.app.lists.HandleKey(msg)
	case StateDashboard, StateWorking, StateErrorWithDashboard:
		if msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
		if action, ok := dashboardKeys[msg.String()]; ok {
			return m, m.app.Perform(action)
		}
	}
	return m, nil
}

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	statusBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	disabledKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#56526e")).Strikethrough(true)
	currentLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	tabStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")).Padding(0, 1)
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	dialogBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2)
	errorBannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fff")).Background(lipgloss.Color("#b00020")).Padding(1, 2)
)

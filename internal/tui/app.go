package tui

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/csheth/wordcloud/internal/cloud"
	"github.com/csheth/wordcloud/internal/fetch"
	"github.com/csheth/wordcloud/internal/identity"
	"github.com/csheth/wordcloud/internal/logging"
	"github.com/csheth/wordcloud/internal/route"
	"github.com/csheth/wordcloud/internal/terms"
)

type cloudData struct {
	list         terms.List
	gridSize     int
	weightFactor float64
	theme        int
	seed         int64
}

type analysisJob struct {
	token string
	jobID string
}

// App is the controller. It owns the UI state, maps routes onto fetchers,
// turns fetched text into a term list and keeps the views in step. Every
// method runs on the update loop.
type App struct {
	router   route.Router
	analyzer Analyzer
	recorder Recorder
	jobs     *jobBus
	saveDir  string
	renderer cloud.TerminalRenderer

	views    []View
	byName   map[string]View
	fetchers map[string]fetch.Fetcher

	state    UIState
	current  fetch.Fetcher
	analysis analysisJob

	// backToReset is set when the last controller push left an empty route,
	// so going back to the dialog can pop history instead of stacking an
	// empty route on top of it.
	backToReset        bool
	pushedByController bool

	themes []cloud.Theme
	data   cloudData

	loading   *loadingView
	canvas    *canvasView
	dialog    *sourceDialogView
	dashboard *dashboardView
	lists     *listDialogView

	notice        string
	width, height int
}

func newApp(router route.Router, analyzer Analyzer, renderer cloud.TerminalRenderer) *App {
	a := &App{
		router:   router,
		analyzer: analyzer,
		jobs:     newJobBus(),
		renderer: renderer,
		byName:   map[string]View{},
		fetchers: map[string]fetch.Fetcher{},
		state:    StateLoading,
		themes:   cloud.DefaultThemes(),
		width:    80,
		height:   24,
	}
	a.loading = newLoadingView()
	a.canvas = newCanvasView(renderer)
	a.dialog = newSourceDialogView(a.PushRoute)
	a.dashboard = newDashboardView(a.statusText)
	a.lists = newListDialogView(func() terms.List { return a.data.list }, a.SubmitList, func() {
		a.SwitchUIState(StateDashboard)
	})
	for _, v := range []View{a.loading, a.canvas, a.dialog, a.dashboard, a.lists} {
		a.AddView(v)
	}
	return a
}

// AddView registers v. Views are shown and hidden in registration order.
func (a *App) AddView(v View) {
	if _, ok := a.byName[v.Name()]; !ok {
		a.views = append(a.views, v)
	}
	a.byName[v.Name()] = v
}

// AddFetcher registers f under each of its types, replacing any fetcher
// registered before for the same type.
func (a *App) AddFetcher(f fetch.Fetcher) {
	for _, t := range f.Types() {
		a.fetchers[t] = f
	}
}

func (a *App) State() UIState {
	return a.state
}

// SwitchUIState shows the views declared for next and hides every other
// registered view, passing both states to each.
func (a *App) SwitchUIState(next UIState) error {
	if _, ok := visibleViews[next]; !ok {
		return fmt.Errorf("undefined state %d", int(next))
	}
	prev := a.state
	for _, v := range a.views {
		if stateShows(next, v.Name()) {
			v.Show(prev, next)
		} else {
			v.Hide(prev, next)
		}
	}
	a.state = next
	logging.Debug("ui state", "from", prev, "to", next)
	return nil
}

// PushRoute navigates to r on behalf of the user.
func (a *App) PushRoute(r route.Route) {
	a.backToReset = a.router.Current().Empty()
	a.pushedByController = true
	a.router.Navigate(r)
}

// Reset returns to the empty route, popping history when the current route
// was pushed straight from it.
func (a *App) Reset() {
	if a.router.Current().Empty() {
		return
	}
	if a.backToReset && a.router.Back() {
		return
	}
	a.PushRoute(route.Route{})
}

// Route evaluates the current route. It always stops the fetcher and the
// analysis job that belong to the previous one first.
func (a *App) Route() tea.Cmd {
	r := a.router.Current()
	if a.backToReset && !a.pushedByController {
		a.backToReset = false
	}
	a.pushedByController = false
	a.stopWork()
	a.notice = ""

	if r.Empty() {
		a.SwitchUIState(StateSourceSelection)
		a.canvas.DrawIdle()
		return nil
	}

	fetcher, ok := a.fetchers[r.FetcherKey()]
	if !ok {
		logging.Info("unrecognized route, resetting", "route", r.String())
		a.Reset()
		return nil
	}

	a.SwitchUIState(StateWorking)
	a.current = fetcher
	a.loading.SetLabel(labelForVerb(fetcher.Verb()))
	logging.Debug("fetch started", "route", r.String())
	return tea.Batch(fetcher.Retrieve(r), a.recordHistory(r))
}

func (a *App) recordHistory(r route.Route) tea.Cmd {
	if a.recorder == nil {
		return nil
	}
	_, cmd := a.jobs.Start(jobKindHistory, recordHistoryJob(a.recorder, r))
	return cmd
}

func (a *App) stopWork() {
	if a.current != nil {
		a.current.Cancel()
		a.current = nil
	}
	if a.analysis.token != "" {
		a.jobs.Cancel(a.analysis.jobID)
		a.analysis = analysisJob{}
	}
}

// settle accepts a fetch result only for the request in flight.
func (a *App) settle(requestID string) bool {
	if a.current == nil || !a.current.Settle(requestID) {
		logging.Debug("dropping stale fetch result", "request", requestID)
		return false
	}
	a.current = nil
	return true
}

// HandleData takes fetched text. Empty or failed text ends in the error
// state; anything else goes to the analyzer.
func (a *App) HandleData(msg fetch.DataMsg) tea.Cmd {
	if !a.settle(msg.RequestID) {
		return nil
	}
	text := msg.Text
	if msg.Err != nil {
		logging.Warn("fetch failed", "err", msg.Err)
		text = ""
	}
	if len(text) == 0 {
		a.SwitchUIState(StateErrorWithDashboard)
		a.loading.SetLabel(labelNoData)
		return nil
	}

	a.loading.SetLabel(labelAnalyzing)
	token := uuid.NewString()
	id, cmd := a.jobs.Start(jobKindAnalyze, analyzeJob(a.analyzer, token, text))
	a.analysis = analysisJob{token: token, jobID: id}
	return cmd
}

// HandleListMsg takes a list that needs no analysis.
func (a *App) HandleListMsg(msg fetch.ListMsg) {
	if !a.settle(msg.RequestID) {
		return
	}
	a.HandleList(msg.List, msg.Volume)
}

func (a *App) HandleAnalysis(msg analysisResultMsg) {
	if msg.token == "" || msg.token != a.analysis.token {
		logging.Debug("dropping stale analysis")
		return
	}
	a.analysis = analysisJob{}
	if msg.err != nil {
		logging.Warn("analysis failed", "err", msg.err)
		msg.list = nil
	}
	a.HandleList(msg.list, msg.volume)
}

// HandleList shows the dashboard with a fresh list, or the error state when
// the list is empty.
func (a *App) HandleList(list terms.List, volume float64) {
	if len(list) == 0 {
		a.SwitchUIState(StateErrorWithDashboard)
		a.loading.SetLabel(labelNoListOutput)
		return
	}
	a.SwitchUIState(StateDashboard)
	a.data.list = list
	a.data.gridSize = defaultGridSize
	a.CalculateWeightFactor(volume)
	a.Draw()
}

// HandleRedirect resets the route and opens the panel a source asked for.
func (a *App) HandleRedirect(msg fetch.RedirectMsg) {
	if !a.settle(msg.RequestID) {
		return
	}
	logging.Info("source redirected to its panel", "panel", msg.Panel, "err", msg.Err)
	a.Reset()
	if !a.dialog.ShowPanel(msg.Panel) {
		logging.Warn("redirect to unavailable panel", "panel", msg.Panel)
	}
}

// CalculateWeightFactor sizes the cloud so its volume fills the canvas.
func (a *App) CalculateWeightFactor(volume float64) {
	if volume <= 0 {
		volume = 1
	}
	w, h := a.canvasPixels()
	a.data.weightFactor = math.Sqrt(float64(w) * float64(h) / volume)
}

// CloudOption merges the list data with the current theme.
func (a *App) CloudOption() cloud.Config {
	cfg := cloud.Config{
		List:         a.data.list,
		GridSize:     a.data.gridSize,
		WeightFactor: a.data.weightFactor,
		RotateRatio:  cloud.DefaultRotateRatio,
		Seed:         a.data.seed,
	}
	return cfg.WithTheme(a.themes[a.data.theme])
}

// Draw lays the cloud out again. Each draw uses a new seed.
func (a *App) Draw() {
	a.data.seed++
	a.canvas.Draw(a.CloudOption())
}

// Perform runs a dashboard action if it is enabled.
func (a *App) Perform(action string) tea.Cmd {
	if !a.dashboard.Visible() || !a.dashboard.Enabled(action) {
		return nil
	}
	switch action {
	case actionBack:
		a.Reset()
	case actionRefresh:
		a.Draw()
	case actionTheme:
		a.NextTheme()
	case actionEdit:
		a.EditList()
	case actionSizeUp:
		a.AdjustWeight(weightStep)
	case actionSizeDown:
		a.AdjustWeight(-weightStep)
	case actionGapUp:
		a.AdjustGap(gapStep)
	case actionGapDown:
		a.AdjustGap(-gapStep)
	case actionSave:
		return a.SaveImage()
	}
	return nil
}

// AdjustWeight changes the weight factor by delta. Shrinking is refused
// once the factor is at or below the floor.
func (a *App) AdjustWeight(delta float64) bool {
	if delta < 0 && a.data.weightFactor <= minWeightFactor {
		return false
	}
	a.data.weightFactor += delta
	a.Draw()
	return true
}

// AdjustGap changes the grid size by delta, never going below the minimum.
func (a *App) AdjustGap(delta int) bool {
	if delta < 0 && a.data.gridSize <= minGridSize {
		return false
	}
	a.data.gridSize += delta
	a.Draw()
	return true
}

func (a *App) NextTheme() {
	a.data.theme = (a.data.theme + 1) % len(a.themes)
	a.Draw()
}

func (a *App) EditList() {
	a.SwitchUIState(StateListEditor)
}

// SubmitList routes the edited list. An edit that leaves the serialized
// list as it was, or encodes to the current route, only closes the editor.
func (a *App) SubmitList(text string) {
	r := route.Route{Token: "base64-list", Payload: terms.EncodeBase64(text)}
	if text == a.data.list.Serialize() || r == a.router.Current() {
		a.SwitchUIState(StateDashboard)
		return
	}
	a.PushRoute(r)
}

// SaveImage exports the cloud as a PNG at least minExportWidth pixels wide,
// scaling sizes and gaps with the surface.
func (a *App) SaveImage() tea.Cmd {
	cfg := a.CloudOption()
	w, h := a.canvasPixels()
	scale := 1.0
	if w < minExportWidth {
		scale = float64(minExportWidth) / float64(w)
	}
	cfg.WeightFactor *= scale
	cfg.GridSize = int(math.Round(float64(cfg.GridSize) * scale))
	width := int(math.Round(float64(w) * scale))
	height := int(math.Round(float64(h) * scale))
	_, cmd := a.jobs.Start(jobKindSave, saveImageJob(a.saveDir, cfg, width, height))
	a.notice = "Saving image…"
	return cmd
}

func (a *App) HandleSave(msg saveResultMsg) {
	if msg.err != nil {
		logging.Warn("save failed", "err", msg.err)
		a.notice = saveInstructions
		return
	}
	logging.Info("image saved", "path", msg.path)
	a.notice = "Saved " + msg.path
}

func (a *App) startLogin(panel string, provider identity.Provider) tea.Cmd {
	_, cmd := a.jobs.Start(jobKindLogin, loginJob(panel, provider))
	return cmd
}

// HandleLogin finishes a submit that was waiting on a login.
func (a *App) HandleLogin(msg loginResultMsg) {
	p, ok := a.dialog.panel(msg.panel).(*identityPanel)
	if !ok {
		return
	}
	if msg.err != nil {
		logging.Warn("login failed", "panel", msg.panel, "err", msg.err)
	}
	p.loggedIn(msg.err)
}

// Resize records the terminal size. A cloud on screen is laid out again
// for the new surface.
func (a *App) Resize(width, height int) {
	a.width, a.height = width, height
	if a.state == StateDashboard || a.state == StateListEditor {
		a.canvas.Draw(a.CloudOption())
	}
}

func (a *App) bodyHeight() int {
	if a.height <= 1 {
		return 1
	}
	return a.height - 1
}

func (a *App) canvasPixels() (int, int) {
	w, h := a.renderer.PixelSize(a.width, a.bodyHeight())
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

func (a *App) statusText() string {
	if a.notice != "" {
		return a.notice
	}
	return a.router.Current().String()
}

package tui

import (
	"context"
	"fmt"

	"github.com/csheth/wordcloud/internal/route"
	"github.com/csheth/wordcloud/internal/terms"
)

// UIState is the single active application state.
type UIState int

const (
	StateLoading UIState = iota
	StateSourceSelection
	StateWorking
	StateDashboard
	StateListEditor
	StateErrorWithDashboard
)

func (s UIState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSourceSelection:
		return "source-selection"
	case StateWorking:
		return "working"
	case StateDashboard:
		return "dashboard"
	case StateListEditor:
		return "list-editor"
	case StateErrorWithDashboard:
		return "error-with-dashboard"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	viewLoading      = "loading"
	viewCanvas       = "canvas"
	viewSourceDialog = "source-dialog"
	viewDashboard    = "dashboard"
	viewListDialog   = "list-dialog"
)

// visibleViews is the static set of views shown in each state. Registered
// views missing from a state's set are hidden on entry.
var visibleViews = map[UIState][]string{
	StateLoading:            {viewLoading},
	StateSourceSelection:    {viewCanvas, viewSourceDialog},
	StateWorking:            {viewLoading, viewDashboard},
	StateDashboard:          {viewCanvas, viewDashboard},
	StateListEditor:         {viewCanvas, viewDashboard, viewListDialog},
	StateErrorWithDashboard: {viewLoading, viewDashboard},
}

func stateShows(state UIState, name string) bool {
	for _, candidate := range visibleViews[state] {
		if candidate == name {
			return true
		}
	}
	return false
}

// Loading label ids.
const (
	labelDownloading  = "downloading"
	labelLoading      = "loading"
	labelAnalyzing    = "analyzing"
	labelNoData       = "no_data"
	labelNoListOutput = "no_list_output"
)

var loadingLabels = map[string]string{
	labelDownloading:  "Downloading…",
	labelLoading:      "Loading…",
	labelAnalyzing:    "Analyzing…",
	labelNoData:       "We couldn't get any text out of this source. Press b to pick another one.",
	labelNoListOutput: "The text was read but no words were left to draw. Press b to try another source.",
}

const (
	defaultGridSize  = 4
	minGridSize      = 2
	weightStep       = 0.1
	gapStep          = 1
	minWeightFactor  = 0.1
	minExportWidth   = 1024
	saveInstructions = "Saving failed. Check save_dir in your config, or take a screenshot of the terminal."
)

// Analyzer turns raw text into a weighted term list and its volume.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (terms.List, float64, error)
}

// Recorder persists the routes that resolved to a source.
type Recorder interface {
	Record(ctx context.Context, r route.Route) error
}

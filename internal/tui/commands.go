package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/wordcloud/internal/cloud"
	"github.com/csheth/wordcloud/internal/identity"
	"github.com/csheth/wordcloud/internal/route"
	"github.com/csheth/wordcloud/internal/terms"
)

type startMsg struct{}

type routeChangedMsg struct {
	route route.Route
}

type analysisResultMsg struct {
	token  string
	list   terms.List
	volume float64
	err    error
}

type saveResultMsg struct {
	path string
	err  error
}

type loginResultMsg struct {
	panel string
	err   error
}

func startCmd() tea.Msg {
	return startMsg{}
}

// waitForRoute blocks on the router and re-enters Update with the change.
// The model subscribes again after every change.
func waitForRoute(changes <-chan route.Route) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-changes
		if !ok {
			return nil
		}
		return routeChangedMsg{route: r}
	}
}

func analyzeJob(analyzer Analyzer, token, text string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		list, volume, err := analyzer.Analyze(ctx, text)
		return analysisResultMsg{token: token, list: list, volume: volume, err: err}, err
	}
}

func saveImageJob(dir string, cfg cloud.Config, width, height int) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		path, err := cloud.SavePNG(dir, cfg, width, height)
		if err != nil {
			err = fmt.Errorf("save image: %w", err)
		}
		return saveResultMsg{path: path, err: err}, err
	}
}

func loginJob(panel string, provider identity.Provider) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
		defer cancel()
		err := provider.Login(ctx)
		return loginResultMsg{panel: panel, err: err}, err
	}
}

func recordHistoryJob(recorder Recorder, r route.Route) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 5*time.Second)
		defer cancel()
		return nil, recorder.Record(ctx, r)
	}
}

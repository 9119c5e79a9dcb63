// Package fetch implements the data sources behind route tokens. Every
// fetcher answers Retrieve with a command that yields exactly one message,
// and every message carries the request id it answers so the controller can
// discard anything a newer request has superseded.
package fetch

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/csheth/wordcloud/internal/route"
	"github.com/csheth/wordcloud/internal/terms"
)

// Verb selects the loading label shown while a fetcher works.
type Verb int

const (
	VerbLoading Verb = iota
	VerbDownloading
)

var (
	ErrNoFile          = errors.New("no file selected")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrNotReady        = errors.New("identity not ready")
)

// Fetcher is the contract shared by every source. Retrieve must not block;
// Cancel must be safe at any time. Settle accepts a result for the current
// request exactly once.
type Fetcher interface {
	Types() []string
	Verb() Verb
	Retrieve(r route.Route) tea.Cmd
	Cancel()
	Settle(requestID string) bool
}

// DataMsg carries raw text. Empty text means the source produced nothing.
type DataMsg struct {
	RequestID string
	Text      string
	Err       error
}

// ListMsg carries a precomputed term list.
type ListMsg struct {
	RequestID string
	List      terms.List
	Volume    float64
}

// RedirectMsg asks the controller to reset the route and show Panel.
type RedirectMsg struct {
	RequestID string
	Panel     string
	Err       error
}

// tracker fingerprints the in-flight request. It is only touched from the
// update loop; commands see the context and id they were started with.
type tracker struct {
	request string
	cancel  context.CancelFunc
}

func (t *tracker) begin() (context.Context, string) {
	t.Cancel()
	ctx, cancel := context.WithCancel(context.Background())
	t.request = uuid.NewString()
	t.cancel = cancel
	return ctx, t.request
}

// Cancel drops the current request. Calling it with nothing in flight is a no-op.
func (t *tracker) Cancel() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.request = ""
}

// Settle reports whether id is the current request and retires it.
func (t *tracker) Settle(id string) bool {
	if id == "" || id != t.request {
		return false
	}
	t.request = ""
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	return true
}

// deliver wraps an already computed message in the asynchronous contract.
func deliver(ctx context.Context, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		if ctx.Err() != nil {
			return nil
		}
		return msg
	}
}

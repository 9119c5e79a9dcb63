package tui

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/wordcloud/internal/logging"
)

type jobKind string

const (
	jobKindAnalyze jobKind = "analyze"
	jobKindSave    jobKind = "save"
	jobKindLogin   jobKind = "login"
	jobKindHistory jobKind = "history"
)

type jobStatus string

const (
	jobSucceeded jobStatus = "succeeded"
	jobFailed    jobStatus = "failed"
	jobCanceled  jobStatus = "canceled"
)

type jobRunner func(context.Context) (tea.Msg, error)

// jobDoneMsg wraps what a runner returned. Payload is nil once the job was
// canceled, whatever the runner produced.
type jobDoneMsg struct {
	ID      string
	Kind    jobKind
	Status  jobStatus
	Elapsed time.Duration
	Payload tea.Msg
}

// jobBus runs work off the update loop, each job under its own context.
type jobBus struct {
	seq atomic.Int64

	mu   sync.Mutex
	live map[string]context.CancelFunc
}

func newJobBus() *jobBus {
	return &jobBus{live: map[string]context.CancelFunc{}}
}

// Start registers a job and returns its id with the command that runs it.
func (b *jobBus) Start(kind jobKind, runner jobRunner) (string, tea.Cmd) {
	id := fmt.Sprintf("%s-%d", kind, b.seq.Add(1))
	ctx, cancel := context.WithCancel(context.Background())
	b.mu.Lock()
	b.live[id] = cancel
	b.mu.Unlock()

	return id, func() tea.Msg {
		defer b.Cancel(id)
		started := time.Now()
		payload, err := runner(ctx)
		done := jobDoneMsg{ID: id, Kind: kind, Status: jobSucceeded, Elapsed: time.Since(started), Payload: payload}
		switch {
		case ctx.Err() != nil:
			done.Status = jobCanceled
			done.Payload = nil
		case err != nil:
			done.Status = jobFailed
		}
		logging.Debug("job finished", "id", id, "status", done.Status, "elapsed", done.Elapsed, "err", err)
		return done
	}
}

// Cancel stops job id. Unknown and finished ids are ignored.
func (b *jobBus) Cancel(id string) {
	b.mu.Lock()
	cancel, ok := b.live[id]
	delete(b.live, id)
	b.mu.Unlock()
	if ok {
		cancel()
	}
}

// Running reports how many jobs have not finished.
func (b *jobBus) Running() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

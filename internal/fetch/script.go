package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/csheth/wordcloud/internal/logging"
)

// CallbackPrefix starts every generated callback name.
const CallbackPrefix = "JSONPCallbackX"

var (
	errCallbackGone = errors.New("callback no longer registered")
	callbackWrapper = regexp.MustCompile(`(?s)^\s*(?:/\*\*/\s*)?([A-Za-z_$][\w$.]*)\s*\((.*)\)\s*;?\s*$`)
)

// scriptLoader loads callback-wrapped JSON ("name({...})"). Each request gets
// a fresh callback name registered in the loader's own table; the entry is
// removed whether the load completes or fails, and a reply whose callback is
// no longer registered is dropped.
type scriptLoader struct {
	remote   *Remote
	useCache bool

	mu      sync.Mutex
	pending map[string]string
}

func newScriptLoader(remote *Remote, useCache bool) *scriptLoader {
	return &scriptLoader{remote: remote, useCache: useCache, pending: map[string]string{}}
}

func (l *scriptLoader) register(requestID string) string {
	name := CallbackPrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	l.mu.Lock()
	l.pending[name] = requestID
	l.mu.Unlock()
	return name
}

func (l *scriptLoader) release(name string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	owner, ok := l.pending[name]
	delete(l.pending, name)
	return owner, ok
}

func (l *scriptLoader) reset() {
	l.mu.Lock()
	l.pending = map[string]string{}
	l.mu.Unlock()
}

func (l *scriptLoader) registered() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// load fetches rawURL with the callback parameter appended and returns the
// unwrapped JSON payload.
func (l *scriptLoader) load(ctx context.Context, requestID, rawURL string) (json.RawMessage, error) {
	name := l.register(requestID)
	payload, err := l.fetch(ctx, name, rawURL)
	owner, ok := l.release(name)
	if err != nil {
		return nil, err
	}
	if !ok || owner != requestID {
		return nil, errCallbackGone
	}
	return payload, nil
}

func (l *scriptLoader) fetch(ctx context.Context, name, rawURL string) (json.RawMessage, error) {
	target := withCallback(rawURL, name)
	decode := func(body []byte) ([]byte, error) {
		return unwrapCallback(body, name)
	}
	if l.useCache && l.remote != nil && l.remote.cache != nil {
		if err := l.remote.wait(ctx); err != nil {
			return nil, err
		}
		return l.remote.cache.Fetch(ctx, rawURL, target, decode)
	}
	body, err := l.remote.get(ctx, l.remote.client(), target)
	if err != nil {
		return nil, err
	}
	return decode(body)
}

func withCallback(rawURL, name string) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + "callback=" + name
}

func unwrapCallback(body []byte, name string) ([]byte, error) {
	matches := callbackWrapper.FindSubmatch(body)
	if matches == nil {
		return nil, fmt.Errorf("response is not wrapped in a callback")
	}
	if string(matches[1]) != name {
		return nil, fmt.Errorf("unexpected callback %q", matches[1])
	}
	payload := matches[2]
	if !json.Valid(payload) {
		return nil, fmt.Errorf("callback payload is not valid JSON")
	}
	return payload, nil
}

// scriptFetcher is the shared base of the callback-JSON sources.
type scriptFetcher struct {
	tracker
	loader *scriptLoader
	name   string
}

func (f *scriptFetcher) Verb() Verb { return VerbDownloading }

// Cancel also forgets every registered callback so late replies are dropped.
func (f *scriptFetcher) Cancel() {
	f.tracker.Cancel()
	f.loader.reset()
}

func (f *scriptFetcher) start() (context.Context, string) {
	f.loader.reset()
	return f.begin()
}

// request loads target and hands the payload to extract. Failures resolve to
// empty text; a dropped callback resolves to no message at all.
func (f *scriptFetcher) request(ctx context.Context, id, target string, extract func(json.RawMessage) (string, error)) tea.Cmd {
	return func() tea.Msg {
		payload, err := f.loader.load(ctx, id, target)
		if ctx.Err() != nil || errors.Is(err, errCallbackGone) {
			logging.Debug("script load dropped", "source", f.name, "request", id)
			return nil
		}
		if err != nil {
			logging.Warn("script load failed", "source", f.name, "err", err)
			return DataMsg{RequestID: id, Err: err}
		}
		text, err := extract(payload)
		return DataMsg{RequestID: id, Text: text, Err: err}
	}
}

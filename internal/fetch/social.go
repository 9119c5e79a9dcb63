package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/wordcloud/internal/identity"
	"github.com/csheth/wordcloud/internal/logging"
	"github.com/csheth/wordcloud/internal/route"
	"github.com/csheth/wordcloud/internal/terms"
)

const (
	GooglePlusPanel = "googleplus"
	FacebookPanel   = "facebook"

	facebookGraphFields = "notes.limit(500).fields(subject,message)," +
		"feed.limit(2500).fields(from.fields(id),message)"
)

// GooglePlusFetcher loads public activities of a profile. It needs a ready
// identity provider and otherwise sends the user back to its panel.
type GooglePlusFetcher struct {
	scriptFetcher
	apiURL   string
	provider identity.Provider
}

func NewGooglePlusFetcher(remote *Remote, apiURL string, provider identity.Provider) *GooglePlusFetcher {
	return &GooglePlusFetcher{
		scriptFetcher: scriptFetcher{loader: newScriptLoader(remote, false), name: "googleplus"},
		apiURL:        apiURL,
		provider:      provider,
	}
}

func (f *GooglePlusFetcher) Types() []string { return []string{"googleplus"} }

func (f *GooglePlusFetcher) Retrieve(r route.Route) tea.Cmd {
	ctx, id := f.start()
	if f.provider == nil || !f.provider.Ready() {
		return deliver(ctx, RedirectMsg{RequestID: id, Panel: GooglePlusPanel, Err: ErrNotReady})
	}
	params := url.Values{}
	params.Set("maxResults", "100")
	params.Set("alt", "json")
	params.Set("pp", "1")
	params.Set("access_token", f.provider.AccessToken())
	target := strings.Replace(f.apiURL, "%source", url.PathEscape(r.Payload), 1) + "?" + params.Encode()
	return f.request(ctx, id, target, extractGooglePlus)
}

type googlePlusResponse struct {
	Error json.RawMessage `json:"error"`
	Items []struct {
		Object struct {
			Content string `json:"content"`
		} `json:"object"`
	} `json:"items"`
}

func extractGooglePlus(payload json.RawMessage) (string, error) {
	var res googlePlusResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		return "", fmt.Errorf("failed to decode activities: %w", err)
	}
	if present(res.Error) || res.Items == nil {
		return "", nil
	}
	var builder strings.Builder
	for _, item := range res.Items {
		builder.WriteString(terms.Clean(item.Object.Content))
	}
	return builder.String(), nil
}

// FacebookFetcher reads notes and the user's own wall posts through the
// Graph API with the provider's authorized client.
type FacebookFetcher struct {
	tracker
	remote   *Remote
	graphURL string
	provider identity.Provider
}

func NewFacebookFetcher(remote *Remote, graphURL string, provider identity.Provider) *FacebookFetcher {
	return &FacebookFetcher{remote: remote, graphURL: strings.TrimRight(graphURL, "/"), provider: provider}
}

func (f *FacebookFetcher) Types() []string { return []string{"facebook"} }

func (f *FacebookFetcher) Verb() Verb { return VerbDownloading }

func (f *FacebookFetcher) Retrieve(r route.Route) tea.Cmd {
	ctx, id := f.begin()
	if f.provider == nil || !f.provider.Ready() {
		return deliver(ctx, RedirectMsg{RequestID: id, Panel: FacebookPanel, Err: ErrNotReady})
	}
	target := f.graphURL + "/" + url.PathEscape(r.Payload) + "?fields=" + facebookGraphFields
	provider := f.provider
	return func() tea.Msg {
		text, err := f.load(ctx, provider, target)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			logging.Warn("graph request failed", "err", err)
		}
		return DataMsg{RequestID: id, Text: text, Err: err}
	}
}

func (f *FacebookFetcher) load(ctx context.Context, provider identity.Provider, target string) (string, error) {
	body, err := f.remote.get(ctx, provider.Client(ctx), target)
	if err != nil {
		return "", err
	}
	return extractFacebook(body)
}

type graphResponse struct {
	ID    string          `json:"id"`
	Error json.RawMessage `json:"error"`
	Notes *struct {
		Data []struct {
			Subject string `json:"subject"`
			Message string `json:"message"`
		} `json:"data"`
	} `json:"notes"`
	Feed *struct {
		Data []struct {
			From struct {
				ID string `json:"id"`
			} `json:"from"`
			Message string `json:"message"`
		} `json:"data"`
	} `json:"feed"`
}

func extractFacebook(body []byte) (string, error) {
	var res graphResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("failed to decode graph response: %w", err)
	}
	if present(res.Error) {
		return "", nil
	}
	var lines []string
	if res.Notes != nil {
		for _, note := range res.Notes.Data {
			if note.Subject != "" {
				lines = append(lines, note.Subject)
			}
			if note.Message != "" {
				lines = append(lines, terms.Clean(note.Message))
			}
		}
	}
	if res.Feed != nil {
		for _, entry := range res.Feed.Data {
			// wall posts written by others are skipped
			if entry.From.ID != res.ID {
				continue
			}
			if entry.Message != "" {
				lines = append(lines, entry.Message)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

func present(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null"
}

package fetch

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/gofeed"

	"github.com/csheth/wordcloud/internal/logging"
	"github.com/csheth/wordcloud/internal/route"
	"github.com/csheth/wordcloud/internal/terms"
)

// FeedFetcher reads RSS, Atom or JSON feeds. A payload that is not an
// http(s) URL is treated as a search query and expanded through the search
// template.
type FeedFetcher struct {
	tracker
	remote         *Remote
	searchTemplate string
}

func NewFeedFetcher(remote *Remote, searchTemplate string) *FeedFetcher {
	return &FeedFetcher{remote: remote, searchTemplate: searchTemplate}
}

func (f *FeedFetcher) Types() []string { return []string{"rss", "feed"} }

func (f *FeedFetcher) Verb() Verb { return VerbDownloading }

func (f *FeedFetcher) Retrieve(r route.Route) tea.Cmd {
	ctx, id := f.begin()
	target := f.resolve(r.Payload)
	if target == "" {
		return deliver(ctx, DataMsg{RequestID: id})
	}
	return func() tea.Msg {
		text, err := f.load(ctx, target)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			logging.Warn("feed request failed", "url", target, "err", err)
		}
		return DataMsg{RequestID: id, Text: text, Err: err}
	}
}

func (f *FeedFetcher) resolve(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	lower := strings.ToLower(query)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return query
	}
	if f.searchTemplate == "" {
		return ""
	}
	return strings.ReplaceAll(f.searchTemplate, "%s", url.QueryEscape(query))
}

func (f *FeedFetcher) load(ctx context.Context, target string) (string, error) {
	body, err := f.remote.get(ctx, f.remote.client(), target)
	if err != nil {
		return "", err
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	var lines []string
	for _, item := range feed.Items {
		content := item.Content
		if content == "" {
			content = item.Description
		}
		lines = append(lines, item.Title, terms.Clean(content), "")
	}
	return strings.Join(lines, "\n"), nil
}

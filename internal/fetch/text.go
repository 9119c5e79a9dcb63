package fetch

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/wordcloud/internal/route"
	"github.com/csheth/wordcloud/internal/terms"
)

// TextFetcher serves "text" and "base64" routes straight from the payload.
type TextFetcher struct {
	tracker
}

func NewTextFetcher() *TextFetcher {
	return &TextFetcher{}
}

func (f *TextFetcher) Types() []string { return []string{"text", "base64"} }

func (f *TextFetcher) Verb() Verb { return VerbLoading }

func (f *TextFetcher) Retrieve(r route.Route) tea.Cmd {
	ctx, id := f.begin()
	text := r.Payload
	var err error
	if r.FetcherKey() == "base64" {
		text, err = terms.DecodeBase64(r.Payload)
	}
	return deliver(ctx, DataMsg{RequestID: id, Text: text, Err: err})
}

// ListFetcher serves "list" and "base64-list" routes, skipping analysis.
type ListFetcher struct {
	tracker
}

func NewListFetcher() *ListFetcher {
	return &ListFetcher{}
}

func (f *ListFetcher) Types() []string { return []string{"list", "base64-list"} }

func (f *ListFetcher) Verb() Verb { return VerbLoading }

func (f *ListFetcher) Retrieve(r route.Route) tea.Cmd {
	ctx, id := f.begin()
	text := r.Payload
	if r.FetcherKey() == "base64-list" {
		decoded, err := terms.DecodeBase64(r.Payload)
		if err != nil {
			decoded = ""
		}
		text = decoded
	}
	list, volume := terms.ParseList(text)
	return deliver(ctx, ListMsg{RequestID: id, List: list, Volume: volume})
}

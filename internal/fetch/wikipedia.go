package fetch

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/wordcloud/internal/route"
	"github.com/csheth/wordcloud/internal/terms"
)

const defaultWikipediaLang = "en"

// WikipediaFetcher loads the parsed wikitext of one article. The route token
// carries the language and an optional title-conversion variant:
// "wikipedia.zh.zh-tw:<title>".
type WikipediaFetcher struct {
	scriptFetcher
	apiURL      string
	defaultLang string
}

func NewWikipediaFetcher(remote *Remote, apiURL, defaultLang string) *WikipediaFetcher {
	if defaultLang == "" {
		defaultLang = defaultWikipediaLang
	}
	return &WikipediaFetcher{
		scriptFetcher: scriptFetcher{loader: newScriptLoader(remote, true), name: "wikipedia"},
		apiURL:        apiURL,
		defaultLang:   defaultLang,
	}
}

func (f *WikipediaFetcher) Types() []string { return []string{"wiki", "wikipedia"} }

func (f *WikipediaFetcher) Retrieve(r route.Route) tea.Cmd {
	ctx, id := f.start()
	return f.request(ctx, id, f.articleURL(r), extractWikipedia)
}

func (f *WikipediaFetcher) articleURL(r route.Route) string {
	lang := r.Variant(0)
	if lang == "" {
		lang = f.defaultLang
	}
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "revisions")
	params.Set("rvprop", "content")
	params.Set("redirects", "1")
	params.Set("format", "json")
	params.Set("rvparse", "1")
	if variant := r.Variant(1); variant != "" {
		params.Set("converttitles", variant)
	}
	params.Set("titles", r.Payload)
	return strings.Replace(f.apiURL, "%lang", lang, 1) + "?" + params.Encode()
}

type wikipediaResponse struct {
	Query struct {
		Pages map[string]struct {
			Revisions []map[string]string `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
}

func extractWikipedia(payload json.RawMessage) (string, error) {
	var res wikipediaResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		return "", fmt.Errorf("failed to decode wikipedia response: %w", err)
	}
	if len(res.Query.Pages) == 0 {
		return "", nil
	}
	ids := make([]string, 0, len(res.Query.Pages))
	for id := range res.Query.Pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	page := res.Query.Pages[ids[0]]
	if len(page.Revisions) == 0 {
		return "", nil
	}
	return terms.Clean(page.Revisions[0]["*"]), nil
}

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/csheth/wordcloud/internal/identity"
	"github.com/csheth/wordcloud/internal/route"
)

func newTestRemote(t *testing.T) *Remote {
	t.Helper()
	return NewRemote(5*time.Second, 1000, t.TempDir())
}

// wrap answers like a callback-JSON endpoint.
func wrap(w http.ResponseWriter, r *http.Request, payload string) {
	w.Header().Set("Content-Type", "text/javascript")
	fmt.Fprintf(w, "/**/%s(%s);", r.URL.Query().Get("callback"), payload)
}

func TestUnwrapCallback(t *testing.T) {
	cases := []struct {
		body    string
		want    string
		wantErr bool
	}{
		{body: `cb({"a":1})`, want: `{"a":1}`},
		{body: "/**/ cb( [1,2] );\n", want: ` [1,2] `},
		{body: `other({"a":1})`, wantErr: true},
		{body: `cb({"a":)`, wantErr: true},
		{body: `{"a":1}`, wantErr: true},
	}
	for _, tc := range cases {
		got, err := unwrapCallback([]byte(tc.body), "cb")
		if (err != nil) != tc.wantErr {
			t.Fatalf("%q: err = %v", tc.body, err)
		}
		if !tc.wantErr && string(got) != tc.want {
			t.Fatalf("%q: got %q", tc.body, got)
		}
	}
}

func TestWikipediaFetcherLoadsArticle(t *testing.T) {
	var query atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query.Store(r.URL.Query())
		wrap(w, r, `{"query":{"pages":{"42":{"revisions":[{"*":"<p>Cloud &amp; <b>rain</b></p>"}]}}}}`)
	}))
	defer srv.Close()

	f := NewWikipediaFetcher(newTestRemote(t), srv.URL+"/%lang/w/api.php", "en")
	msg := run(t, f.Retrieve(route.Parse("#wikipedia.zh.zh-tw:雲")))
	data, ok := msg.(DataMsg)
	if !ok || data.Err != nil {
		t.Fatalf("unexpected message %#v", msg)
	}
	if data.Text != "Cloud  rain" {
		t.Fatalf("text = %q", data.Text)
	}
	params := query.Load().(url.Values)
	if got := params["titles"]; len(got) != 1 || got[0] != "雲" {
		t.Fatalf("titles = %v", got)
	}
	if got := params["converttitles"]; len(got) != 1 || got[0] != "zh-tw" {
		t.Fatalf("converttitles = %v", got)
	}
	if cb := params["callback"]; len(cb) != 1 || !strings.HasPrefix(cb[0], CallbackPrefix) {
		t.Fatalf("callback = %v", cb)
	}
	if n := f.loader.registered(); n != 0 {
		t.Fatalf("callback table should be empty after load, has %d", n)
	}
}

func TestWikipediaFetcherUsesLanguageInHost(t *testing.T) {
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		wrap(w, r, `{"query":{"pages":{"-1":{}}}}`)
	}))
	defer srv.Close()

	f := NewWikipediaFetcher(newTestRemote(t), srv.URL+"/%lang/api", "de")
	msg := run(t, f.Retrieve(route.Parse("#wikipedia:Nothing")))
	data := msg.(DataMsg)
	if data.Text != "" || data.Err != nil {
		t.Fatalf("missing revisions should yield empty text, got %#v", data)
	}
	if got := path.Load().(string); got != "/de/api" {
		t.Fatalf("path = %q", got)
	}
}

func TestWikipediaFetcherReleasesCallbackOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewWikipediaFetcher(newTestRemote(t), srv.URL+"/%lang", "en")
	msg := run(t, f.Retrieve(route.Parse("#wikipedia:Cloud")))
	data, ok := msg.(DataMsg)
	if !ok || data.Err == nil || data.Text != "" {
		t.Fatalf("expected failed DataMsg, got %#v", msg)
	}
	if n := f.loader.registered(); n != 0 {
		t.Fatalf("callback table should be empty after failure, has %d", n)
	}
}

func TestScriptFetcherDropsCancelledRequest(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		wrap(w, r, `{"query":{"pages":{"1":{"revisions":[{"*":"late"}]}}}}`)
	}))
	defer srv.Close()
	defer once.Do(func() { close(release) })

	f := NewWikipediaFetcher(newTestRemote(t), srv.URL+"/%lang", "en")
	cmd := f.Retrieve(route.Parse("#wikipedia:Cloud"))
	done := make(chan any, 1)
	go func() { done <- cmd() }()

	f.Cancel()
	once.Do(func() { close(release) })
	select {
	case msg := <-done:
		if msg != nil {
			t.Fatalf("cancelled request produced %#v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("cancelled request did not finish")
	}
}

func TestResponseCacheReusesFreshEntry(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		wrap(w, r, `{"query":{"pages":{"1":{"revisions":[{"*":"cached words"}]}}}}`)
	}))
	defer srv.Close()

	f := NewWikipediaFetcher(newTestRemote(t), srv.URL+"/%lang", "en")
	for i := 0; i < 2; i++ {
		data := run(t, f.Retrieve(route.Parse("#wikipedia:Cloud"))).(DataMsg)
		if data.Text != "cached words" {
			t.Fatalf("attempt %d: text = %q", i, data.Text)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected a single request, got %d", got)
	}
}

func TestResponseCacheRevalidatesStaleEntry(t *testing.T) {
	var hits, conditional int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			atomic.AddInt32(&conditional, 1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		fmt.Fprint(w, `cb({"n":1})`)
	}))
	defer srv.Close()

	cache, err := newResponseCache(t.TempDir(), srv.Client())
	if err != nil {
		t.Fatalf("newResponseCache: %v", err)
	}
	cache.ttl = 0
	decode := func(body []byte) ([]byte, error) { return unwrapCallback(body, "cb") }

	for i := 0; i < 2; i++ {
		payload, err := cache.Fetch(context.Background(), "key", srv.URL, decode)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if string(payload) != `{"n":1}` {
			t.Fatalf("attempt %d: payload = %s", i, payload)
		}
	}
	if h, c := atomic.LoadInt32(&hits), atomic.LoadInt32(&conditional); h != 2 || c != 1 {
		t.Fatalf("hits=%d conditional=%d", h, c)
	}
}

func TestGooglePlusFetcherRedirectsWhenNotReady(t *testing.T) {
	f := NewGooglePlusFetcher(newTestRemote(t), "http://invalid/%source", nil)
	msg := run(t, f.Retrieve(route.Parse("#googleplus:me")))
	redirect, ok := msg.(RedirectMsg)
	if !ok || redirect.Panel != GooglePlusPanel || redirect.Err != ErrNotReady {
		t.Fatalf("expected redirect, got %#v", msg)
	}
}

func TestGooglePlusFetcherLoadsActivities(t *testing.T) {
	var token, path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token.Store(r.URL.Query().Get("access_token"))
		path.Store(r.URL.Path)
		wrap(w, r, `{"items":[{"object":{"content":"<b>first</b> post "}},{"object":{"content":"second"}}]}`)
	}))
	defer srv.Close()

	provider := readyProvider(t, "googleplus", "gp-token")
	f := NewGooglePlusFetcher(newTestRemote(t), srv.URL+"/people/%source/activities", provider)
	data := run(t, f.Retrieve(route.Parse("#googleplus:1234"))).(DataMsg)
	if data.Text != "first post second" {
		t.Fatalf("text = %q", data.Text)
	}
	if token.Load() != "gp-token" || path.Load() != "/people/1234/activities" {
		t.Fatalf("token=%v path=%v", token.Load(), path.Load())
	}
}

func TestExtractGooglePlusErrorYieldsEmptyText(t *testing.T) {
	for _, payload := range []string{`{"error":{"code":403}}`, `{}`} {
		text, err := extractGooglePlus(json.RawMessage(payload))
		if err != nil || text != "" {
			t.Fatalf("%s: text=%q err=%v", payload, text, err)
		}
	}
}

func TestFacebookFetcherKeepsOwnPosts(t *testing.T) {
	var auth, fields atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		fields.Store(r.URL.Query().Get("fields"))
		fmt.Fprint(w, `{
			"id": "42",
			"notes": {"data": [{"subject": "Trip", "message": "<p>mountains</p>"}]},
			"feed": {"data": [
				{"from": {"id": "42"}, "message": "my post"},
				{"from": {"id": "7"}, "message": "someone else"}
			]}
		}`)
	}))
	defer srv.Close()

	provider := readyProvider(t, "facebook", "fb-token")
	f := NewFacebookFetcher(newTestRemote(t), srv.URL, provider)
	data := run(t, f.Retrieve(route.Parse("#facebook:me"))).(DataMsg)
	if data.Err != nil {
		t.Fatalf("unexpected error %v", data.Err)
	}
	if data.Text != "Trip\nmountains\nmy post" {
		t.Fatalf("text = %q", data.Text)
	}
	if auth.Load() != "Bearer fb-token" {
		t.Fatalf("authorization = %v", auth.Load())
	}
	if !strings.HasPrefix(fields.Load().(string), "notes.limit(500)") {
		t.Fatalf("fields = %v", fields.Load())
	}
}

func TestFacebookFetcherRedirectsWhenNotReady(t *testing.T) {
	f := NewFacebookFetcher(newTestRemote(t), "http://invalid", nil)
	msg := run(t, f.Retrieve(route.Parse("#facebook:me")))
	if redirect, ok := msg.(RedirectMsg); !ok || redirect.Panel != FacebookPanel {
		t.Fatalf("expected redirect, got %#v", msg)
	}
}

const sampleFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Weather</title>
<item><title>Cumulus</title><description>&lt;p&gt;puffy clouds&lt;/p&gt;</description></item>
<item><title>Stratus</title><description>flat clouds</description></item>
</channel></rss>`

func TestFeedFetcherReadsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, sampleFeed)
	}))
	defer srv.Close()

	f := NewFeedFetcher(newTestRemote(t), "")
	data := run(t, f.Retrieve(route.Route{Token: "feed", Payload: srv.URL + "/rss"})).(DataMsg)
	if data.Err != nil {
		t.Fatalf("unexpected error %v", data.Err)
	}
	if data.Text != "Cumulus\npuffy clouds\n\nStratus\nflat clouds\n" {
		t.Fatalf("text = %q", data.Text)
	}
}

func TestFeedFetcherExpandsSearchTemplate(t *testing.T) {
	var query atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query.Store(r.URL.Query().Get("q"))
		fmt.Fprint(w, sampleFeed)
	}))
	defer srv.Close()

	f := NewFeedFetcher(newTestRemote(t), srv.URL+"/search?q=%s")
	data := run(t, f.Retrieve(route.Route{Token: "feed", Payload: "tag cloud"})).(DataMsg)
	if data.Err != nil || data.Text == "" {
		t.Fatalf("unexpected message %#v", data)
	}
	if query.Load() != "tag cloud" {
		t.Fatalf("query = %v", query.Load())
	}

	empty := run(t, NewFeedFetcher(newTestRemote(t), "").Retrieve(route.Route{Token: "feed", Payload: "no template"})).(DataMsg)
	if empty.Text != "" || empty.Err != nil {
		t.Fatalf("expected empty text without a template, got %#v", empty)
	}
}

func readyProvider(t *testing.T, name, token string) identity.Provider {
	t.Helper()
	provider, err := identity.New(identity.Config{Name: name, ClientID: "client", AccessToken: token, Granted: true})
	if err != nil {
		t.Fatalf("identity.New: %v", err)
	}
	return provider
}

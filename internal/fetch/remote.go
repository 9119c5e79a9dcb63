package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/csheth/wordcloud/internal/logging"
)

const (
	userAgent          = "wordcloud/1.0 (+https://github.com/csheth/wordcloud)"
	defaultHTTPTimeout = 30 * time.Second
)

// Remote bundles what the network fetchers share: one client, one rate
// limiter, and the on-disk response cache.
type Remote struct {
	Client  *http.Client
	Limiter *rate.Limiter
	cache   *responseCache
}

// NewRemote builds the shared network plumbing. A cache that cannot be
// created is logged and skipped rather than failing startup.
func NewRemote(timeout time.Duration, requestsPerSecond float64, cacheDir string) *Remote {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	client := &http.Client{Timeout: timeout}
	remote := &Remote{
		Client:  client,
		Limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
	cache, err := newResponseCache(cacheDir, client)
	if err != nil {
		logging.Warn("response cache disabled", "dir", cacheDir, "err", err)
	} else {
		remote.cache = cache
	}
	return remote
}

func (r *Remote) wait(ctx context.Context) error {
	if r == nil || r.Limiter == nil {
		return nil
	}
	return r.Limiter.Wait(ctx)
}

func (r *Remote) client() *http.Client {
	if r == nil || r.Client == nil {
		return http.DefaultClient
	}
	return r.Client
}

// get performs a rate-limited GET and returns the body of a successful reply.
func (r *Remote) get(ctx context.Context, client *http.Client, target string) ([]byte, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("api error: %s (%s)", resp.Status, string(body))
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

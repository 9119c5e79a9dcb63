package fetch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheTTL      = 6 * time.Hour
	partialSuffix = ".part"
	metaSuffix    = ".meta"
	bodySuffix    = ".json"
	maxBodyBytes  = 32 << 20
)

// responseCache keeps decoded API payloads on disk and revalidates stale
// entries with ETag and Last-Modified.
type responseCache struct {
	dir    string
	client *http.Client
	ttl    time.Duration
}

type cacheMeta struct {
	Key          string    `json:"key"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// decodeFunc turns a raw response body into the payload worth caching.
type decodeFunc func([]byte) ([]byte, error)

func newResponseCache(dir string, client *http.Client) (*responseCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		dir = filepath.Join(base, "wordcloud", "responses")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &responseCache{dir: dir, client: client, ttl: cacheTTL}, nil
}

// Fetch returns the cached payload for key, requesting target when the entry
// is missing or stale. A stale entry is served when the refresh fails.
func (c *responseCache) Fetch(ctx context.Context, key, target string, decode decodeFunc) ([]byte, error) {
	bodyPath, metaPath, partialPath := c.pathsFor(cacheKey(key))

	if info, err := os.Stat(bodyPath); err == nil && time.Since(info.ModTime()) < c.ttl && info.Size() > 0 {
		return os.ReadFile(bodyPath)
	}

	meta, _ := readMeta(metaPath)
	info, _ := os.Stat(bodyPath)
	payload, err := c.download(ctx, key, target, bodyPath, metaPath, partialPath, meta, info, decode)
	if err == nil {
		return payload, nil
	}
	if info != nil && info.Size() > 0 && ctx.Err() == nil {
		return os.ReadFile(bodyPath)
	}
	return nil, err
}

func (c *responseCache) download(ctx context.Context, key, target, bodyPath, metaPath, partialPath string, meta cacheMeta, current os.FileInfo, decode decodeFunc) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if current != nil && current.Size() > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		if current != nil && current.Size() > 0 {
			meta.CachedAt = time.Now().UTC()
			now := time.Now()
			_ = os.Chtimes(bodyPath, now, now)
			_ = writeMeta(metaPath, meta)
			return os.ReadFile(bodyPath)
		}
		return c.download(ctx, key, target, bodyPath, metaPath, partialPath, cacheMeta{}, nil, decode)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("api error: %s (%s)", resp.Status, string(body))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	payload, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if err := c.store(payload, bodyPath, partialPath); err != nil {
		return nil, err
	}

	fresh := cacheMeta{
		Key:          key,
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
		Size:         int64(len(payload)),
	}
	if err := writeMeta(metaPath, fresh); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *responseCache) store(payload []byte, bodyPath, partialPath string) error {
	if err := os.WriteFile(partialPath, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(partialPath, bodyPath)
}

func (c *responseCache) pathsFor(key string) (string, string, string) {
	return filepath.Join(c.dir, key+bodySuffix), filepath.Join(c.dir, key+metaSuffix), filepath.Join(c.dir, key+partialSuffix)
}

func cacheKey(key string) string {
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

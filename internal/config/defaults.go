package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	appDir = "wordcloud"

	DefaultWikipediaAPI  = "https://%lang.wikipedia.org/w/api.php"
	DefaultGooglePlusAPI = "https://www.googleapis.com/plus/v1/people/%source/activities/public"
	DefaultGraphURL      = "https://graph.facebook.com"
	DefaultFeedSearch    = "https://news.google.com/rss/search?q=%s"
)

// DefaultConfig returns a Config populated with working defaults. Identity
// sources stay unconfigured until a client id or app id is supplied.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:          "info",
		HistoryDB:         filepath.Join(configDir(), "history.db"),
		RestoreLast:       false,
		SaveDir:           defaultSaveDir(),
		CacheDir:          filepath.Join(cacheDir(), "responses"),
		HTTPTimeout:       30 * time.Second,
		RequestsPerSecond: 2,
		MaxTerms:          200,
		CellWidth:         8,
		CellHeight:        16,
		Feed: FeedConfig{
			SearchTemplate: DefaultFeedSearch,
			PanelTemplate:  "%s",
		},
		Wikipedia: WikipediaConfig{
			APIURL:      DefaultWikipediaAPI,
			DefaultLang: "en",
		},
		GooglePlus: GooglePlusConfig{
			APIURL: DefaultGooglePlusAPI,
		},
		Facebook: FacebookConfig{
			UserID:   "me",
			GraphURL: DefaultGraphURL,
		},
	}
}

// DefaultPath is where the config file is looked up when --config is not given.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yml")
}

func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, appDir)
}

func cacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, appDir)
}

func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	pictures := filepath.Join(home, "Pictures")
	if info, err := os.Stat(pictures); err == nil && info.IsDir() {
		return pictures
	}
	return home
}

package config

import "time"

// Config is the top-level wordcloud configuration, corresponding to config.yml.
type Config struct {
	LogFile           string           `yaml:"log_file" koanf:"log_file"`
	LogLevel          string           `yaml:"log_level" koanf:"log_level"`
	HistoryDB         string           `yaml:"history_db" koanf:"history_db"`
	RestoreLast       bool             `yaml:"restore_last" koanf:"restore_last"`
	SaveDir           string           `yaml:"save_dir" koanf:"save_dir"`
	CacheDir          string           `yaml:"cache_dir" koanf:"cache_dir"`
	HTTPTimeout       time.Duration    `yaml:"http_timeout" koanf:"http_timeout"`
	RequestsPerSecond float64          `yaml:"requests_per_second" koanf:"requests_per_second"`
	MaxTerms          int              `yaml:"max_terms" koanf:"max_terms"`
	CellWidth         int              `yaml:"cell_width" koanf:"cell_width"`
	CellHeight        int              `yaml:"cell_height" koanf:"cell_height"`
	Feed              FeedConfig       `yaml:"feed" koanf:"feed"`
	Wikipedia         WikipediaConfig  `yaml:"wikipedia" koanf:"wikipedia"`
	GooglePlus        GooglePlusConfig `yaml:"googleplus" koanf:"googleplus"`
	Facebook          FacebookConfig   `yaml:"facebook" koanf:"facebook"`
}

// FeedConfig controls how feed queries that are not URLs get resolved.
type FeedConfig struct {
	SearchTemplate string `yaml:"search_template" koanf:"search_template"`
	PanelTemplate  string `yaml:"panel_template" koanf:"panel_template"`
}

// WikipediaConfig points the article fetcher at a MediaWiki API.
type WikipediaConfig struct {
	APIURL      string `yaml:"api_url" koanf:"api_url"`
	DefaultLang string `yaml:"default_lang" koanf:"default_lang"`
}

// GooglePlusConfig holds the identity settings for the activities source.
type GooglePlusConfig struct {
	ClientID    string `yaml:"client_id" koanf:"client_id"`
	AccessToken string `yaml:"access_token" koanf:"access_token"`
	TokenFile   string `yaml:"token_file" koanf:"token_file"`
	APIURL      string `yaml:"api_url" koanf:"api_url"`
}

// FacebookConfig holds the identity settings for the Graph timeline source.
type FacebookConfig struct {
	AppID       string `yaml:"app_id" koanf:"app_id"`
	AccessToken string `yaml:"access_token" koanf:"access_token"`
	TokenFile   string `yaml:"token_file" koanf:"token_file"`
	UserID      string `yaml:"user_id" koanf:"user_id"`
	ReadStream  bool   `yaml:"read_stream" koanf:"read_stream"`
	GraphURL    string `yaml:"graph_url" koanf:"graph_url"`
}

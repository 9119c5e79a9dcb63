package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/csheth/wordcloud/internal/config"
	"github.com/csheth/wordcloud/internal/fetch"
	"github.com/csheth/wordcloud/internal/history"
	"github.com/csheth/wordcloud/internal/identity"
	"github.com/csheth/wordcloud/internal/logging"
	"github.com/csheth/wordcloud/internal/route"
	"github.com/csheth/wordcloud/internal/tui"
)

var (
	cfgFile     string
	logFile     string
	verbose     bool
	noAltScreen bool
)

var rootCmd = &cobra.Command{
	Use:   "wordcloud [fragment]",
	Short: "Turn text, feeds and pages into word clouds in the terminal",
	Long: `wordcloud fetches text from a source, counts its words and draws them
as a cloud. A fragment such as "#wikipedia.en:Cloud" or "#feed:golang"
opens that source directly; without one the source dialog is shown.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
}

// loadConfig reads the config file and applies the logging flags on top.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("wordcloud needs an interactive terminal")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.LogFile, cfg.LogLevel); err != nil {
		return err
	}
	defer logging.Close()

	ctx := context.Background()

	var recorder tui.Recorder
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		logging.Warn("history disabled", "path", cfg.HistoryDB, "err", err)
	} else {
		defer store.Close()
		recorder = store
	}

	initial := initialRoute(ctx, cfg, store, args)
	logging.Info("starting", "route", initial.String())

	program := tea.NewProgram(
		tui.New(tui.Config{
			Router:     route.NewHistory(initial),
			History:    recorder,
			Remote:     fetch.NewRemote(cfg.HTTPTimeout, cfg.RequestsPerSecond, cfg.CacheDir),
			Settings:   cfg,
			GooglePlus: googlePlusProvider(cfg),
			Facebook:   facebookProvider(cfg),
		}),
		programOptions()...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func programOptions() []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	return opts
}

// initialRoute prefers the fragment argument, then the last visited route
// when restore_last is on.
func initialRoute(ctx context.Context, cfg *config.Config, store *history.Store, args []string) route.Route {
	if len(args) > 0 {
		return route.Parse(args[0])
	}
	if !cfg.RestoreLast || store == nil {
		return route.Route{}
	}
	last, ok, err := store.Last(ctx)
	if err != nil {
		logging.Warn("could not restore last route", "err", err)
		return route.Route{}
	}
	if !ok {
		return route.Route{}
	}
	return last
}

func googlePlusProvider(cfg *config.Config) identity.Provider {
	p, err := identity.New(identity.Config{
		Name:        fetch.GooglePlusPanel,
		ClientID:    cfg.GooglePlus.ClientID,
		AccessToken: cfg.GooglePlus.AccessToken,
		TokenFile:   cfg.GooglePlus.TokenFile,
		UserID:      "me",
	})
	if err != nil {
		logging.Info("google+ panel disabled", "err", err)
		return nil
	}
	return p
}

func facebookProvider(cfg *config.Config) identity.Provider {
	p, err := identity.New(identity.Config{
		Name:        fetch.FacebookPanel,
		ClientID:    cfg.Facebook.AppID,
		AccessToken: cfg.Facebook.AccessToken,
		TokenFile:   cfg.Facebook.TokenFile,
		UserID:      cfg.Facebook.UserID,
		Permission:  "read_stream",
		Granted:     cfg.Facebook.ReadStream,
	})
	if err != nil {
		logging.Info("facebook panel disabled", "err", err)
		return nil
	}
	return p
}

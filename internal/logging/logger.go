package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// Logger is the process-wide logger. It stays nil until Init succeeds,
	// which keeps the helpers below safe to call from tests.
	Logger *log.Logger

	logFile *os.File
)

// DefaultPath returns the dated log file used when no path is configured.
func DefaultPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	name := fmt.Sprintf("wordcloud-%s.log", time.Now().Format("2006-01-02"))
	return filepath.Join(base, "wordcloud", "logs", name)
}

// Init opens path for appending and routes all log output there. The
// terminal belongs to the TUI, so nothing is ever written to stderr.
func Init(path, level string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = file

	Logger = log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           ParseLevel(level),
	})
	Logger.Info("wordcloud started", "log", path)
	return nil
}

// ParseLevel maps a config string onto a log level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Close flushes the shutdown line and releases the log file.
func Close() {
	if Logger != nil {
		Logger.Info("wordcloud shutting down")
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Package config resolves process configuration from .env files, the
// environment and command line flags, in that order of precedence (lowest first).
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	AppName = "pomodesk"

	EnvConfigDir = "POMODESK_CONFIG_DIR"
	EnvDBPath    = "POMODESK_DB_PATH"
	EnvLogLevel  = "POMODESK_LOG_LEVEL"
	EnvNoNotify  = "POMODESK_NO_NOTIFY"

	historyFileName = "history.db"
	logFileName     = "pomodesk.log"
)

// Config is the resolved process configuration.
type Config struct {
	ConfigDir string
	DBPath    string
	LogLevel  log.Level
	NoNotify  bool
	TUI       bool
}

// Load reads .env when present and parses the process arguments.
func Load(args []string) (Config, error) {
	_ = godotenv.Load(".env")
	return Parse(args, os.Getenv)
}

// Parse builds a Config from args and the variables visible through getenv.
func Parse(args []string, getenv func(string) string) (Config, error) {
	flags := flag.NewFlagSet(AppName, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	configDir := flags.String("config-dir", getenv(EnvConfigDir), "directory holding settings.yaml and history.db")
	dbPath := flags.String("db", getenv(EnvDBPath), "history database path")
	level := flags.String("log-level", valueOr(getenv(EnvLogLevel), "info"), "debug, info, warn or error")
	noNotify := flags.Bool("no-notify", false, "disable desktop notifications")
	tui := flags.Bool("tui", false, "run the terminal interface instead of the desktop app")

	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	cfg := Config{
		ConfigDir: *configDir,
		DBPath:    *dbPath,
		NoNotify:  *noNotify,
		TUI:       *tui,
	}

	if !*noNotify {
		if raw := getenv(EnvNoNotify); raw != "" {
			value, err := strconv.ParseBool(raw)
			if err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", EnvNoNotify, err)
			}
			cfg.NoNotify = value
		}
	}

	parsedLevel, err := log.ParseLevel(strings.ToLower(*level))
	if err != nil {
		return Config{}, fmt.Errorf("parse log level: %w", err)
	}
	cfg.LogLevel = parsedLevel

	if cfg.ConfigDir == "" {
		userDir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve user config dir: %w", err)
		}
		cfg.ConfigDir = filepath.Join(userDir, AppName)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.ConfigDir, historyFileName)
	}

	return cfg, nil
}

// NewLogger builds the process logger.
func (cfg Config) NewLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          AppName,
		Level:           cfg.LogLevel,
	})
}

// LogPath is where the terminal UI writes its logs.
func (cfg Config) LogPath() string {
	return filepath.Join(cfg.ConfigDir, logFileName)
}

// OpenLogFile opens LogPath for appending, creating the config dir if needed.
func (cfg Config) OpenLogFile() (*os.File, error) {
	if err := os.MkdirAll(cfg.ConfigDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	file, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

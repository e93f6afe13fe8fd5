package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/tami/internal/shared/paths"
)

// Config holds all application configuration.
type Config struct {
	Workspace WorkspaceConfig `toml:"workspace" yaml:"workspace"`
	Terminal  TerminalConfig  `toml:"terminal" yaml:"terminal"`
	Logging   LogConfig       `toml:"logging" yaml:"logging"`
	Status    StatusConfig    `toml:"status" yaml:"status"`
}

// WorkspaceConfig holds tree and persistence configuration.
type WorkspaceConfig struct {
	// Root of the folder tree; empty means the user's home directory.
	Root string `envconfig:"TAMI_ROOT" toml:"root" yaml:"root"`
	// DataDir holds favorites, config and logs.
	DataDir string `envconfig:"TAMI_DATA_DIR" toml:"data_dir" yaml:"data_dir"`
	// PreviewLimit caps how many bytes of a file the viewer reads.
	PreviewLimit int64 `envconfig:"TAMI_PREVIEW_LIMIT" toml:"preview_limit" yaml:"preview_limit"`
}

// TerminalConfig holds shell session configuration.
type TerminalConfig struct {
	DefaultShell string            `envconfig:"TAMI_DEFAULT_SHELL" toml:"default_shell" yaml:"default_shell"`
	Cols         int               `envconfig:"TAMI_COLS" toml:"cols" yaml:"cols"`
	Rows         int               `envconfig:"TAMI_ROWS" toml:"rows" yaml:"rows"`
	Term         string            `envconfig:"TAMI_TERM" toml:"term" yaml:"term"`
	OutputBuffer int               `envconfig:"TAMI_OUTPUT_BUFFER" toml:"output_buffer" yaml:"output_buffer"`
	EventQueue   int               `envconfig:"TAMI_EVENT_QUEUE" toml:"event_queue" yaml:"event_queue"`
	Env          map[string]string `envconfig:"TAMI_SHELL_ENV" toml:"env" yaml:"env"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" toml:"level" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" toml:"development" yaml:"development"`
	// File enables file logging; "auto" logs to the data directory.
	File string `envconfig:"LOG_FILE" toml:"file" yaml:"file"`
}

// StatusConfig holds the optional read-only status listener, which
// serves health, favorites and Prometheus metrics.
type StatusConfig struct {
	// Addr enables the listener when set, e.g. "127.0.0.1:9100".
	Addr              string   `envconfig:"TAMI_STATUS_ADDR" toml:"addr" yaml:"addr"`
	AllowOrigins      []string `envconfig:"TAMI_STATUS_ORIGINS" toml:"allow_origins" yaml:"allow_origins"`
	RequestsPerSecond int      `envconfig:"TAMI_STATUS_RPS" toml:"requests_per_second" yaml:"requests_per_second"`
	Burst             int      `envconfig:"TAMI_STATUS_BURST" toml:"burst" yaml:"burst"`
}

// Default returns default configuration.
func Default() *Config {
	dataDir, err := paths.AppSupportDir()
	if err != nil {
		dataDir = filepath.Join(os.TempDir(), paths.AppName)
	}

	return &Config{
		Workspace: WorkspaceConfig{
			Root:         "",
			DataDir:      dataDir,
			PreviewLimit: 4 << 20,
		},
		Terminal: TerminalConfig{
			DefaultShell: "/bin/zsh",
			Cols:         80,
			Rows:         24,
			Term:         "xterm-256color",
			OutputBuffer: 1 << 20,
			EventQueue:   256,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Status: StatusConfig{
			AllowOrigins:      []string{"*"},
			RequestsPerSecond: 20,
			Burst:             40,
		},
	}
}

// Load builds configuration from defaults, the optional config file in
// the data directory, and the environment, in increasing precedence.
func Load() (*Config, error) {
	cfg := Default()

	// Environment first so TAMI_DATA_DIR decides where the file lives.
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	for _, candidate := range paths.ConfigFiles(cfg.Workspace.DataDir) {
		loaded, err := mergeFile(cfg, candidate)
		if err != nil {
			return nil, err
		}
		if loaded {
			break
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg.normalize(), nil
}

// LoadFrom is Load with an explicit config file, which must exist.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	loaded, err := mergeFile(cfg, path)
	if err != nil {
		return nil, err
	}
	if !loaded {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg.normalize(), nil
}

// LoadOrDefault loads configuration or returns the default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// FavoritesPath returns the favorites file location.
func (c *Config) FavoritesPath() string {
	return paths.FavoritesFile(c.Workspace.DataDir)
}

// LogPath returns the log file location, or "" when file logging is off.
func (c *Config) LogPath() string {
	switch c.Logging.File {
	case "":
		return ""
	case "auto":
		return paths.LogFile(c.Workspace.DataDir)
	default:
		return c.Logging.File
	}
}

// RootPath returns the tree root, defaulting to the home directory.
func (c *Config) RootPath() string {
	if c.Workspace.Root == "" {
		return paths.Home()
	}
	return c.Workspace.Root
}

func applyEnv(cfg *Config) error {
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// mergeFile overlays a TOML or YAML file onto cfg. A missing file is not
// an error and reports false.
func mergeFile(cfg *Config, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return false, fmt.Errorf("unsupported config format: %s", path)
	}
	if err != nil {
		return false, fmt.Errorf("parse config %s: %w", path, err)
	}
	return true, nil
}

// normalize replaces nonsensical values with defaults.
func (c *Config) normalize() *Config {
	def := Default()
	if c.Terminal.Cols <= 0 {
		c.Terminal.Cols = def.Terminal.Cols
	}
	if c.Terminal.Rows <= 0 {
		c.Terminal.Rows = def.Terminal.Rows
	}
	if c.Terminal.OutputBuffer <= 0 {
		c.Terminal.OutputBuffer = def.Terminal.OutputBuffer
	}
	if c.Terminal.EventQueue <= 0 {
		c.Terminal.EventQueue = def.Terminal.EventQueue
	}
	if c.Terminal.DefaultShell == "" {
		c.Terminal.DefaultShell = def.Terminal.DefaultShell
	}
	if c.Workspace.PreviewLimit <= 0 {
		c.Workspace.PreviewLimit = def.Workspace.PreviewLimit
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if len(c.Status.AllowOrigins) == 0 {
		c.Status.AllowOrigins = def.Status.AllowOrigins
	}
	if c.Status.RequestsPerSecond <= 0 {
		c.Status.RequestsPerSecond = def.Status.RequestsPerSecond
	}
	if c.Status.Burst <= 0 {
		c.Status.Burst = def.Status.Burst
	}
	return c
}

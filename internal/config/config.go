package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultTodoName       = "todo.txt"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "todo.log"
	DefaultTickMillis     = 16

	StorageFile   = "file"
	StorageSQLite = "sqlite"

	FrontendRaw       = "raw"
	FrontendBubbleTea = "bubbletea"

	envConfigPath = "TODO_TUI_CONFIG"
	appDirName    = "todo-tui"
)

type Config struct {
	Storage      string `toml:"storage"`
	TodoPath     string `toml:"todo_path"`
	DBPath       string `toml:"db_path"`
	Frontend     string `toml:"frontend"`
	TickMillis   int    `toml:"tick_ms"`
	LogPath      string `toml:"log_path"`
	LogLevel     string `toml:"log_level"`
	ClampCursor  bool   `toml:"clamp_cursor"`
	SeedComplete bool   `toml:"seed_complete"`
}

// ResolveConfigPath picks $TODO_TUI_CONFIG, then the XDG config directory,
// then ~/.config.
func ResolveConfigPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDirName, DefaultConfigFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", appDirName, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist. Relative paths inside the file are resolved
// against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.TodoPath == "" {
		cfg.TodoPath = DefaultTodoName
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	if cfg.TickMillis <= 0 {
		cfg.TickMillis = DefaultTickMillis
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	switch c.Frontend {
	case FrontendRaw, FrontendBubbleTea:
	default:
		return fmt.Errorf("unknown frontend %q", c.Frontend)
	}
	return nil
}

// TickRate is the interval between tick events.
func (c Config) TickRate() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}

func (c Config) resolve(dir string) Config {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.TodoPath = abs(c.TodoPath)
	c.DBPath = abs(c.DBPath)
	c.LogPath = abs(c.LogPath)
	return c
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		Storage:      StorageFile,
		TodoPath:     DefaultTodoName,
		DBPath:       DefaultDBName,
		Frontend:     FrontendRaw,
		TickMillis:   DefaultTickMillis,
		LogPath:      DefaultLogName,
		LogLevel:     "info",
		ClampCursor:  true,
		SeedComplete: true,
	}
}

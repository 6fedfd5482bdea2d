// Package config loads, validates and saves the Zhuyin engine configuration.
//
// The file lives at $XDG_CONFIG_HOME/ibus-zhuyin/config.toml by default and
// may also be written as JSON or YAML. The setup tool writes it; the running
// engine watches it and applies changes to every open input context.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"zhuyin/internal/ime"
)

// Version is the current configuration schema version.
const Version = 2

// Config holds the complete engine configuration.
type Config struct {
	// Version is the configuration schema version for migrations.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Engine holds the options that change key handling.
	Engine EngineConfig `toml:"engine" json:"engine" yaml:"engine"`

	// Dictionary configures the phrase database.
	Dictionary DictionaryConfig `toml:"dictionary" json:"dictionary" yaml:"dictionary"`

	// Setup configures the preferences tool launched from the panel.
	Setup SetupConfig `toml:"setup" json:"setup" yaml:"setup"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	mu sync.RWMutex `toml:"-" json:"-" yaml:"-"`
}

// EngineConfig mirrors ime.Settings.
type EngineConfig struct {
	CleanBufferFocusOut bool   `toml:"clean_buffer_focus_out" json:"clean_buffer_focus_out" yaml:"clean_buffer_focus_out"`
	ShowPageNumber      bool   `toml:"show_page_number" json:"show_page_number" yaml:"show_page_number"`
	SyncCapsLock        bool   `toml:"sync_caps_lock" json:"sync_caps_lock" yaml:"sync_caps_lock"`
	CandPerPage         int    `toml:"cand_per_page" json:"cand_per_page" yaml:"cand_per_page"`
	SelKeys             string `toml:"sel_keys" json:"sel_keys" yaml:"sel_keys"`
	MaxChiSymbolLen     int    `toml:"max_chi_symbol_len" json:"max_chi_symbol_len" yaml:"max_chi_symbol_len"`
	SpaceAsSelection    bool   `toml:"space_as_selection" json:"space_as_selection" yaml:"space_as_selection"`
	EscCleanAllBuf      bool   `toml:"esc_clean_all_buf" json:"esc_clean_all_buf" yaml:"esc_clean_all_buf"`
	ShiftToggleChinese  bool   `toml:"shift_toggle_chinese" json:"shift_toggle_chinese" yaml:"shift_toggle_chinese"`
	ForceUSLayout       bool   `toml:"force_us_layout" json:"force_us_layout" yaml:"force_us_layout"`
	DefaultEnglish      bool   `toml:"default_english" json:"default_english" yaml:"default_english"`
	DefaultFullWidth    bool   `toml:"default_full_width" json:"default_full_width" yaml:"default_full_width"`
}

// DictionaryConfig holds phrase database configuration.
type DictionaryConfig struct {
	// Path is the sqlite database file.
	Path string `toml:"path" json:"path" yaml:"path"`

	// Learn raises the rank of chosen candidates.
	Learn bool `toml:"learn" json:"learn" yaml:"learn"`
}

// SetupConfig holds preferences tool configuration.
type SetupConfig struct {
	// Path is the executable started by the setup property.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum level: "debug", "info", "warn" or "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is "stderr", "stdout", "file" or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	FilePath   string `toml:"file_path" json:"file_path" yaml:"file_path"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" json:"max_backups" yaml:"max_backups"`
}

// DefaultConfig returns a configuration with the engine's defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Engine:  EngineFromSettings(ime.DefaultSettings()),
		Dictionary: DictionaryConfig{
			Path:  filepath.Join(DataDir(), "zhuyin.db"),
			Learn: true,
		},
		Setup: SetupConfig{
			Path: defaultSetupPath(),
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			FilePath:   filepath.Join(StateDir(), "engine.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// EngineFromSettings converts session settings into their file form.
func EngineFromSettings(s ime.Settings) EngineConfig {
	return EngineConfig{
		CleanBufferFocusOut: s.CleanBufferFocusOut,
		ShowPageNumber:      s.ShowPageNumber,
		SyncCapsLock:        s.SyncCapsLock,
		CandPerPage:         s.CandPerPage,
		SelKeys:             s.SelectionKeys,
		MaxChiSymbolLen:     s.MaxChiSymbolLen,
		SpaceAsSelection:    s.SpaceAsSelection,
		EscCleanAllBuf:      s.EscCleanAllBuf,
		ShiftToggleChinese:  s.ShiftToggleChinese,
		ForceUSLayout:       s.ForceUSLayout,
		DefaultEnglish:      s.DefaultEnglish,
		DefaultFullWidth:    s.DefaultFullWidth,
	}
}

// Settings converts the engine section into session settings.
func (e EngineConfig) Settings() ime.Settings {
	return ime.Settings{
		CleanBufferFocusOut: e.CleanBufferFocusOut,
		ShowPageNumber:      e.ShowPageNumber,
		SyncCapsLock:        e.SyncCapsLock,
		CandPerPage:         e.CandPerPage,
		SelectionKeys:       e.SelKeys,
		MaxChiSymbolLen:     e.MaxChiSymbolLen,
		SpaceAsSelection:    e.SpaceAsSelection,
		EscCleanAllBuf:      e.EscCleanAllBuf,
		ShiftToggleChinese:  e.ShiftToggleChinese,
		ForceUSLayout:       e.ForceUSLayout,
		DefaultEnglish:      e.DefaultEnglish,
		DefaultFullWidth:    e.DefaultFullWidth,
	}
}

// ConfigDir returns $XDG_CONFIG_HOME/ibus-zhuyin.
func ConfigDir() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "ibus-zhuyin")
}

// DataDir returns $XDG_DATA_HOME/ibus-zhuyin.
func DataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "ibus-zhuyin")
}

// StateDir returns $XDG_STATE_HOME/ibus-zhuyin.
func StateDir() string {
	return filepath.Join(xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state")), "ibus-zhuyin")
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), fallback)
	}
	return filepath.Join(home, fallback)
}

// ZHUYIN_LIBEXEC_DIR lets packagers point at their libexec directory.
func defaultSetupPath() string {
	dir := os.Getenv("ZHUYIN_LIBEXEC_DIR")
	if dir == "" {
		dir = "/usr/libexec"
	}
	return filepath.Join(dir, "ibus-setup-zhuyin")
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads configuration from path, or from ConfigPath when path is
// empty. A missing file yields the defaults. Environment overrides are
// applied, older versions are migrated in memory and the result is
// validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()

	if cfg.Version < Version {
		if _, err := MigrateConfig(cfg); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// LoadOrCreate loads path, writing the defaults there first if the file
// does not exist. The boolean reports whether the file was created.
func LoadOrCreate(path string) (*Config, bool, error) {
	if path == "" {
		path = ConfigPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, path); err != nil {
			return nil, false, fmt.Errorf("create default config: %w", err)
		}
		cfg.ApplyEnvOverrides()
		return cfg, true, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ValidateConfig(c)
}

// ApplyEnvOverrides applies ZHUYIN_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v := os.Getenv("ZHUYIN_DICTIONARY"); v != "" {
		c.Dictionary.Path = v
	}
	if v := os.Getenv("ZHUYIN_SETUP_PATH"); v != "" {
		c.Setup.Path = v
	}
	if v := os.Getenv("ZHUYIN_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("ZHUYIN_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
		if c.Logging.Output == "stderr" || c.Logging.Output == "" {
			c.Logging.Output = "both"
		}
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Config{
		Version:    c.Version,
		Engine:     c.Engine,
		Dictionary: c.Dictionary,
		Setup:      c.Setup,
		Logging:    c.Logging,
	}
}

// Settings returns the engine section as session settings.
func (c *Config) Settings() ime.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Engine.Settings()
}

// SaveConfig writes cfg to path in the format given by its extension,
// TOML when unknown.
func SaveConfig(cfg *Config, path string) error {
	cfg.mu.RLock()
	data, err := encode(cfg, filepath.Ext(path))
	cfg.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	// Write to a sibling file first so the watcher never sees a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

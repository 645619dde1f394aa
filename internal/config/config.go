// Package config handles configuration loading, validation, and management for kblayout.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"kblayout/internal/i18n"
	"kblayout/internal/layout"
	"kblayout/internal/logging"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete keyboard configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Keyboard holds the user's keyboard preferences.
	Keyboard KeyboardConfig `toml:"keyboard" json:"keyboard" yaml:"keyboard"`

	// Layouts configures where layout files come from.
	Layouts LayoutsConfig `toml:"layouts" json:"layouts" yaml:"layouts"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// mu protects concurrent access to the config.
	mu sync.RWMutex `toml:"-" json:"-" yaml:"-"`
}

// KeyboardConfig holds the settings a layout is built with.
type KeyboardConfig struct {
	// Language selects the layout file. See i18n.Languages.
	Language int `toml:"language" json:"language" yaml:"language"`

	// Height is small, medium or large.
	Height layout.HeightSetting `toml:"height" json:"height" yaml:"height"`

	// Mode selects which rows are shown.
	Mode int `toml:"mode" json:"mode" yaml:"mode"`

	// DisplayWidth is the reference width in pixels.
	DisplayWidth int `toml:"display_width" json:"display_width" yaml:"display_width"`

	// KeyHeight is the base row height in pixels. Zero derives it from
	// the display width.
	KeyHeight int `toml:"key_height" json:"key_height" yaml:"key_height"`

	// EnterAction is one of default, search, next, go, send.
	EnterAction string `toml:"enter_action" json:"enter_action" yaml:"enter_action"`
}

// LayoutsConfig holds layout file settings.
type LayoutsConfig struct {
	// Dir holds <language>.rmsl and <language>.rmsl.gz files.
	Dir string `toml:"dir" json:"dir" yaml:"dir"`

	// Watch reloads the active layout when its file changes.
	Watch bool `toml:"watch" json:"watch" yaml:"watch"`

	// DebounceMs is how long a file must be quiet before a reload.
	DebounceMs int `toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the log format: "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is the log output: "stdout", "stderr", "file" or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the path to the log file (when Output is "file" or "both").
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Keyboard: KeyboardConfig{
			Language:     int(i18n.FromLocale(i18n.SystemLocale())),
			Height:       layout.HeightSmall,
			Mode:         0,
			DisplayWidth: 1080,
			EnterAction:  "default",
		},
		Layouts: LayoutsConfig{
			Dir:        filepath.Join(PlatformDataDir(), "layouts"),
			Watch:      false,
			DebounceMs: 100,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "stderr",
			FilePath: filepath.Join(PlatformLogDir(), "kblayout.log"),
		},
	}
}

// Load reads configuration from the specified path.
// If the file doesn't exist, returns default configuration.
// Supports TOML, JSON, and YAML formats based on file extension.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	cfg.ApplyEnvOverrides()

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables are prefixed with KBLAYOUT_ and use underscores.
// Numeric overrides that do not parse are ignored.
func (c *Config) ApplyEnvOverrides() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Keyboard overrides
	envInt("KBLAYOUT_LANGUAGE", &c.Keyboard.Language)
	envInt("KBLAYOUT_MODE", &c.Keyboard.Mode)
	envInt("KBLAYOUT_DISPLAY_WIDTH", &c.Keyboard.DisplayWidth)
	envInt("KBLAYOUT_KEY_HEIGHT", &c.Keyboard.KeyHeight)
	if v := os.Getenv("KBLAYOUT_HEIGHT"); v != "" {
		var h layout.HeightSetting
		if err := h.UnmarshalText([]byte(v)); err == nil {
			c.Keyboard.Height = h
		}
	}
	if v := os.Getenv("KBLAYOUT_ENTER_ACTION"); v != "" {
		c.Keyboard.EnterAction = v
	}

	// Layout overrides
	if v := os.Getenv("KBLAYOUT_LAYOUT_DIR"); v != "" {
		c.Layouts.Dir = v
	}

	// Logging overrides
	if v := os.Getenv("KBLAYOUT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("KBLAYOUT_LOG_PATH"); v != "" {
		c.Logging.FilePath = v
	}
}

func envInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Config{
		Version:  c.Version,
		Keyboard: c.Keyboard,
		Layouts:  c.Layouts,
		Logging:  c.Logging,
	}
}

// LayoutOptions returns the build options the keyboard settings describe.
// Resolvers and the logger are left for the caller.
func (c *Config) LayoutOptions() layout.Options {
	c.mu.RLock()
	defer c.mu.RUnlock()

	action, _ := layout.ParseInputAction(c.Keyboard.EnterAction)
	return layout.Options{
		DisplayWidth:     c.Keyboard.DisplayWidth,
		HeightMultiplier: c.Keyboard.Height.Multiplier(),
		KeyHeight:        c.Keyboard.KeyHeight,
		Mode:             c.Keyboard.Mode,
		EnterAction:      action,
	}
}

// LoggerConfig converts the logging section for logging.New.
func (c *Config) LoggerConfig() (*logging.Config, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.Logging.Format)
	if err != nil {
		return nil, err
	}
	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Format = format
	cfg.Output = c.Logging.Output
	if c.Logging.FilePath != "" {
		cfg.FilePath = expandPath(c.Logging.FilePath)
	}
	return cfg, nil
}

// LayoutDebounceMs returns the layout reload debounce, never below 1ms.
func (c *Config) LayoutDebounceMs() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return max(c.Layouts.DebounceMs, 1)
}

// String is a short summary for log lines.
func (c *Config) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fmt.Sprintf("language=%d height=%s mode=%d width=%d",
		c.Keyboard.Language, c.Keyboard.Height, c.Keyboard.Mode, c.Keyboard.DisplayWidth)
}

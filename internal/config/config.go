package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendGData  = "gdata"
)

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig
	Storage   StorageConfig
	Signature SignatureConfig
	UI        UIConfig
	Log       LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// StorageConfig selects where the register lives.
type StorageConfig struct {
	Backend string
	AppName string `mapstructure:"app_name"`
}

// SignatureConfig holds signature pad geometry. Cell sizes map one terminal
// cell to a block of surface pixels.
type SignatureConfig struct {
	Height      int
	StrokeWidth float64 `mapstructure:"stroke_width"`
	CellWidth   int     `mapstructure:"cell_width"`
	CellHeight  int     `mapstructure:"cell_height"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string `mapstructure:"date_format"`
	Timezone   string
}

// LogConfig holds logging settings. An empty path discards logs while the TUI runs.
type LogConfig struct {
	Path string
}

// Load reads configuration from file and env. Env var overrides use prefix TRAINLOG_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TRAINLOG_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "trainlog"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TRAINLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgPath != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "trainlog", "trainlog.db"))
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.app_name", "trainlog")
	v.SetDefault("signature.height", 200)
	v.SetDefault("signature.stroke_width", 2.0)
	v.SetDefault("signature.cell_width", 8)
	v.SetDefault("signature.cell_height", 16)
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("log.path", "")
}

// Validate rejects settings the application cannot run with.
func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Storage.Backend)) {
	case BackendSQLite, BackendGData:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Signature.Height <= 0 || c.Signature.StrokeWidth <= 0 {
		return fmt.Errorf("config: signature height and stroke width must be positive")
	}
	if c.Signature.CellWidth <= 0 || c.Signature.CellHeight <= 0 {
		return fmt.Errorf("config: signature cell size must be positive")
	}
	if strings.TrimSpace(c.UI.DateFormat) == "" {
		return fmt.Errorf("config: ui.date_format is empty")
	}
	return nil
}

// Backend returns the normalized storage backend name.
func (c Config) Backend() string {
	return strings.ToLower(strings.TrimSpace(c.Storage.Backend))
}

// Default returns the built-in configuration, ignoring files and env.
func Default() (Config, error) {
	v := viper.New()
	setDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Path returns the config file Load reads and Save writes.
func Path() string {
	if p := os.Getenv("TRAINLOG_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "trainlog", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.app_name", cfg.Storage.AppName)
	v.Set("signature.height", cfg.Signature.Height)
	v.Set("signature.stroke_width", cfg.Signature.StrokeWidth)
	v.Set("signature.cell_width", cfg.Signature.CellWidth)
	v.Set("signature.cell_height", cfg.Signature.CellHeight)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("log.path", cfg.Log.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

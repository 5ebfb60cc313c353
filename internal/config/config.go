package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DataFile string         `yaml:"data_file" mapstructure:"data_file"`
	Autosave AutosaveConfig `yaml:"autosave" mapstructure:"autosave"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

type AutosaveConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "console" or "json"
	File   string `yaml:"file" mapstructure:"file"`     // empty means stderr
}

func DefaultConfig() *Config {
	return &Config{
		DataFile: filepath.Join("data", "proyectos.json"),
		Autosave: AutosaveConfig{
			Enabled:  true,
			Interval: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Dir returns the per-user config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "proyectos")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "proyectos")
}

// Load reads config.yaml from the working directory or the user config dir,
// then applies PROYECTOS_* environment overrides. A non-empty file argument
// is read instead of searching.
func Load(file string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	v.SetDefault("data_file", cfg.DataFile)
	v.SetDefault("autosave.enabled", cfg.Autosave.Enabled)
	v.SetDefault("autosave.interval", cfg.Autosave.Interval)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}

	// Environment variables
	v.SetEnvPrefix("PROYECTOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error produced
			return nil, err
		}
		// Config file not found; ignore and use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("config: data_file is required")
	}
	if c.Autosave.Interval < 0 {
		return fmt.Errorf("config: autosave.interval must not be negative, got %s", c.Autosave.Interval)
	}
	if c.Autosave.Interval == 0 {
		c.Autosave.Interval = 30 * time.Second
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid (must be debug, info, warn, or error)", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: log.format %q is invalid (must be console or json)", c.Log.Format)
	}
	return nil
}

// Package config provides configuration loading, validation, and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	fsderrors "github.com/jontk/fsdash/internal/errors"
	"github.com/jontk/fsdash/internal/fileperms"
	"github.com/spf13/viper"
)

// DefaultBaseURL is where the basic and optimized backends listen unless configured
const DefaultBaseURL = "http://localhost:8000"

// Config represents the application configuration
type Config struct {
	BaseURL        string       `mapstructure:"baseURL" yaml:"baseURL"`
	PollInterval   string       `mapstructure:"pollInterval" yaml:"pollInterval"`
	RequestTimeout string       `mapstructure:"requestTimeout" yaml:"requestTimeout"`
	DefaultUserID  int          `mapstructure:"defaultUserID" yaml:"defaultUserID"`
	UI             UIConfig     `mapstructure:"ui" yaml:"ui"`
	Export         ExportConfig `mapstructure:"export" yaml:"export"`
	Log            LogConfig    `mapstructure:"log" yaml:"log"`
	Mock           MockConfig   `mapstructure:"mock" yaml:"mock"`

	// Computed fields
	SourceFile string `mapstructure:"-" yaml:"-"`
}

// UIConfig holds UI-related settings
type UIConfig struct {
	EnableMouse bool `mapstructure:"enableMouse" yaml:"enableMouse"`
	ShowDetails bool `mapstructure:"showDetails" yaml:"showDetails"`
}

// ExportConfig controls where and how history exports are written
type ExportConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Format string `mapstructure:"format" yaml:"format"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// MockConfig configures the in-process mock backend
type MockConfig struct {
	Addr         string `mapstructure:"addr" yaml:"addr"`
	BasicLatency string `mapstructure:"basicLatency" yaml:"basicLatency"`
}

// DefaultConfig returns a configuration with sensible defaults
// NOTE: These values must match setDefaults() to ensure consistent behavior
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        DefaultBaseURL,
		PollInterval:   "5s",
		RequestTimeout: "",
		DefaultUserID:  1,
		UI: UIConfig{
			EnableMouse: true,
			ShowDetails: true,
		},
		Export: ExportConfig{
			Dir:    "$HOME/fsdash_exports",
			Format: "json",
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(os.TempDir(), "fsdash.log"),
		},
		Mock: MockConfig{
			Addr:         "127.0.0.1:8000",
			BasicLatency: "100ms",
		},
	}
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	return LoadWithPath("")
}

// LoadWithPath reads configuration from a specific file path
func LoadWithPath(configPath string) (*Config, error) {
	v := newViper(configPath)

	if err := v.ReadInConfig(); err != nil {
		// If config file not found, use defaults and environment
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fsderrors.ConfigLoad(configPath, err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	// Ensure config directory exists
	configDir := filepath.Join(os.Getenv("HOME"), ".fsdash")
	_ = os.MkdirAll(configDir, fileperms.ConfigDir)

	return cfg, nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.fsdash")
		v.AddConfigPath("/etc/fsdash")
	}

	v.SetEnvPrefix("FSDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fsderrors.ConfigLoad(v.ConfigFileUsed(), fmt.Errorf("unmarshaling config: %w", err))
	}

	cfg.SourceFile = v.ConfigFileUsed()
	applyEnvironmentOverrides(cfg)
	cfg.Export.Dir = os.ExpandEnv(cfg.Export.Dir)

	return cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("baseURL", DefaultBaseURL)
	v.SetDefault("pollInterval", "5s")
	v.SetDefault("requestTimeout", "")
	v.SetDefault("defaultUserID", 1)

	v.SetDefault("ui.enableMouse", true)
	v.SetDefault("ui.showDetails", true)

	v.SetDefault("export.dir", "$HOME/fsdash_exports")
	v.SetDefault("export.format", "json")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(os.TempDir(), "fsdash.log"))

	v.SetDefault("mock.addr", "127.0.0.1:8000")
	v.SetDefault("mock.basicLatency", "100ms")
}

// applyEnvironmentOverrides applies environment variable overrides
// Environment variables always take precedence over config file settings
func applyEnvironmentOverrides(cfg *Config) {
	if endpoint := os.Getenv("FSDASH_BASE_URL"); endpoint != "" {
		cfg.BaseURL = endpoint
	}
}

// PollDuration returns the stats polling cadence
func (c *Config) PollDuration() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// RequestTimeoutDuration returns the per-request timeout, zero meaning none
func (c *Config) RequestTimeoutDuration() time.Duration {
	if c.RequestTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// MockLatency returns the artificial latency of the mock basic endpoint
func (c *Config) MockLatency() time.Duration {
	d, err := time.ParseDuration(c.Mock.BasicLatency)
	if err != nil || d < 0 {
		return 100 * time.Millisecond
	}
	return d
}

// SaveToFile saves the configuration to a file
func (c *Config) SaveToFile(path string) error {
	v := viper.New()

	v.Set("baseURL", c.BaseURL)
	v.Set("pollInterval", c.PollInterval)
	v.Set("requestTimeout", c.RequestTimeout)
	v.Set("defaultUserID", c.DefaultUserID)
	v.Set("ui", map[string]interface{}{
		"enableMouse": c.UI.EnableMouse,
		"showDetails": c.UI.ShowDetails,
	})
	v.Set("export", map[string]interface{}{
		"dir":    c.Export.Dir,
		"format": c.Export.Format,
	})
	v.Set("log", map[string]interface{}{
		"level": c.Log.Level,
		"file":  c.Log.File,
	})
	v.Set("mock", map[string]interface{}{
		"addr":         c.Mock.Addr,
		"basicLatency": c.Mock.BasicLatency,
	})

	if err := os.MkdirAll(filepath.Dir(path), fileperms.ConfigDir); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return err
	}
	return os.Chmod(path, fileperms.ConfigFile)
}

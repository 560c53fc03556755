package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mmcdole/onesky-sync/internal/domain"
)

// Config holds all application configuration
type Config struct {
	OneSky  OneSkyConfig      `mapstructure:"onesky"`
	Sync    SyncConfig        `mapstructure:"sync"`
	Params  map[string]string `mapstructure:"params"` // %placeholder% values for paths
	Logging LoggingConfig     `mapstructure:"logging"`
	UI      UIConfig          `mapstructure:"ui"`
}

// OneSkyConfig holds credentials and transport settings
type OneSkyConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	APISecret   string        `mapstructure:"api_secret"`
	APISecretID string        `mapstructure:"api_secret_id"` // AWS Secrets Manager id used when api_secret is empty
	ProjectID   string        `mapstructure:"project_id"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SyncConfig holds defaults for the sync command
type SyncConfig struct {
	Dir    string `mapstructure:"dir"`
	Locale string `mapstructure:"locale"`
	Strict bool   `mapstructure:"strict"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`  // empty logs to stderr
	Level string `mapstructure:"level"`
}

// UIConfig holds terminal output settings
type UIConfig struct {
	Progress string `mapstructure:"progress"` // "auto", "always" or "never"
}

const (
	ProgressAuto   = "auto"
	ProgressAlways = "always"
	ProgressNever  = "never"
)

// explicit environment names for the credentials
var credentialEnv = map[string]string{
	"onesky.api_key":       "ONESKY_API_KEY",
	"onesky.api_secret":    "ONESKY_API_SECRET",
	"onesky.api_secret_id": "ONESKY_API_SECRET_ID",
	"onesky.project_id":    "ONESKY_PROJECT_ID",
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		OneSky: OneSkyConfig{
			BaseURL: "https://platform.api.onesky.io/1",
			Timeout: 30 * time.Second,
		},
		Sync: SyncConfig{
			Dir:    "%appDir%/lang",
			Locale: domain.LocaleAll,
		},
		Params: map[string]string{},
		Logging: LoggingConfig{
			File:  "",
			Level: "INFO",
		},
		UI: UIConfig{
			Progress: ProgressAuto,
		},
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "onesky")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "onesky")
	}
}

// setDefaults registers every key with v so environment overrides and
// bound flags reach Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("onesky.api_key", cfg.OneSky.APIKey)
	v.SetDefault("onesky.api_secret", cfg.OneSky.APISecret)
	v.SetDefault("onesky.api_secret_id", cfg.OneSky.APISecretID)
	v.SetDefault("onesky.project_id", cfg.OneSky.ProjectID)
	v.SetDefault("onesky.base_url", cfg.OneSky.BaseURL)
	v.SetDefault("onesky.timeout", cfg.OneSky.Timeout)

	v.SetDefault("sync.dir", cfg.Sync.Dir)
	v.SetDefault("sync.locale", cfg.Sync.Locale)
	v.SetDefault("sync.strict", cfg.Sync.Strict)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)

	v.SetDefault("ui.progress", cfg.UI.Progress)
}

// LoadConfig loads configuration from file and environment into v.
// An empty configFile searches the default locations; a missing default
// file is not an error, a missing explicit file is.
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides
	v.SetEnvPrefix("ONESKY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range credentialEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := lookupParam(cfg.Params, "appDir"); !ok {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		cfg.Params["appdir"] = wd
	}

	return cfg, nil
}

// IsConfigured returns true if every credential needed to reach OneSky is set
func (c *Config) IsConfigured() bool {
	return c.OneSky.APIKey != "" && c.OneSky.APISecret != "" && c.OneSky.ProjectID != ""
}

// SyncOptions are the per-invocation choices that only come from flags
type SyncOptions struct {
	Operations domain.Operation
	DryRun     bool
	Only       string
}

// SyncConfig builds the immutable configuration of one sync run
func (c *Config) SyncConfig(opts SyncOptions) domain.SyncConfig {
	return domain.SyncConfig{
		APIKey:     c.OneSky.APIKey,
		APISecret:  c.OneSky.APISecret,
		ProjectID:  c.OneSky.ProjectID,
		DirPattern: c.Sync.Dir,
		Locales:    domain.LocaleSelector(c.Sync.Locale),
		Operations: opts.Operations,
		Strict:     c.Sync.Strict,
		DryRun:     opts.DryRun,
		Only:       opts.Only,
	}
}

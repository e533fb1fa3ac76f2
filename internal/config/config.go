// Package config loads nsguard settings from .nsguard.{toml,yaml,json} and
// NSGUARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"nsguard/internal/erc7201"
	"nsguard/internal/langversion"
)

// FileName is the config file base name searched for in the project root.
const FileName = ".nsguard"

// EnvPrefix prefixes environment overrides, e.g. NSGUARD_PREFIX or
// NSGUARD_LOGGING_LEVEL.
const EnvPrefix = "NSGUARD"

// Config is the complete nsguard configuration.
type Config struct {
	// Prefix names new namespaces: <prefix>.storage.<Contract>.
	Prefix string `json:"prefix" mapstructure:"prefix"`
	// SolidityVersion overrides version resolution when set.
	SolidityVersion string `json:"solidityVersion" mapstructure:"solidityVersion"`
	MaxDiagnostics  int    `json:"maxDiagnostics" mapstructure:"maxDiagnostics"`
	// Jobs bounds parallel file analysis; 0 means GOMAXPROCS.
	Jobs int `json:"jobs" mapstructure:"jobs"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
	Output  OutputConfig  `json:"output" mapstructure:"output"`
	Cache   CacheConfig   `json:"cache" mapstructure:"cache"`

	// Path is the file the config was read from, empty for defaults.
	Path string `json:"-" mapstructure:"-"`
}

type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`
}

type OutputConfig struct {
	Format string `json:"format" mapstructure:"format"`
	// UI selects the progress display: auto, on or off.
	UI string `json:"ui" mapstructure:"ui"`
}

// CacheConfig controls the on-disk cache of build-config version lookups.
type CacheConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Dir     string `json:"dir" mapstructure:"dir"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Prefix:         erc7201.DefaultPrefix,
		MaxDiagnostics: 100,
		Logging: LoggingConfig{
			Level: "warn",
		},
		Output: OutputConfig{
			Format: "pretty",
			UI:     "off",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("prefix", d.Prefix)
	v.SetDefault("solidityVersion", d.SolidityVersion)
	v.SetDefault("maxDiagnostics", d.MaxDiagnostics)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.ui", d.Output.UI)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
}

// Load reads the config for a project. When file is empty, root is searched
// for .nsguard.toml, .nsguard.yaml or .nsguard.json; a missing file yields
// defaults. Environment variables override file values.
func Load(root, file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(root)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		cfg.Path = filepath.Clean(used)
	}
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) && root != "" {
		cfg.Cache.Dir = filepath.Join(root, cfg.Cache.Dir)
	}
	return &cfg, nil
}

var (
	logLevels = []string{"debug", "info", "warn", "warning", "error"}
	formats   = []string{"pretty", "json", "sarif"}
	uiModes   = []string{"auto", "on", "off"}
)

// Validate checks field values.
func (c *Config) Validate() error {
	if !erc7201.ValidPrefix(c.Prefix) {
		return &ConfigError{Field: "prefix", Message: fmt.Sprintf("%q is not a dotted identifier", c.Prefix)}
	}
	if c.SolidityVersion != "" && !langversion.Valid(c.SolidityVersion) {
		return &ConfigError{Field: "solidityVersion", Message: fmt.Sprintf("%q is not an x.y.z version", c.SolidityVersion)}
	}
	if c.MaxDiagnostics < 0 {
		return &ConfigError{Field: "maxDiagnostics", Message: "must not be negative"}
	}
	if c.Jobs < 0 {
		return &ConfigError{Field: "jobs", Message: "must not be negative"}
	}
	if err := oneOf("logging.level", strings.ToLower(c.Logging.Level), logLevels); err != nil {
		return err
	}
	if err := oneOf("output.format", c.Output.Format, formats); err != nil {
		return err
	}
	return oneOf("output.ui", c.Output.UI, uiModes)
}

func oneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ConfigError{Field: field, Message: fmt.Sprintf("%q is not one of %s", value, strings.Join(allowed, "|"))}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

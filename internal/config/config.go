// Package config loads uiruntime settings from a YAML file and UIRUNTIME_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Log            LogConfig
	Dispatch       DispatchConfig
	Interpositions []Interposition
	Screen         ScreenConfig
	Bundle         BundleConfig
	Metrics        MetricsConfig
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// DispatchConfig holds dispatch table settings.
type DispatchConfig struct {
	RepeatPolicy string `mapstructure:"repeat_policy"`
}

// Interposition is one selector exchange applied at startup.
type Interposition struct {
	Class       string
	Original    string
	Replacement string
	Scope       string
}

// ScreenConfig describes the display the static platform provider reports.
type ScreenConfig struct {
	Width  float64
	Height float64
	Scale  float64
}

// BundleConfig describes the application bundle the static platform
// provider reports.
type BundleConfig struct {
	Identifier   string
	Version      string
	ShortVersion string `mapstructure:"short_version"`
	Info         map[string]string
}

// MetricsConfig holds the Prometheus listener address ("" disables it).
type MetricsConfig struct {
	Addr string
}

// DefaultPath returns the config file used when neither a path nor
// UIRUNTIME_CONFIG is given.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "uiruntime", "config.yaml")
}

// Load reads configuration from path (or UIRUNTIME_CONFIG, or the default
// location) and the environment. Env var overrides use prefix UIRUNTIME_. A
// missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("dispatch.repeat_policy", "toggle")
	v.SetDefault("screen.width", 1440)
	v.SetDefault("screen.height", 900)
	v.SetDefault("screen.scale", 2)
	v.SetDefault("bundle.identifier", "com.example.uiruntime")
	v.SetDefault("bundle.version", "1")
	v.SetDefault("bundle.short_version", "1.0.0")
	v.SetDefault("metrics.addr", "")

	v.SetConfigType("yaml")
	if path == "" {
		path = os.Getenv("UIRUNTIME_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("UIRUNTIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
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

// Validate checks enumerated fields and required interposition fields.
func (c Config) Validate() error {
	switch c.Dispatch.RepeatPolicy {
	case "", "toggle", "reject":
	default:
		return fmt.Errorf("config: dispatch.repeat_policy %q (expected toggle or reject)", c.Dispatch.RepeatPolicy)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: log.format %q (expected text or json)", c.Log.Format)
	}
	if c.Screen.Scale < 0 {
		return fmt.Errorf("config: screen.scale must not be negative")
	}
	for i, ip := range c.Interpositions {
		if ip.Class == "" || ip.Original == "" || ip.Replacement == "" {
			return fmt.Errorf("config: interpositions[%d] needs class, original and replacement", i)
		}
		switch ip.Scope {
		case "", "instance", "type", "class":
		default:
			return fmt.Errorf("config: interpositions[%d].scope %q (expected instance or type)", i, ip.Scope)
		}
	}
	return nil
}

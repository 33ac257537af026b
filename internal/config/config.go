package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/username/fished/pkg/dateutil"
)

// Holiday data source kinds
const (
	SourceFile     = "file"
	SourceEmbedded = "embedded"
	SourceHTTP     = "http"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents application configuration
type Config struct {
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Paydays  []int          `mapstructure:"paydays"`
	Timezone string         `mapstructure:"timezone"`
	Display  DisplayConfig  `mapstructure:"display"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Log      LogConfig      `mapstructure:"log"`
}

// HolidaysConfig represents holiday data configuration
type HolidaysConfig struct {
	Source              string `mapstructure:"source"` // "file", "embedded" or "http"
	File                string `mapstructure:"file"`   // data file; also the http fallback and update target
	URL                 string `mapstructure:"url"`
	CacheTTL            string `mapstructure:"cache_ttl"`
	WeekendOnlyFallback bool   `mapstructure:"weekend_only_fallback"` // run with weekend rules when data is unavailable
}

// DisplayConfig represents terminal output configuration
type DisplayConfig struct {
	Color string `mapstructure:"color"` // "auto", "always" or "never"
}

// WatchConfig represents watch mode configuration
type WatchConfig struct {
	RefreshInterval string `mapstructure:"refresh_interval"`
	SystemTray      bool   `mapstructure:"system_tray"` // Show system tray icon (Windows only)
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("holidays.source", SourceEmbedded)
	v.SetDefault("holidays.file", "")
	v.SetDefault("holidays.url", "https://raw.githubusercontent.com/lanceliao/china-holiday-calender/master/holidayAPI.json")
	v.SetDefault("holidays.cache_ttl", "24h")
	v.SetDefault("holidays.weekend_only_fallback", false)
	v.SetDefault("paydays", []int{1, 10, 15, 20})
	v.SetDefault("timezone", "Local")
	v.SetDefault("display.color", ColorAuto)
	v.SetDefault("watch.refresh_interval", "1h")
	v.SetDefault("watch.system_tray", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "warn")
}

// Load loads configuration from file. Without an explicit path a missing
// config.yaml is not an error and the defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.fished")
		v.AddConfigPath("/etc/fished")
	}

	// Read environment variables, e.g. FISHED_HOLIDAYS_SOURCE
	v.SetEnvPrefix("fished")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Holidays config
	switch c.Holidays.Source {
	case SourceEmbedded:
	case SourceFile:
		if c.Holidays.File == "" {
			return fmt.Errorf("holidays.file is required for file source")
		}
	case SourceHTTP:
		if c.Holidays.URL == "" {
			return fmt.Errorf("holidays.url is required for http source")
		}
	default:
		return fmt.Errorf("holidays.source must be 'file', 'embedded' or 'http', got '%s'", c.Holidays.Source)
	}

	// Validate paydays
	for _, day := range c.Paydays {
		if day < 1 || day > 31 {
			return fmt.Errorf("paydays must be between 1 and 31, got %d", day)
		}
	}

	if _, err := dateutil.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}

	switch c.Display.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("display.color must be 'auto', 'always' or 'never', got '%s'", c.Display.Color)
	}

	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	return nil
}

// Location returns the configured timezone
func (c *Config) Location() *time.Location {
	loc, err := dateutil.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetCacheTTL returns cache TTL duration
func (c *HolidaysConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetRefreshInterval returns how often watch mode reloads data and recomputes
func (c *WatchConfig) GetRefreshInterval() time.Duration {
	if c.RefreshInterval == "" {
		return 1 * time.Hour
	}
	duration, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || duration <= 0 {
		return 1 * time.Hour
	}
	return duration
}

// GetLevel returns the zap level, warn when unset
func (c *LogConfig) GetLevel() zapcore.Level {
	if c.Level == "" {
		return zapcore.WarnLevel
	}
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return zapcore.WarnLevel
	}
	return level
}

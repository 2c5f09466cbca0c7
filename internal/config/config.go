// Package config loads the settings shared by the deasciifier binaries from
// a TOML, YAML or JSON file, with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"deasciifier/internal/correction"
	"deasciifier/internal/logging"
	"deasciifier/internal/pattern"
	"deasciifier/pkg/options"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the root of the configuration file.
type Config struct {
	Options     OptionsConfig     `toml:"options" yaml:"options" json:"options"`
	Patterns    PatternsConfig    `toml:"patterns" yaml:"patterns" json:"patterns"`
	Corrections CorrectionsConfig `toml:"corrections" yaml:"corrections" json:"corrections"`
	Redis       RedisConfig       `toml:"redis" yaml:"redis" json:"redis"`
	HTTP        HTTPConfig        `toml:"http" yaml:"http" json:"http"`
	Log         LogConfig         `toml:"log" yaml:"log" json:"log"`
}

// OptionsConfig holds the editing aids of interactive sessions.
type OptionsConfig struct {
	HighlightChanges bool `toml:"highlight_changes" yaml:"highlight_changes" json:"highlight_changes"`
	CorrectionMenu   bool `toml:"correction_menu" yaml:"correction_menu" json:"correction_menu"`
	AutoConvert      bool `toml:"auto_convert" yaml:"auto_convert" json:"auto_convert"`
}

// PatternsConfig locates the pattern table. An empty path selects the
// built-in table.
type PatternsConfig struct {
	Path   string `toml:"path" yaml:"path" json:"path"`
	Radius int    `toml:"radius" yaml:"radius" json:"radius"`
}

// CorrectionsConfig controls the correction catalog.
type CorrectionsConfig struct {
	Path             string  `toml:"path" yaml:"path" json:"path"`
	LexiconPath      string  `toml:"lexicon_path" yaml:"lexicon_path" json:"lexicon_path"`
	GenerateVariants bool    `toml:"generate_variants" yaml:"generate_variants" json:"generate_variants"`
	MaxToggles       int     `toml:"max_toggles" yaml:"max_toggles" json:"max_toggles"`
	TopK             int     `toml:"top_k" yaml:"top_k" json:"top_k"`
	FreqTemperature  float64 `toml:"freq_temperature" yaml:"freq_temperature" json:"freq_temperature"`
	RequireKnown     bool    `toml:"require_known" yaml:"require_known" json:"require_known"`
}

// RedisConfig points at the store of user-added corrections.
type RedisConfig struct {
	Enabled  bool   `toml:"enabled" yaml:"enabled" json:"enabled"`
	Addr     string `toml:"addr" yaml:"addr" json:"addr"`
	Password string `toml:"password" yaml:"password" json:"password"`
	DB       int    `toml:"db" yaml:"db" json:"db"`
	Key      string `toml:"key" yaml:"key" json:"key"`
}

type HTTPConfig struct {
	Addr string `toml:"addr" yaml:"addr" json:"addr"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level" json:"level"`
	Format string `toml:"format" yaml:"format" json:"format"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	vc := correction.DefaultVariantConfig()
	return &Config{
		Options: OptionsConfig{
			HighlightChanges: options.DefaultOptions.HighlightChanges,
			CorrectionMenu:   options.DefaultOptions.EnableCorrectionMenu,
			AutoConvert:      options.DefaultOptions.EnableAutoConvert,
		},
		Patterns: PatternsConfig{Radius: pattern.DefaultRadius},
		Corrections: CorrectionsConfig{
			GenerateVariants: true,
			MaxToggles:       vc.MaxPositions,
			TopK:             vc.TopK,
			FreqTemperature:  2.0,
		},
		Redis: RedisConfig{Addr: "localhost:6379", Key: "custom_corrections"},
		HTTP:  HTTPConfig{Addr: ":8080"},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Patterns.Radius < 0 {
		return fmt.Errorf("%w: patterns.radius must not be negative", ErrInvalidConfig)
	}
	if c.Corrections.MaxToggles < 0 || c.Corrections.TopK < 0 {
		return fmt.Errorf("%w: correction limits must not be negative", ErrInvalidConfig)
	}
	if c.Corrections.MaxToggles > correction.MaxTogglePositions {
		return fmt.Errorf("%w: corrections.max_toggles must be at most %d", ErrInvalidConfig, correction.MaxTogglePositions)
	}
	if c.Corrections.FreqTemperature < 0 {
		return fmt.Errorf("%w: corrections.freq_temperature must not be negative", ErrInvalidConfig)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("%w: redis.db must not be negative", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ApplyEnvOverrides lets the environment win over the file. Setting
// REDIS_ADDR enables the Redis store.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.HTTP.Addr = getenv("HTTP_ADDR", c.HTTP.Addr)
	c.Patterns.Path = getenv("PATTERNS_PATH", c.Patterns.Path)
	c.Corrections.Path = getenv("CORRECTIONS_PATH", c.Corrections.Path)
	c.Corrections.LexiconPath = getenv("LEXICON_PATH", c.Corrections.LexiconPath)
	c.Log.Level = getenv("LOG_LEVEL", c.Log.Level)
}

// SessionOptions converts the options section.
func (c *Config) SessionOptions() options.SessionOptions {
	return options.SessionOptions{
		HighlightChanges:     c.Options.HighlightChanges,
		EnableCorrectionMenu: c.Options.CorrectionMenu,
		EnableAutoConvert:    c.Options.AutoConvert,
	}
}

// VariantConfig converts the corrections section.
func (c *Config) VariantConfig() correction.VariantConfig {
	vc := correction.DefaultVariantConfig()
	vc.MaxPositions = c.Corrections.MaxToggles
	vc.TopK = c.Corrections.TopK
	vc.RequireKnown = c.Corrections.RequireKnown
	return vc
}

// Logging converts the log section. Call Validate first.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	if lvl, err := logging.ParseLevel(c.Log.Level); err == nil {
		cfg.Level = lvl
	}
	if f, err := logging.ParseFormat(c.Log.Format); err == nil {
		cfg.Format = f
	}
	return cfg
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

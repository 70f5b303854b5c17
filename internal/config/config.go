// Package config handles configuration loading for marketmood.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Sentiment SentimentConfig `mapstructure:"sentiment" yaml:"sentiment"`
	Batch     BatchConfig     `mapstructure:"batch"     yaml:"batch"`
	Keys      KeysConfig      `mapstructure:"keys"      yaml:"keys"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// SentimentConfig holds aggregation engine settings.
type SentimentConfig struct {
	Quota    int      `mapstructure:"quota"     yaml:"quota"`     // article quota per symbol
	CacheTTL int      `mapstructure:"cache_ttl" yaml:"cache_ttl"` // seconds
	Sources  []string `mapstructure:"sources"   yaml:"sources"`   // enabled sources, "all" = everything
	UseCase  string   `mapstructure:"use_case"  yaml:"use_case"`  // "hft", "retail", "quant", "academic", "fintech"
}

// BatchConfig holds batch processor settings.
type BatchConfig struct {
	Quota       int `mapstructure:"quota"       yaml:"quota"`
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// KeysConfig holds provider API credentials.
type KeysConfig struct {
	EODHD        string `mapstructure:"eodhd"         yaml:"eodhd"`
	AlphaVantage string `mapstructure:"alpha_vantage" yaml:"alpha_vantage"`
	Finnhub      string `mapstructure:"finnhub"       yaml:"finnhub"`
	StockGeist   string `mapstructure:"stockgeist"    yaml:"stockgeist"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.marketmood/config.yaml (home directory)
//  3. /etc/marketmood/config.yaml (system)
//
// Environment variables override config file values.
// Format: MARKETMOOD_<SECTION>_<KEY>, e.g., MARKETMOOD_KEYS_FINNHUB
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".marketmood"))
	v.AddConfigPath("/etc/marketmood")

	v.SetEnvPrefix("MARKETMOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("MARKETMOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("sentiment.quota", 7)
	v.SetDefault("sentiment.cache_ttl", 3600) // 1 hour
	v.SetDefault("sentiment.sources", []string{"all"})

	v.SetDefault("batch.quota", 10)
	v.SetDefault("batch.concurrency", 4)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("MARKETMOOD_KEYS_EODHD"); key != "" {
		cfg.Keys.EODHD = key
	}
	if key := os.Getenv("MARKETMOOD_KEYS_ALPHA_VANTAGE"); key != "" {
		cfg.Keys.AlphaVantage = key
	}
	if key := os.Getenv("MARKETMOOD_KEYS_FINNHUB"); key != "" {
		cfg.Keys.Finnhub = key
	}
	if key := os.Getenv("MARKETMOOD_KEYS_STOCKGEIST"); key != "" {
		cfg.Keys.StockGeist = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Package config loads the analyzer's tunables once at startup. The loaded
// Config is treated as immutable and passed explicitly into each component;
// nothing mutates it at runtime.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for one analyzer run.
type Config struct {
	Search   SearchConfig   `mapstructure:"search"`
	Matching MatchingConfig `mapstructure:"matching"`
	Pacing   PacingConfig   `mapstructure:"pacing"`
	Output   OutputConfig   `mapstructure:"output"`
}

// SearchConfig holds the outbound request settings.
type SearchConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	UserAgents        []string      `mapstructure:"user_agents"`
}

// MatchingConfig holds the relevance policy. The threshold is deliberately a
// tunable: looser values admit more but noisier matches.
type MatchingConfig struct {
	Threshold    float64 `mapstructure:"threshold"`
	SelectLimit  int     `mapstructure:"select_limit"`
	ExtractLimit int     `mapstructure:"extract_limit"`
}

// PacingConfig bounds the randomized pause between row fetches.
type PacingConfig struct {
	DelayMin time.Duration `mapstructure:"delay_min"`
	DelayMax time.Duration `mapstructure:"delay_max"`
}

// OutputConfig controls where the analyzed workbook lands.
type OutputConfig struct {
	Suffix string `mapstructure:"suffix"`
}

// Load reads configuration from an optional config.yaml and AVITO_* environment
// variables, applies defaults and validates the result.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("AVITO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// no config file; environment variables and defaults apply
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Mobile search over all of Russia; the mobile markup is lighter and
	// historically more stable than the desktop one.
	v.SetDefault("search.base_url", "https://m.avito.ru/rossiya")
	v.SetDefault("search.timeout", "20s")
	v.SetDefault("search.requests_per_minute", 20)
	v.SetDefault("search.user_agents", []string{
		"Mozilla/5.0 (Linux; Android 13; Pixel 6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Mobile Safari/537.36",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
		"Mozilla/5.0 (Linux; Android 12; SM-G991B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Mobile Safari/537.36",
	})

	v.SetDefault("matching.threshold", 0.3)
	v.SetDefault("matching.select_limit", 20)
	v.SetDefault("matching.extract_limit", 50)

	v.SetDefault("pacing.delay_min", "1s")
	v.SetDefault("pacing.delay_max", "2s")

	v.SetDefault("output.suffix", "_analyzed")
}

func validate(config *Config) error {
	if u, err := url.Parse(config.Search.BaseURL); err != nil || u.Hostname() == "" {
		return fmt.Errorf("search base_url must be a valid absolute URL, got: %q", config.Search.BaseURL)
	}
	if len(config.Search.UserAgents) == 0 {
		return fmt.Errorf("at least one user agent is required")
	}
	if config.Search.Timeout <= 0 {
		return fmt.Errorf("search timeout must be positive, got: %s", config.Search.Timeout)
	}

	if config.Matching.Threshold < 0 || config.Matching.Threshold > 1 {
		return fmt.Errorf("matching threshold must be within [0, 1], got: %g", config.Matching.Threshold)
	}
	if config.Matching.SelectLimit <= 0 {
		return fmt.Errorf("matching select_limit must be positive, got: %d", config.Matching.SelectLimit)
	}
	if config.Matching.ExtractLimit < config.Matching.SelectLimit {
		return fmt.Errorf("matching extract_limit (%d) must not be below select_limit (%d)",
			config.Matching.ExtractLimit, config.Matching.SelectLimit)
	}

	if config.Pacing.DelayMin < 0 || config.Pacing.DelayMax < config.Pacing.DelayMin {
		return fmt.Errorf("pacing delays must satisfy 0 <= delay_min <= delay_max")
	}

	if config.Output.Suffix == "" {
		return fmt.Errorf("output suffix must not be empty")
	}

	return nil
}

// Package config resolves runtime settings from defaults, an optional
// config file, and SKILLAUDIT_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	Concurrency     int           `mapstructure:"concurrency"`
	Timeout         time.Duration `mapstructure:"timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
	ArchiveEndpoint string        `mapstructure:"archive_endpoint"`

	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	AnthropicAPIURL string `mapstructure:"anthropic_api_url"`
	AnthropicModel  string `mapstructure:"anthropic_model"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load builds the configuration. When file is empty, no config file is
// required; when set, a missing file is an error.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("concurrency", 10)
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("user_agent", "skillaudit/1.0 (link validation)")
	v.SetDefault("archive_endpoint", "https://archive.org/wayback/available")
	v.SetDefault("anthropic_api_url", "https://api.anthropic.com")
	v.SetDefault("anthropic_model", "claude-sonnet-4-20250514")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix("SKILLAUDIT")
	v.AutomaticEnv()
	// The Anthropic SDK convention wins over the prefixed form.
	_ = v.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY", "SKILLAUDIT_ANTHROPIC_API_KEY")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

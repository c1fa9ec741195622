package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "REDPOST"

// Default values applied before any file or environment source.
var defaults = map[string]any{
	"server.port":                 8080,
	"server.log_level":            "info",
	"llm.gemini_api_key":          "",
	"llm.base_url":                "",
	"llm.text_model":              "gemini-3-flash-preview",
	"llm.image_model":             "gemini-2.5-flash-image",
	"llm.request_timeout_seconds": 90,
	"llm.prompt_template_path":    "",
	"cover.fallback_base_url":     "https://image.pollinations.ai/prompt",
	"cover.width":                 1080,
	"cover.height":                1440,
	"cover.fallback_model":        "flux",
	"progress.tick_interval_ms":   400,
	"progress.soft_ceiling":       95,
	"progress.done_hold_ms":       800,
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The key is commonly provided under the provider's own variable names.
	if err := v.BindEnv("llm.gemini_api_key",
		EnvPrefix+"_LLM_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.LLM.GeminiAPIKey = strings.TrimSpace(cfg.LLM.GeminiAPIKey)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

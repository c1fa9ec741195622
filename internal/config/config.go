package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Cover    CoverConfig    `mapstructure:"cover" validate:"required"`
	Progress ProgressConfig `mapstructure:"progress" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// GeminiAPIKey may be empty; requests then fail with an auth-missing error
	// instead of the process refusing to start.
	GeminiAPIKey string `mapstructure:"gemini_api_key"`

	// BaseURL redirects all model calls, e.g. through a proxy host.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	TextModel  string `mapstructure:"text_model" validate:"required"`
	ImageModel string `mapstructure:"image_model" validate:"required"`

	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0,lte=600"`

	// PromptTemplatePath overrides the embedded post prompt template.
	PromptTemplatePath string `mapstructure:"prompt_template_path" validate:"omitempty,file"`
}

// RequestTimeout returns the per-call timeout for model requests.
func (c LLMConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// CoverConfig contains the fallback image service settings.
type CoverConfig struct {
	FallbackBaseURL string `mapstructure:"fallback_base_url" validate:"required,url"`
	Width           int    `mapstructure:"width" validate:"required,gt=0,lte=4096"`
	Height          int    `mapstructure:"height" validate:"required,gt=0,lte=4096"`
	FallbackModel   string `mapstructure:"fallback_model"`
}

// ProgressConfig contains the progress simulation settings.
type ProgressConfig struct {
	TickIntervalMs int `mapstructure:"tick_interval_ms" validate:"required,gte=10"`
	SoftCeiling    int `mapstructure:"soft_ceiling" validate:"required,gte=1,lte=95"`
	DoneHoldMs     int `mapstructure:"done_hold_ms" validate:"gte=0"`
}

// TickInterval returns the interval between progress ticks.
func (c ProgressConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// DoneHold returns how long 100% is shown before progress resets to idle.
func (c ProgressConfig) DoneHold() time.Duration {
	return time.Duration(c.DoneHoldMs) * time.Millisecond
}

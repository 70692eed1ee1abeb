// Package config provides configuration structures for the comparison engine
package config

import (
	"os"
	"strconv"
	"time"
)

// ProviderConfig describes one configured backend
type ProviderConfig struct {
	// Name identifies the provider (e.g., "openai", "gemini")
	Name string `mapstructure:"name"`

	// Type selects the transport ("openai" wire shape by default, "gemini"
	// for the Gemini SDK)
	Type string `mapstructure:"type"`

	// BaseURL is the endpoint the transport posts to
	BaseURL string `mapstructure:"base_url"`

	// APIKey is the credential for this backend
	APIKey string `mapstructure:"api_key"`

	// Models is the ordered list of model identifiers this backend serves
	Models []string `mapstructure:"models"`
}

// Tiers holds the timeout bounds selected by prompt length
type Tiers struct {
	// Quick applies below QuickThreshold characters
	Quick time.Duration `mapstructure:"quick"`

	// Standard applies below StandardThreshold characters
	Standard time.Duration `mapstructure:"standard"`

	// Extended applies at or above StandardThreshold characters
	Extended time.Duration `mapstructure:"extended"`

	// Default applies when the prompt length cannot be classified
	Default time.Duration `mapstructure:"default"`

	// QuickThreshold is the exclusive upper character bound for Quick
	QuickThreshold int `mapstructure:"quick_threshold"`

	// StandardThreshold is the exclusive upper character bound for Standard
	StandardThreshold int `mapstructure:"standard_threshold"`
}

// Config provides explicit configuration for the comparison engine.
// It is read once at startup and treated as immutable for the lifetime of a
// request.
type Config struct {
	// Providers are the configured backends in resolution priority order
	Providers []ProviderConfig

	// Tiers are the timeout bounds per prompt-length tier
	Tiers Tiers

	// MaxModels caps the number of models in a single comparison
	MaxModels int

	// MaxConcurrency caps simultaneous in-flight calls in parallel mode
	MaxConcurrency int

	// RetryAttempts is the total attempts per call, including the first
	RetryAttempts int

	// RetryDelay is the fixed pause between attempts
	RetryDelay time.Duration

	// MaxTokens limits response length on outbound requests
	MaxTokens int

	// Temperature controls sampling on outbound requests
	Temperature float64
}

// Option allows optional configuration updates
type Option func(*Config)

// WithProvider appends a provider to the resolution order
func WithProvider(p ProviderConfig) Option {
	return func(c *Config) {
		c.Providers = append(c.Providers, p)
	}
}

// WithTiers sets the timeout tiers
func WithTiers(t Tiers) Option {
	return func(c *Config) {
		c.Tiers = t
	}
}

// WithMaxModels sets the per-comparison model cap
func WithMaxModels(n int) Option {
	return func(c *Config) {
		c.MaxModels = n
	}
}

// WithMaxConcurrency sets the parallel in-flight cap
func WithMaxConcurrency(n int) Option {
	return func(c *Config) {
		c.MaxConcurrency = n
	}
}

// WithRetry sets the retry plan applied to transient call failures
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Config) {
		c.RetryAttempts = attempts
		c.RetryDelay = delay
	}
}

// WithMaxTokens sets the maximum tokens for responses
func WithMaxTokens(maxTokens int) Option {
	return func(c *Config) {
		c.MaxTokens = maxTokens
	}
}

// WithTemperature sets the temperature for sampling
func WithTemperature(temperature float64) Option {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

// DefaultTiers returns the stock timeout tiering
func DefaultTiers() Tiers {
	return Tiers{
		Quick:             15 * time.Second,
		Standard:          30 * time.Second,
		Extended:          90 * time.Second,
		Default:           30 * time.Second,
		QuickThreshold:    2000,
		StandardThreshold: 10000,
	}
}

// New creates a new configuration with defaults
func New(options ...Option) Config {
	config := Config{
		Tiers:          DefaultTiers(),
		MaxModels:      3,
		MaxConcurrency: 3,
		RetryAttempts:  2,
		RetryDelay:     time.Second,
		MaxTokens:      4096,
		Temperature:    0.7,
	}

	for _, option := range options {
		option(&config)
	}

	return config
}

// FromEnvironment loads engine settings from environment variables.
// Provider blocks come from the config file; only scalar knobs are read here.
func FromEnvironment(prefix string) Config {
	if prefix != "" && prefix[len(prefix)-1] != '_' {
		prefix = prefix + "_"
	}

	config := New()
	config.MaxModels = parseEnvInt(prefix+"MAX_MODELS", config.MaxModels)
	config.MaxConcurrency = parseEnvInt(prefix+"MAX_CONCURRENCY", config.MaxConcurrency)
	config.RetryAttempts = parseEnvInt(prefix+"RETRY_ATTEMPTS", config.RetryAttempts)
	config.RetryDelay = parseEnvDuration(prefix+"RETRY_DELAY", config.RetryDelay)
	config.MaxTokens = parseEnvInt(prefix+"MAX_TOKENS", config.MaxTokens)
	config.Temperature = parseEnvFloat(prefix+"TEMPERATURE", config.Temperature)

	return config
}

// Merge combines this configuration with another, with the other taking precedence
func (c Config) Merge(other Config) Config {
	result := c

	if len(other.Providers) != 0 {
		result.Providers = other.Providers
	}

	if other.Tiers != (Tiers{}) {
		result.Tiers = other.Tiers
	}

	if other.MaxModels != 0 {
		result.MaxModels = other.MaxModels
	}

	if other.MaxConcurrency != 0 {
		result.MaxConcurrency = other.MaxConcurrency
	}

	if other.RetryAttempts != 0 {
		result.RetryAttempts = other.RetryAttempts
	}

	if other.RetryDelay != 0 {
		result.RetryDelay = other.RetryDelay
	}

	if other.MaxTokens != 0 {
		result.MaxTokens = other.MaxTokens
	}

	if other.Temperature != 0 {
		result.Temperature = other.Temperature
	}

	return result
}

// WithOptions returns a new Config with options applied
func (c Config) WithOptions(options ...Option) Config {
	result := c
	for _, option := range options {
		option(&result)
	}
	return result
}

// Utility functions for environment variable parsing

func parseEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

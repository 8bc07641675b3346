package config

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string

	// Database configuration
	DatabaseURL string

	// YouTube configuration
	YouTubeAPIKey  string
	YouTubeTimeout time.Duration // per-request bound on YouTube API calls

	// Polling configuration
	PollInterval      time.Duration // base interval; scaled by guild count each sweep
	PollRetryInterval time.Duration // fixed short re-arm after a sweep-level failure

	// Metrics
	MetricsAddr string // empty disables the metrics endpoint

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		YouTubeAPIKey: os.Getenv("YOUTUBE_API_KEY"),

		// Polling defaults
		PollInterval:      time.Minute,
		PollRetryInterval: time.Minute,
		YouTubeTimeout:    10 * time.Second,

		MetricsAddr: os.Getenv("METRICS_ADDR"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if interval := os.Getenv("POLL_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil && parsed > 0 {
			config.PollInterval = parsed
		}
	}
	if retry := os.Getenv("POLL_RETRY_INTERVAL"); retry != "" {
		if parsed, err := time.ParseDuration(retry); err == nil && parsed > 0 {
			config.PollRetryInterval = parsed
		}
	}
	if timeout := os.Getenv("YOUTUBE_TIMEOUT"); timeout != "" {
		if parsed, err := time.ParseDuration(timeout); err == nil && parsed > 0 {
			config.YouTubeTimeout = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.YouTubeAPIKey == "" {
			return nil, fmt.Errorf("YOUTUBE_API_KEY is required")
		}
	}

	return config, nil
}

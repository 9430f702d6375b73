package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Embedding EmbeddingConfig
	Rewrite   RewriteConfig
	Cache     CacheConfig
	Scoring   ScoringConfig
	Optimizer OptimizerConfig
	Profiles  ProfilesConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmbeddingConfig holds embedding provider configuration
type EmbeddingConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// RewriteConfig holds rewriting provider configuration
type RewriteConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

// CacheConfig holds embedding cache configuration
type CacheConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
}

// ScoringConfig holds scoring-related configuration
type ScoringConfig struct {
	WeaknessThreshold float64 `mapstructure:"weakness_threshold"`
}

// OptimizerConfig holds optimizer loop configuration
type OptimizerConfig struct {
	MaxIterations  int     `mapstructure:"max_iterations"`
	MinImprovement float64 `mapstructure:"min_improvement"`
	ScoreCeiling   float64 `mapstructure:"score_ceiling"`
}

// ProfilesConfig holds the category profile table location
type ProfilesConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/visara/")

	// Environment variable settings
	v.SetEnvPrefix("VISARA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Provider defaults. The API keys default to empty so viper knows the
	// keys exist; Unmarshal only resolves env vars for keys it has seen, so
	// without these entries VISARA_EMBEDDING_API_KEY and
	// VISARA_REWRITE_API_KEY would never be read.
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("rewrite.api_key", "")
	v.SetDefault("embedding.base_url", "https://api.openai.com")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("rewrite.base_url", "https://api.openai.com")
	v.SetDefault("rewrite.model", "gpt-4o-mini")
	v.SetDefault("rewrite.temperature", 0.7)

	// Cache defaults
	v.SetDefault("cache.max_entries", 4096)

	// Scoring defaults
	v.SetDefault("scoring.weakness_threshold", 70.0)

	// Optimizer defaults
	v.SetDefault("optimizer.max_iterations", 5)
	v.SetDefault("optimizer.min_improvement", 1.0)
	v.SetDefault("optimizer.score_ceiling", 95.0)

	// Profile table defaults
	v.SetDefault("profiles.path", "profiles.yaml")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Embedding.APIKey == "" {
		return fmt.Errorf("embedding API key is required (set VISARA_EMBEDDING_API_KEY)")
	}

	if config.Rewrite.APIKey == "" {
		return fmt.Errorf("rewrite API key is required (set VISARA_REWRITE_API_KEY)")
	}

	if config.Profiles.Path == "" {
		return fmt.Errorf("profiles path is required")
	}

	if config.Optimizer.MaxIterations <= 0 {
		return fmt.Errorf("optimizer max_iterations must be positive, got: %d", config.Optimizer.MaxIterations)
	}

	if config.Scoring.WeaknessThreshold < 0 || config.Scoring.WeaknessThreshold > 100 {
		return fmt.Errorf("scoring weakness_threshold must be in [0,100], got: %.1f", config.Scoring.WeaknessThreshold)
	}

	return nil
}

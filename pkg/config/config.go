package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the client application
type Config struct {
	// Backend API configuration
	API APIConfig `mapstructure:"api"`

	// Local persisted storage configuration
	Storage StorageConfig `mapstructure:"storage"`

	// Monitoring configuration
	Monitoring MonitoringConfig `mapstructure:"monitoring"`

	// Tracing configuration
	Tracing TracingConfig `mapstructure:"tracing"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`
}

// APIConfig holds backend endpoint configuration
type APIConfig struct {
	// BaseURL overrides endpoint resolution entirely when set
	BaseURL string `mapstructure:"base_url"`
	Scheme  string `mapstructure:"scheme"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Prefix  string `mapstructure:"prefix"`
	Timeout int    `mapstructure:"timeout"`
}

// StorageConfig holds local key-value store configuration
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// MonitoringConfig holds client metrics configuration
type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

// TracingConfig holds distributed tracing configuration
type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// ResolveBaseURL resolves the backend endpoint once at startup:
// explicit override when configured, else derived from the configured
// host and port.
func (c *APIConfig) ResolveBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return fmt.Sprintf("%s://%s:%d%s", c.Scheme, c.Host, c.Port, c.Prefix)
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/aghims")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Override with environment variables
	overrideWithEnv(&config)

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// API defaults: same-host backend on port 8000 under /api, matching
	// the standard AGHIMS deployment
	viper.SetDefault("api.scheme", "http")
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 8000)
	viper.SetDefault("api.prefix", "/api")
	viper.SetDefault("api.timeout", 30)

	// Storage defaults
	viper.SetDefault("storage.path", defaultStoragePath())

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", false)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
	viper.SetDefault("monitoring.metrics_port", 9464)

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.jaeger_endpoint", "http://localhost:14268/api/traces")
	viper.SetDefault("tracing.sampling_rate", 0.1)

	// Logging defaults
	viper.SetDefault("log_level", "info")
}

// defaultStoragePath places the local store under the user config dir
func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "aghims", "client.db")
}

// overrideWithEnv overrides configuration with environment variables
func overrideWithEnv(config *Config) {
	if baseURL := os.Getenv("HMS_API_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}

	if dataDir := os.Getenv("HMS_DATA_DIR"); dataDir != "" {
		config.Storage.Path = filepath.Join(dataDir, "client.db")
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.LogLevel = logLevel
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.API.BaseURL == "" {
		if config.API.Host == "" {
			return fmt.Errorf("API host is required when no base URL is set")
		}
		if config.API.Port <= 0 || config.API.Port > 65535 {
			return fmt.Errorf("invalid API port: %d", config.API.Port)
		}
	}

	if config.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}

	if config.API.Timeout <= 0 {
		return fmt.Errorf("invalid API timeout: %d", config.API.Timeout)
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// Cache configuration
	Cache CacheConfig `mapstructure:"cache"`

	// Search configuration
	Search SearchConfig `mapstructure:"search"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Alert configuration
	Alert AlertConfig `mapstructure:"alert"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // memory, badger, neo4j
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	// SeedFile optionally loads a YAML fixture into embedded drivers at
	// startup.
	SeedFile string `mapstructure:"seed_file"`
}

// CacheConfig holds the member-cache configuration
type CacheConfig struct {
	// Backend is "memory" or "badger" (shares the database badger instance)
	Backend string `mapstructure:"backend"`
	// MemberTTL is the member-list cache TTL in seconds
	MemberTTL int `mapstructure:"member_ttl"`
}

// SearchConfig holds search engine tunables
type SearchConfig struct {
	SnippetWindow int `mapstructure:"snippet_window"`
	ContentDocCap int `mapstructure:"content_doc_cap"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// AlertConfig holds configuration for alerting
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("database.driver", "memory")
	viper.SetDefault("database.uri", "")
	viper.SetDefault("database.username", "")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.database", "")
	viper.SetDefault("database.seed_file", "")

	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.member_ttl", 60)

	viper.SetDefault("search.snippet_window", 100)
	viper.SetDefault("search.content_doc_cap", 200)

	viper.SetDefault("telemetry.parquet_path", "")

	viper.SetDefault("alert.enabled", false)

	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 3)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)
}

// overrideWithEnv applies environment variables that take precedence over
// the config file
func overrideWithEnv(config *Config) {
	if v := os.Getenv("SCOUT_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("SCOUT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("SCOUT_DB_DRIVER"); v != "" {
		config.Database.Driver = v
	}
	if v := os.Getenv("SCOUT_DB_URI"); v != "" {
		config.Database.URI = v
	}
	if v := os.Getenv("SCOUT_DB_USERNAME"); v != "" {
		config.Database.Username = v
	}
	if v := os.Getenv("SCOUT_DB_PASSWORD"); v != "" {
		config.Database.Password = v
	}
	if v := os.Getenv("SCOUT_TELEMETRY_PARQUET_PATH"); v != "" {
		config.Telemetry.ParquetPath = v
	}
}

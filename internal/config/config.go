package config

import (
	"os"
	"strconv"
	"strings"

	"gazecenter/domain/gaze"
	"gazecenter/internal/errors"
)

// Participant source kinds
const (
	SourceDirectory = "dir"
	SourceBucket    = "s3"
)

// Config represents the complete application configuration
type Config struct {
	Source    SourceConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	MQTT      MQTTConfig
	Server    ServerConfig
	Analysis  AnalysisConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// SourceConfig selects where participant recordings are read from
type SourceConfig struct {
	Kind string
	Dir  string
}

// StorageConfig holds the object store settings used when Source.Kind is s3
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// DatabaseConfig holds the optional history database settings
type DatabaseConfig struct {
	URL string
}

// MQTTConfig holds the optional summary publisher settings
type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	GinMode        string
	UploadMaxBytes int64
}

// AnalysisConfig holds analysis defaults
type AnalysisConfig struct {
	DefaultRadiusDeg     float64
	AggregateConcurrency int
	UploadRetention      int
}

// ProfilingConfig enables the pprof endpoint
type ProfilingConfig struct {
	Enabled bool
	Port    string
}

// Load reads configuration from environment variables and validates it.
// Callers load a .env file first when they want one.
func Load() (*Config, error) {
	config := &Config{
		Source:   loadSourceConfig(),
		Storage:  loadStorageConfig(),
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		MQTT:     loadMQTTConfig(),
		Server:   loadServerConfig(),
		Analysis: loadAnalysisConfig(),
		Profiling: ProfilingConfig{
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadSourceConfig() SourceConfig {
	return SourceConfig{
		Kind: strings.ToLower(getEnvOrDefault("PARTICIPANT_SOURCE", SourceDirectory)),
		Dir:  getEnvOrDefault("PARTICIPANT_DIR", "./data"),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Endpoint:  getEnvOrDefault("S3_ENDPOINT", "localhost:9000"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Bucket:    os.Getenv("S3_BUCKET"),
		Prefix:    os.Getenv("S3_PREFIX"),
		UseSSL:    getEnvBoolOrDefault("S3_USE_SSL", false),
	}
}

func loadMQTTConfig() MQTTConfig {
	return MQTTConfig{
		Broker:   os.Getenv("MQTT_BROKER"),
		Topic:    getEnvOrDefault("MQTT_TOPIC", "gaze/summary"),
		ClientID: getEnvOrDefault("MQTT_CLIENT_ID", "gazecenter"),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		UploadMaxBytes: int64(getEnvIntOrDefault("UPLOAD_MAX_BYTES", 10*1024*1024)),
	}
}

func loadAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		DefaultRadiusDeg:     getEnvFloatOrDefault("DEFAULT_RADIUS_DEG", gaze.DefaultRadiusDeg),
		AggregateConcurrency: getEnvIntOrDefault("AGGREGATE_CONCURRENCY", 4),
		UploadRetention:      getEnvIntOrDefault("UPLOAD_RETENTION", 16),
	}
}

func validateConfig(config *Config) error {
	switch config.Source.Kind {
	case SourceDirectory:
		if config.Source.Dir == "" {
			return errors.ConfigInvalid("PARTICIPANT_DIR is required")
		}
	case SourceBucket:
		if config.Storage.Bucket == "" {
			return errors.ConfigInvalid("S3_BUCKET is required when PARTICIPANT_SOURCE=s3")
		}
	default:
		return errors.ConfigInvalid("PARTICIPANT_SOURCE must be dir or s3, got " + config.Source.Kind)
	}
	if err := gaze.ValidateRadius(config.Analysis.DefaultRadiusDeg); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if config.Analysis.AggregateConcurrency < 1 {
		return errors.ConfigInvalid("AGGREGATE_CONCURRENCY must be at least 1")
	}
	if config.Analysis.UploadRetention < 1 {
		return errors.ConfigInvalid("UPLOAD_RETENTION must be at least 1")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Server.UploadMaxBytes <= 0 {
		return errors.ConfigInvalid("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

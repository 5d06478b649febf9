package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported workout log backends.
const (
	BackendMongo = "mongo"
	BackendS3    = "s3"
)

// DefaultWindowDays covers the reference day plus the seven days before it.
const DefaultWindowDays = 8

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	Store    StoreConfig    `mapstructure:"store"`
	Loader   LoaderConfig   `mapstructure:"loader"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// StoreConfig selects where workout logs are read from.
type StoreConfig struct {
	Backend  string `mapstructure:"backend"`   // "mongo" or "s3"
	S3Prefix string `mapstructure:"s3_prefix"` // Key prefix for day documents
}

// LoaderConfig controls the windowed training log load.
type LoaderConfig struct {
	WindowDays     int    `mapstructure:"window_days"`
	MaxConcurrency int    `mapstructure:"max_concurrency"` // 0 means one fetch per window day
	Timezone       string `mapstructure:"timezone"`        // IANA name used to cut calendar days
}

// Location resolves the configured timezone.
func (l LoaderConfig) Location() (*time.Location, error) {
	if l.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(l.Timezone)
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Nested keys map to env vars, e.g. loader.window_days -> LOADER_WINDOW_DAYS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "training_log")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("store.backend", BackendMongo)
	v.SetDefault("store.s3_prefix", "workout-logs")
	v.SetDefault("loader.window_days", DefaultWindowDays)
	v.SetDefault("loader.max_concurrency", 0)
	v.SetDefault("loader.timezone", "UTC")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	// A missing config file is fine; defaults and env vars still apply.
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks settings that would otherwise fail late at startup.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMongo:
		if c.Database.URI == "" || c.Database.Name == "" {
			return errors.New("config: database.uri and database.name are required for the mongo backend")
		}
	case BackendS3:
		if c.S3.BucketName == "" {
			return errors.New("config: s3.bucket_name is required for the s3 backend")
		}
	default:
		return fmt.Errorf("config: unknown store.backend %q", c.Store.Backend)
	}
	if c.Loader.WindowDays <= 0 {
		return fmt.Errorf("config: loader.window_days must be positive, got %d", c.Loader.WindowDays)
	}
	if c.Loader.MaxConcurrency < 0 {
		return fmt.Errorf("config: loader.max_concurrency must not be negative, got %d", c.Loader.MaxConcurrency)
	}
	if _, err := c.Loader.Location(); err != nil {
		return fmt.Errorf("config: loader.timezone: %w", err)
	}
	return nil
}

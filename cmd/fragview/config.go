package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the fragview configuration.
// Values come from a config file, FRAGVIEW_* environment variables and flags.
type Config struct {
	Backend  string         `mapstructure:"backend"`
	LogLevel string         `mapstructure:"logLevel"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Local    LocalConfig    `mapstructure:"local"`
	S3       S3Config       `mapstructure:"s3"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Loader   LoaderConfig   `mapstructure:"loader"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Throttle ThrottleConfig `mapstructure:"throttle"`
}

// HTTPConfig configures the asset server backend.
type HTTPConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	APIKey      string `mapstructure:"apiKey"`
	LegacyPath  bool   `mapstructure:"legacyPath"`
	TimeoutSecs int    `mapstructure:"timeoutSeconds"`
}

// LocalConfig configures the directory backend.
type LocalConfig struct {
	Root string `mapstructure:"root"`
}

// S3Config configures the S3 backend.
type S3Config struct {
	Bucket       string `mapstructure:"bucket"`
	Prefix       string `mapstructure:"prefix"`
	Region       string `mapstructure:"region"`
	CatalogTable string `mapstructure:"catalogTable"`
}

// MinIOConfig configures the MinIO backend.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"accessKey"`
	SecretKey string `mapstructure:"secretKey"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	UseSSL    bool   `mapstructure:"useSSL"`
}

// LoaderConfig configures retry and decompression.
type LoaderConfig struct {
	MaxRetries   int           `mapstructure:"maxRetries"`
	Backoff      time.Duration `mapstructure:"backoff"`
	Decompressor string        `mapstructure:"decompressor"`
}

// EngineConfig configures fragment file decoding.
type EngineConfig struct {
	// StrictFormat rejects fragment files with fields this build does not know.
	StrictFormat bool `mapstructure:"strictFormat"`
}

// CacheConfig configures the in-memory asset cache. Zero capacity disables it.
type CacheConfig struct {
	CapacityBytes int64 `mapstructure:"capacityBytes"`
}

// ThrottleConfig configures fetch throttling.
type ThrottleConfig struct {
	MaxConcurrentFetches int64   `mapstructure:"maxConcurrentFetches"`
	RequestsPerSecond    float64 `mapstructure:"requestsPerSecond"`
}

// LoadConfig reads configuration from configPath, or from ./fragview.yaml
// when configPath is empty, and overlays FRAGVIEW_* environment variables.
func LoadConfig(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("fragview")
		v.SetConfigType("yaml")
	}

	v.SetDefault("backend", "http")
	v.SetDefault("logLevel", "info")
	v.SetDefault("http.endpoint", "http://localhost:3000")
	v.SetDefault("http.timeoutSeconds", 30)
	v.SetDefault("local.root", ".")
	v.SetDefault("loader.maxRetries", 3)
	v.SetDefault("loader.backoff", time.Second)
	v.SetDefault("loader.decompressor", "gzip")
	v.SetDefault("throttle.maxConcurrentFetches", 4)

	v.SetEnvPrefix("fragview")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // http.apiKey -> FRAGVIEW_HTTP_APIKEY
	v.AutomaticEnv()

	// Keys without a default are only seen by Unmarshal once bound.
	for _, key := range []string{
		"http.apiKey", "http.legacyPath",
		"s3.bucket", "s3.prefix", "s3.region", "s3.catalogTable",
		"minio.endpoint", "minio.accessKey", "minio.secretKey", "minio.bucket", "minio.prefix", "minio.useSSL",
		"engine.strictFormat", "cache.capacityBytes", "throttle.requestsPerSecond",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}

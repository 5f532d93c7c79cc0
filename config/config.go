// Package config loads the settings of the modelcompat CLI and server.
//
// Settings start from Default, are overlaid with a YAML file and then with
// MODELCOMPAT_* environment variables, and are validated last.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceLocal = "local"
	SourceHTTP  = "http"
	SourceS3    = "s3"
	SourceMinIO = "minio"
)

// Catalog kinds.
const (
	CatalogBlob     = "blob"
	CatalogDynamoDB = "dynamodb"
)

// Config is the complete configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Catalog CatalogConfig `yaml:"catalog"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
	Export  ExportConfig  `yaml:"export"`
}

// SourceConfig selects the blob store holding the catalog and snapshots.
type SourceConfig struct {
	Kind string `yaml:"kind"`

	// local
	Path string `yaml:"path"`

	// http
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`

	// s3 and minio
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`

	// minio
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
}

// CatalogConfig selects where the version catalog is read from.
type CatalogConfig struct {
	Kind string `yaml:"kind"`
	// Name is the blob name (blob) or the partition key value (dynamodb).
	Name   string `yaml:"name"`
	Table  string `yaml:"table"`
	Region string `yaml:"region"`
}

// FetchConfig bounds snapshot fetches.
type FetchConfig struct {
	MaxConcurrent int64   `yaml:"max_concurrent"`
	PerSecond     float64 `yaml:"per_second"`
	Burst         int     `yaml:"burst"`
}

// CacheConfig sizes the blob cache. A zero capacity disables it.
type CacheConfig struct {
	CapacityBytes    int64 `yaml:"capacity_bytes"`
	MemoryLimitBytes int64 `yaml:"memory_limit_bytes"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Metrics bool   `yaml:"metrics"`
}

// ExportConfig configures where exports are written.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Source: SourceConfig{
			Kind: SourceLocal,
			Path: "data",
		},
		Catalog: CatalogConfig{
			Kind: CatalogBlob,
			Name: "index.json",
		},
		Fetch: FetchConfig{
			MaxConcurrent: 8,
		},
		Cache: CacheConfig{
			CapacityBytes: 64 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
		},
	}
}

// Load returns Default overlaid with the YAML file at path (if it exists)
// and the environment, validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return Parse([]byte(os.ExpandEnv(string(data))), cfg)
}

// Parse decodes YAML into cfg, leaving unset fields untouched.
// Unknown fields are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MODELCOMPAT_SOURCE_KIND"); v != "" {
		cfg.Source.Kind = v
	}
	if v := os.Getenv("MODELCOMPAT_SOURCE_PATH"); v != "" {
		cfg.Source.Path = v
	}
	if v := os.Getenv("MODELCOMPAT_SOURCE_URL"); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv("MODELCOMPAT_SOURCE_BUCKET"); v != "" {
		cfg.Source.Bucket = v
	}
	if v := os.Getenv("MODELCOMPAT_SOURCE_PREFIX"); v != "" {
		cfg.Source.Prefix = v
	}
	if v := os.Getenv("MODELCOMPAT_MINIO_ACCESS_KEY"); v != "" {
		cfg.Source.AccessKey = v
	}
	if v := os.Getenv("MODELCOMPAT_MINIO_SECRET_KEY"); v != "" {
		cfg.Source.SecretKey = v
	}
	if v := os.Getenv("MODELCOMPAT_CATALOG_TABLE"); v != "" {
		cfg.Catalog.Kind = CatalogDynamoDB
		cfg.Catalog.Table = v
	}
	if v := os.Getenv("MODELCOMPAT_FETCH_MAX_CONCURRENT"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Fetch.MaxConcurrent = i
		}
	}
	if v := os.Getenv("MODELCOMPAT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MODELCOMPAT_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("MODELCOMPAT_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MODELCOMPAT_SERVER_METRICS"); v != "" {
		cfg.Server.Metrics = v == "true" || v == "1"
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.Source.Kind {
	case SourceLocal:
		if c.Source.Path == "" {
			return errors.New("source.path is required for local sources")
		}
	case SourceHTTP:
		if c.Source.URL == "" {
			return errors.New("source.url is required for http sources")
		}
	case SourceS3:
		if c.Source.Bucket == "" {
			return errors.New("source.bucket is required for s3 sources")
		}
	case SourceMinIO:
		if c.Source.Bucket == "" || c.Source.Endpoint == "" {
			return errors.New("source.bucket and source.endpoint are required for minio sources")
		}
	default:
		return fmt.Errorf("unknown source.kind %q", c.Source.Kind)
	}

	switch c.Catalog.Kind {
	case CatalogBlob:
	case CatalogDynamoDB:
		if c.Catalog.Table == "" {
			return errors.New("catalog.table is required for dynamodb catalogs")
		}
		if c.Catalog.Name == "" {
			return errors.New("catalog.name is required for dynamodb catalogs")
		}
	default:
		return fmt.Errorf("unknown catalog.kind %q", c.Catalog.Kind)
	}

	if c.Fetch.MaxConcurrent < 0 {
		return errors.New("fetch.max_concurrent must be >= 0")
	}
	if c.Fetch.PerSecond < 0 {
		return errors.New("fetch.per_second must be >= 0")
	}
	if c.Cache.CapacityBytes < 0 || c.Cache.MemoryLimitBytes < 0 {
		return errors.New("cache sizes must be >= 0")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

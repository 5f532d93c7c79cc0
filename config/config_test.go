package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("TEST_MINIO_SECRET", "s3cr3t")

	path := filepath.Join(t.TempDir(), "modelcompat.yaml")
	yml := `
source:
  kind: minio
  endpoint: localhost:9000
  bucket: compat
  prefix: snapshots/
  access_key: minioadmin
  secret_key: ${TEST_MINIO_SECRET}
catalog:
  kind: dynamodb
  name: macos
  table: modelcompat-catalog
fetch:
  max_concurrent: 4
  per_second: 20
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceMinIO, cfg.Source.Kind)
	assert.Equal(t, "s3cr3t", cfg.Source.SecretKey)
	assert.Equal(t, CatalogDynamoDB, cfg.Catalog.Kind)
	assert.Equal(t, int64(4), cfg.Fetch.MaxConcurrent)
	assert.Equal(t, 20.0, cfg.Fetch.PerSecond)
	// Unset sections keep their defaults.
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(64<<20), cfg.Cache.CapacityBytes)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MODELCOMPAT_SOURCE_KIND", "http")
	t.Setenv("MODELCOMPAT_SOURCE_URL", "https://example.com/data")
	t.Setenv("MODELCOMPAT_SERVER_METRICS", "false")
	t.Setenv("MODELCOMPAT_FETCH_MAX_CONCURRENT", "2")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceHTTP, cfg.Source.Kind)
	assert.Equal(t, "https://example.com/data", cfg.Source.URL)
	assert.False(t, cfg.Server.Metrics)
	assert.Equal(t, int64(2), cfg.Fetch.MaxConcurrent)
}

func TestParse_UnknownField(t *testing.T) {
	cfg := Default()
	err := Parse([]byte("sorce:\n  kind: local\n"), &cfg)
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	cfg := Default()
	require.NoError(t, Parse(nil, &cfg))
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"UnknownSource", func(c *Config) { c.Source.Kind = "ftp" }},
		{"LocalWithoutPath", func(c *Config) { c.Source.Path = "" }},
		{"HTTPWithoutURL", func(c *Config) { c.Source.Kind = SourceHTTP }},
		{"S3WithoutBucket", func(c *Config) { c.Source.Kind = SourceS3 }},
		{"MinIOWithoutEndpoint", func(c *Config) { c.Source.Kind = SourceMinIO; c.Source.Bucket = "b" }},
		{"DynamoDBWithoutTable", func(c *Config) { c.Catalog.Kind = CatalogDynamoDB }},
		{"UnknownCatalog", func(c *Config) { c.Catalog.Kind = "sql" }},
		{"NegativeFetch", func(c *Config) { c.Fetch.MaxConcurrent = -1 }},
		{"NegativeCache", func(c *Config) { c.Cache.CapacityBytes = -1 }},
		{"BadLevel", func(c *Config) { c.Log.Level = "loud" }},
		{"BadFormat", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

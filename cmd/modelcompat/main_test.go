package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/modelcompat/model"
	"github.com/hupe1980/modelcompat/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixture lays out a local source with three versions, the newest of
// which is gzip compressed, and returns the path of a config file for it.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(data, 0o755))

	files := map[string]string{
		"index.json": `[
  {"version_name":"macOS Monterey","version_number":"12","data_file":"monterey.json"},
  {"version_name":"macOS Ventura","version_number":"13","data_file":"ventura.json"},
  {"version_name":"macOS Sonoma","version_number":"14","data_file":"sonoma.json.gz"}
]`,
		"monterey.json": `{"models":[
  {"model_identifier":"MacBookPro11,4","product_line":"MacBook Pro","short_name":"MacBook Pro (2015)","cpu_architecture":"x86_64","release_date":"2015-05-19"},
  {"model_identifier":"MacBookAir8,1","product_line":"MacBook Air","short_name":"MacBook Air (2018)","cpu_architecture":"x86_64","release_date":"2018-10-30"},
  {"model_identifier":"MacBookAir10,1","product_line":"MacBook Air","short_name":"MacBook Air (M1)","cpu_architecture":"arm64","release_date":"2020-11-17"}
]}`,
		"ventura.json": `{"models":[
  {"model_identifier":"MacBookAir8,1","product_line":"MacBook Air","short_name":"MacBook Air (2018)","cpu_architecture":"x86_64","release_date":"2018-10-30"},
  {"model_identifier":"MacBookAir10,1","product_line":"MacBook Air","short_name":"MacBook Air (M1)","cpu_architecture":"arm64","release_date":"2020-11-17"}
]}`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(data, name), []byte(body), 0o644))
	}

	sonoma, err := snapshot.Compress([]byte(`{"models":[
  {"model_identifier":"MacBookAir10,1","product_line":"MacBook Air","short_name":"MacBook Air (M1)","cpu_architecture":"arm64","release_date":"2020-11-17"}
]}`), snapshot.CompressionGzip)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(data, "sonoma.json.gz"), sonoma, 0o644))

	cfg := filepath.Join(dir, "modelcompat.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("source:\n  kind: local\n  path: "+data+"\nlog:\n  level: error\n"), 0o644))
	return cfg
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersions(t *testing.T) {
	cfg := writeFixture(t)

	out, _, err := run(t, "versions", "-c", cfg, "-o", "json")
	require.NoError(t, err)

	var versions []model.VersionDescriptor
	require.NoError(t, json.Unmarshal([]byte(out), &versions))
	require.Len(t, versions, 3)
	assert.Equal(t, "sonoma.json.gz", versions[2].SourceID)

	out, _, err = run(t, "versions", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "macOS Ventura")
}

func TestShow(t *testing.T) {
	cfg := writeFixture(t)

	out, _, err := run(t, "show", "macos ventura", "-c", cfg, "-o", "json")
	require.NoError(t, err)

	var models []model.ModelRecord
	require.NoError(t, json.Unmarshal([]byte(out), &models))
	require.Len(t, models, 2)
	assert.Equal(t, "MacBookAir8,1", models[0].Identifier)

	_, _, err = run(t, "show", "Catalina", "-c", cfg)
	assert.Error(t, err)
}

func TestIntersect(t *testing.T) {
	cfg := writeFixture(t)

	out, _, err := run(t, "intersect", "14", "12", "-c", cfg, "-o", "json")
	require.NoError(t, err)

	var models []model.ModelRecord
	require.NoError(t, json.Unmarshal([]byte(out), &models))
	require.Len(t, models, 1)
	assert.Equal(t, "MacBookAir10,1", models[0].Identifier)

	out, _, err = run(t, "intersect", "0", "1", "-c", cfg, "--no-age")
	require.NoError(t, err)
	assert.Contains(t, out, "Models compatible with every version from macOS Monterey (12) to macOS Ventura (13)")
	assert.Contains(t, out, "MacBook Air (2018)")
}

func TestIntersect_MissingSnapshot(t *testing.T) {
	cfg := writeFixture(t)
	require.NoError(t, os.Remove(filepath.Join(filepath.Dir(cfg), "data", "ventura.json")))

	out, stderr, err := run(t, "intersect", "0", "2", "-c", cfg, "-o", "json")
	require.NoError(t, err)

	var models []model.ModelRecord
	require.NoError(t, json.Unmarshal([]byte(out), &models))
	require.Len(t, models, 1)
	assert.Contains(t, stderr, "ventura.json")
	assert.Contains(t, stderr, "Range results may be incomplete.")

	out, stderr, err = run(t, "intersect", "0", "2", "-c", cfg, "--no-age")
	require.NoError(t, err)
	assert.Contains(t, out, "ventura.json")
	assert.NotContains(t, stderr, "ventura.json")
}

func TestDiff(t *testing.T) {
	cfg := writeFixture(t)
	exportDir := t.TempDir()

	out, stderr, err := run(t, "diff", "12", "13", "-c", cfg, "-o", "json", "--export", exportDir)
	require.NoError(t, err)
	assert.Contains(t, out, "MacBookPro11,4")
	assert.Contains(t, stderr, "macos-monterey-to-macos-ventura-dropped-models.json")

	data, err := os.ReadFile(filepath.Join(exportDir, "macos-monterey-to-macos-ventura-dropped-models.json"))
	require.NoError(t, err)
	var models []model.ModelRecord
	require.NoError(t, json.Unmarshal(data, &models))
	assert.Len(t, models, 1)

	_, _, err = run(t, "diff", "13", "12", "-c", cfg)
	assert.Error(t, err)
}

func TestExport_Empty(t *testing.T) {
	cfg := writeFixture(t)
	exportDir := t.TempDir()

	// Ventura keeps every Monterey model, so nothing is dropped.
	ventura := filepath.Join(filepath.Dir(cfg), "data", "ventura.json")
	monterey, err := os.ReadFile(filepath.Join(filepath.Dir(cfg), "data", "monterey.json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(ventura, monterey, 0o644))

	out, stderr, err := run(t, "diff", "12", "13", "-c", cfg, "--export", exportDir)
	require.NoError(t, err)
	assert.Contains(t, out, "No compatible models found.")
	assert.Contains(t, stderr, "Nothing to export.")

	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRoot_Validation(t *testing.T) {
	cfg := writeFixture(t)

	_, _, err := run(t, "versions", "-c", cfg, "-o", "yaml")
	assert.Error(t, err)

	_, _, err = run(t, "catalog", "publish", "index.json", "-c", cfg)
	assert.ErrorContains(t, err, "dynamodb")
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/hclust/linkage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so no stray .env or .hclust.yaml is
// picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "text", cfg.App.LogFormat)
	assert.Equal(t, linkage.Complete, cfg.Method())
	assert.Equal(t, []int{3, 4}, cfg.Cluster.Ks)
	assert.Equal(t, 10, cfg.Dendrogram.TruncateLevel)
	assert.Equal(t, 0.24, cfg.Dendrogram.ColorThreshold)
	assert.Zero(t, cfg.MemoryLimitBytes())
	assert.Empty(t, cfg.App.ConfigFile)
}

func TestLoad_File(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  log_level: debug
cluster:
  method: average
  ks: [2, 5]
  memory_limit_mb: 512
dendrogram:
  truncate_level: 4
data:
  path: shoppers.csv
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.App.ConfigFile)
	assert.Equal(t, linkage.Average, cfg.Method())
	assert.Equal(t, []int{2, 5}, cfg.Cluster.Ks)
	assert.Equal(t, int64(512<<20), cfg.MemoryLimitBytes())
	assert.Equal(t, 4, cfg.Dendrogram.TruncateLevel)
	assert.Equal(t, "shoppers.csv", cfg.Data.Path)
}

func TestLoad_DefaultFileName(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hclust.yaml"), []byte("cluster:\n  method: single\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, linkage.Single, cfg.Method())
}

func TestLoad_Env(t *testing.T) {
	chdir(t)
	t.Setenv("HCLUST_CLUSTER_METHOD", "weighted")
	t.Setenv("HCLUST_APP_LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, linkage.Weighted, cfg.Method())
	assert.Equal(t, "json", cfg.App.LogFormat)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HCLUST_DATA_PATH=from-dotenv.csv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("HCLUST_DATA_PATH") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.csv", cfg.Data.Path)
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t)
	t.Setenv("HCLUST_CLUSTER_METHOD", "centroid")
	t.Setenv("HCLUST_APP_LOG_LEVEL", "loud")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "centroid")
	assert.Contains(t, err.Error(), "loud")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdir(t)
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		App:     App{LogLevel: "warn", LogFormat: "text"},
		Cluster: Cluster{Method: "complete", Ks: []int{0}},
	}
	assert.ErrorContains(t, cfg.Validate(), "must be positive")

	cfg.Cluster.Ks = nil
	assert.ErrorContains(t, cfg.Validate(), "at least one")

	cfg.Cluster.Ks = []int{3}
	cfg.Dendrogram.TruncateLevel = -1
	assert.ErrorContains(t, cfg.Validate(), "truncate_level")
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	l, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

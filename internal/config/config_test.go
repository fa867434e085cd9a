package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 1.5, cfg.Search.BM25K1)
	assert.Equal(t, 0.75, cfg.Search.BM25B)
	assert.Equal(t, 0.6, cfg.Search.FusionAlpha)
	assert.Equal(t, 20, cfg.Search.MaxResults)

	assert.Equal(t, "static256", cfg.Embeddings.Provider)
	assert.Equal(t, 256, cfg.Embeddings.CacheSize)

	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, "info", cfg.Server.LogLevel)

	assert.Equal(t, 3, cfg.Retention.ImmuneAccessCount)
	assert.Contains(t, cfg.Retention.ProtectedTags, "keep")

	assert.NotEmpty(t, cfg.Storage.Root)
}

func TestConfig_VersionDefaultsToOne(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 1, cfg.Version)
}

func TestLoad_NoOverrides_ReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	storageRoot := t.TempDir()
	t.Setenv("RLM_STORAGE_ROOT", storageRoot)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, storageRoot, cfg.Storage.Root)
	assert.Equal(t, 1.5, cfg.Search.BM25K1)
}

func TestLoad_ProjectOverride_AppliesOnTopOfDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	storageRoot := t.TempDir()
	t.Setenv("RLM_STORAGE_ROOT", storageRoot)

	overrideContent := "search:\n  bm25_k1: 1.2\n  max_results: 50\n"
	err := os.WriteFile(filepath.Join(storageRoot, ".rlmctx.yaml"), []byte(overrideContent), 0o644)
	require.NoError(t, err)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1.2, cfg.Search.BM25K1)
	assert.Equal(t, 50, cfg.Search.MaxResults)
	assert.Equal(t, 0.75, cfg.Search.BM25B) // untouched field keeps its default
}

func TestLoad_EnvOverridesWinOverProjectFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	storageRoot := t.TempDir()
	t.Setenv("RLM_STORAGE_ROOT", storageRoot)

	overrideContent := "search:\n  bm25_k1: 1.2\n"
	err := os.WriteFile(filepath.Join(storageRoot, ".rlmctx.yaml"), []byte(overrideContent), 0o644)
	require.NoError(t, err)

	t.Setenv("RLM_BM25_K1", "2.0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.Search.BM25K1)
}

func TestLoad_UserConfig_AppliesBeforeProjectOverride(t *testing.T) {
	xdgDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdgDir)
	storageRoot := t.TempDir()
	t.Setenv("RLM_STORAGE_ROOT", storageRoot)

	userCfgDir := filepath.Join(xdgDir, "rlmctx")
	require.NoError(t, os.MkdirAll(userCfgDir, 0o755))
	userContent := "search:\n  fusion_alpha: 0.8\n"
	require.NoError(t, os.WriteFile(filepath.Join(userCfgDir, "config.yaml"), []byte(userContent), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.8, cfg.Search.FusionAlpha)
}

func TestValidate_RejectsOutOfRangeFusionAlpha(t *testing.T) {
	cfg := NewConfig()
	cfg.Search.FusionAlpha = 1.5
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsUnknownProvider(t *testing.T) {
	cfg := NewConfig()
	cfg.Embeddings.Provider = "made-up"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsUnknownLogLevel(t *testing.T) {
	cfg := NewConfig()
	cfg.Server.LogLevel = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.Validate())
}

func TestWriteYAML_RoundTrips(t *testing.T) {
	cfg := NewConfig()
	cfg.Search.BM25K1 = 1.3

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bm25_k1: 1.3")
}

func TestDetectProjectType_Go(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0o644))
	assert.Equal(t, ProjectTypeGo, DetectProjectType(dir))
}

func TestDetectProjectType_Unknown(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, ProjectTypeUnknown, DetectProjectType(dir))
}

func TestFindProjectRoot_FindsGitDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestDetectProjectName_EnvOverrideWins(t *testing.T) {
	t.Setenv("RLM_PROJECT", "my-project")
	name, err := DetectProjectName(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "my-project", name)
}

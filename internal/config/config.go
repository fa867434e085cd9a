package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectType represents the kind of project detected at a storage root's
// working directory, used to seed sensible per-project defaults.
type ProjectType string

const (
	ProjectTypeGo      ProjectType = "go"
	ProjectTypeNode    ProjectType = "node"
	ProjectTypePython  ProjectType = "python"
	ProjectTypeUnknown ProjectType = "unknown"
)

// Config is the complete rlmctx configuration.
type Config struct {
	Version    int              `yaml:"version" json:"version"`
	Storage    StorageConfig    `yaml:"storage" json:"storage"`
	Search     SearchConfig     `yaml:"search" json:"search"`
	Retention  RetentionConfig  `yaml:"retention" json:"retention"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" json:"embeddings"`
	Server     ServerConfig     `yaml:"server" json:"server"`
}

// StorageConfig configures where the memory core persists its state.
type StorageConfig struct {
	Root string `yaml:"root" json:"root"`
}

// SearchConfig configures the BM25/vector hybrid search engine.
type SearchConfig struct {
	// BM25K1 is the BM25 term-frequency saturation parameter.
	BM25K1 float64 `yaml:"bm25_k1" json:"bm25_k1"`
	// BM25B is the BM25 length-normalization parameter.
	BM25B float64 `yaml:"bm25_b" json:"bm25_b"`
	// FusionAlpha weights cosine similarity against normalized BM25 in the
	// linear fusion score: final = alpha*cosine + (1-alpha)*bm25_norm.
	FusionAlpha float64 `yaml:"fusion_alpha" json:"fusion_alpha"`
	// MaxResults is loaded and validated here; the search engine and the
	// RPC handlers do not read it, so it does not cap search results.
	MaxResults int `yaml:"max_results" json:"max_results"`
}

// RetentionConfig describes the three-zone retention lifecycle. Its
// values are loaded and merged but not read by internal/retention, which
// applies its own package constants (30/180 days, access count 3, and
// the same protected tags and keywords as the defaults below).
type RetentionConfig struct {
	// ArchiveAfter is a duration string (e.g. "720h") after which an
	// unprotected, unaccessed chunk becomes eligible for archiving.
	ArchiveAfter string `yaml:"archive_after" json:"archive_after"`
	// PurgeAfter is a duration string after which an archived chunk becomes
	// eligible for purging.
	PurgeAfter string `yaml:"purge_after" json:"purge_after"`
	// ImmuneAccessCount is the access_count threshold at or above which a
	// chunk is immune to archiving/purging regardless of age.
	ImmuneAccessCount int `yaml:"immune_access_count" json:"immune_access_count"`
	// ProtectedTags are tags that grant immunity regardless of access count.
	ProtectedTags []string `yaml:"protected_tags" json:"protected_tags"`
	// ProtectedKeywords are case-insensitive substrings that, if present in
	// a chunk's content, grant immunity.
	ProtectedKeywords []string `yaml:"protected_keywords" json:"protected_keywords"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider selects the embedding backend: "static256" (default,
	// deterministic, no network), "httpfallback384" (remote embedding
	// service), or "none" (degraded, no semantic search).
	Provider string `yaml:"provider" json:"provider"`
	// Endpoint is the HTTP embedding service URL, used by "httpfallback384".
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	// CacheSize is the number of query embeddings kept in the LRU cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// ServerConfig configures the stdio RPC server and CLI logging.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogPath   string `yaml:"log_path" json:"log_path"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Storage: StorageConfig{
			Root: defaultStorageRoot(),
		},
		Search: SearchConfig{
			BM25K1:      1.5,
			BM25B:       0.75,
			FusionAlpha: 0.6,
			MaxResults:  20,
		},
		Retention: RetentionConfig{
			ArchiveAfter:      "720h",  // 30 days
			PurgeAfter:        "4320h", // 180 days
			ImmuneAccessCount: 3,
			ProtectedTags:     []string{"critical", "decision", "keep", "important"},
			ProtectedKeywords: []string{"DECISION:", "IMPORTANT:", "A RETENIR:"},
		},
		Embeddings: EmbeddingsConfig{
			Provider:  "static256",
			Endpoint:  "",
			CacheSize: 256,
		},
		Server: ServerConfig{
			Transport: "stdio",
			LogLevel:  "info",
			LogPath:   "",
		},
	}
}

// defaultStorageRoot returns ~/.rlmctx/storage, falling back to a temp dir.
func defaultStorageRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".rlmctx", "storage")
	}
	return filepath.Join(home, ".rlmctx", "storage")
}

// GetUserConfigPath returns the path to the user/global configuration file,
// following the XDG Base Directory spec when XDG_CONFIG_HOME is set.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rlmctx", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "rlmctx", "config.yaml")
	}
	return filepath.Join(home, ".config", "rlmctx", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists reports whether the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// Load builds a Config in order of increasing precedence:
//  1. hardcoded defaults
//  2. user config (~/.config/rlmctx/config.yaml)
//  3. project override ($STORAGE_ROOT/.rlmctx.yaml)
//  4. environment variables (RLM_*)
func Load() (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := LoadUserConfig(); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	// Storage root may be overridden by env before we know where to look
	// for the project override file.
	if v := os.Getenv("RLM_STORAGE_ROOT"); v != "" {
		cfg.Storage.Root = v
	}

	if err := cfg.loadProjectOverride(); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadUserConfig loads the user/global configuration file if it exists.
// Returns a nil config and nil error if the file is absent.
func LoadUserConfig() (*Config, error) {
	path := GetUserConfigPath()
	if !fileExists(path) {
		return nil, nil
	}

	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", path, err)
	}
	return cfg, nil
}

// loadProjectOverride merges $STORAGE_ROOT/.rlmctx.yaml into c, if present.
func (c *Config) loadProjectOverride() error {
	path := filepath.Join(c.Storage.Root, ".rlmctx.yaml")
	if !fileExists(path) {
		return nil
	}
	return c.loadYAML(path)
}

// loadYAML reads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Storage.Root != "" {
		c.Storage.Root = other.Storage.Root
	}

	if other.Search.BM25K1 != 0 {
		c.Search.BM25K1 = other.Search.BM25K1
	}
	if other.Search.BM25B != 0 {
		c.Search.BM25B = other.Search.BM25B
	}
	if other.Search.FusionAlpha != 0 {
		c.Search.FusionAlpha = other.Search.FusionAlpha
	}
	if other.Search.MaxResults != 0 {
		c.Search.MaxResults = other.Search.MaxResults
	}

	if other.Retention.ArchiveAfter != "" {
		c.Retention.ArchiveAfter = other.Retention.ArchiveAfter
	}
	if other.Retention.PurgeAfter != "" {
		c.Retention.PurgeAfter = other.Retention.PurgeAfter
	}
	if other.Retention.ImmuneAccessCount != 0 {
		c.Retention.ImmuneAccessCount = other.Retention.ImmuneAccessCount
	}
	if len(other.Retention.ProtectedTags) > 0 {
		c.Retention.ProtectedTags = other.Retention.ProtectedTags
	}
	if len(other.Retention.ProtectedKeywords) > 0 {
		c.Retention.ProtectedKeywords = other.Retention.ProtectedKeywords
	}

	if other.Embeddings.Provider != "" {
		c.Embeddings.Provider = other.Embeddings.Provider
	}
	if other.Embeddings.Endpoint != "" {
		c.Embeddings.Endpoint = other.Embeddings.Endpoint
	}
	if other.Embeddings.CacheSize != 0 {
		c.Embeddings.CacheSize = other.Embeddings.CacheSize
	}

	if other.Server.Transport != "" {
		c.Server.Transport = other.Server.Transport
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}
	if other.Server.LogPath != "" {
		c.Server.LogPath = other.Server.LogPath
	}
}

// applyEnvOverrides applies RLM_* environment variable overrides, the
// highest-precedence layer.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RLM_STORAGE_ROOT"); v != "" {
		c.Storage.Root = v
	}
	if v := os.Getenv("RLM_BM25_K1"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.Search.BM25K1 = f
		}
	}
	if v := os.Getenv("RLM_BM25_B"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			c.Search.BM25B = f
		}
	}
	if v := os.Getenv("RLM_FUSION_ALPHA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			c.Search.FusionAlpha = f
		}
	}
	if v := os.Getenv("RLM_EMBEDDING_PROVIDER"); v != "" {
		c.Embeddings.Provider = v
	}
	if v := os.Getenv("RLM_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("RLM_PROJECT"); v != "" {
		// Consumed by callers doing ID generation; stored nowhere on Config
		// itself since project is a per-operation value, not a server-wide
		// setting. Reserved here so the full env surface is documented.
		_ = v
	}
}

// Validate checks the configuration for internally-consistent values.
func (c *Config) Validate() error {
	if c.Search.BM25K1 <= 0 {
		return fmt.Errorf("search.bm25_k1 must be positive, got %f", c.Search.BM25K1)
	}
	if c.Search.BM25B < 0 || c.Search.BM25B > 1 {
		return fmt.Errorf("search.bm25_b must be between 0 and 1, got %f", c.Search.BM25B)
	}
	if c.Search.FusionAlpha < 0 || c.Search.FusionAlpha > 1 {
		return fmt.Errorf("search.fusion_alpha must be between 0 and 1, got %f", c.Search.FusionAlpha)
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("search.max_results must be non-negative, got %d", c.Search.MaxResults)
	}
	if c.Retention.ImmuneAccessCount < 0 {
		return fmt.Errorf("retention.immune_access_count must be non-negative, got %d", c.Retention.ImmuneAccessCount)
	}

	validProviders := map[string]bool{"static256": true, "httpfallback384": true, "none": true}
	if !validProviders[strings.ToLower(c.Embeddings.Provider)] {
		return fmt.Errorf("embeddings.provider must be 'static256', 'httpfallback384', or 'none', got %s", c.Embeddings.Provider)
	}

	validTransports := map[string]bool{"stdio": true}
	if !validTransports[strings.ToLower(c.Server.Transport)] {
		return fmt.Errorf("server.transport must be 'stdio', got %s", c.Server.Transport)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DetectProjectType detects the project type at dir based on marker files.
// Priority: go.mod > package.json > pyproject.toml/requirements.txt.
func DetectProjectType(dir string) ProjectType {
	if fileExists(filepath.Join(dir, "go.mod")) {
		return ProjectTypeGo
	}
	if fileExists(filepath.Join(dir, "package.json")) {
		return ProjectTypeNode
	}
	if fileExists(filepath.Join(dir, "pyproject.toml")) || fileExists(filepath.Join(dir, "requirements.txt")) {
		return ProjectTypePython
	}
	return ProjectTypeUnknown
}

// DetectProjectName returns a project name for ID/session namespacing:
// the RLM_PROJECT environment variable if set, else the basename of the
// nearest ancestor directory containing a .git directory, else the
// basename of startDir.
func DetectProjectName(startDir string) (string, error) {
	if v := os.Getenv("RLM_PROJECT"); v != "" {
		return v, nil
	}

	root, err := FindProjectRoot(startDir)
	if err != nil {
		return "", err
	}
	return filepath.Base(root), nil
}

// FindProjectRoot walks up from startDir looking for a .git directory,
// returning startDir itself if none is found.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		if dirExists(filepath.Join(currentDir, ".git")) {
			return currentDir, nil
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

// String returns the string form of a ProjectType.
func (p ProjectType) String() string {
	return string(p)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Package config provides configuration loading and structs for BerkshireBot.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Storage   StorageConfig   `yaml:"storage"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Generator GeneratorConfig `yaml:"generator"`
}

// CorpusConfig holds the location of source letters.
type CorpusConfig struct {
	// LettersDir contains one letter per year, named by year (e.g. 2008.pdf, 2019.txt).
	LettersDir string   `yaml:"letters_dir"`
	Extensions []string `yaml:"extensions"`
}

// StorageConfig holds paths for the chunk database and the vector index file.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	IndexPath    string `yaml:"index_path"`
}

// ChunkingConfig holds sentence-window chunking settings.
type ChunkingConfig struct {
	// WindowSentences is the number of sentences per chunk.
	WindowSentences int `yaml:"window_sentences"`
	// OverlapSentences is how many sentences consecutive chunks share. A
	// pointer so that an explicit 0 (no overlap) is distinguishable from unset.
	OverlapSentences *int `yaml:"overlap_sentences"`
}

// Overlap returns the configured overlap; defaults to 5 when unset.
func (c *ChunkingConfig) Overlap() int {
	if c.OverlapSentences != nil {
		return *c.OverlapSentences
	}
	return 5
}

// EmbeddingConfig holds embedder settings. Provider selects the implementation:
// "api" (OpenAI-compatible HTTP endpoint), "onnx" (local model, requires CGO),
// or "mock" (deterministic, for tests and dry runs).
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKeyEnv  string `yaml:"api_key_env"`
	ModelPath  string `yaml:"model_path"` // onnx only
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	BatchSize  int    `yaml:"batch_size"`
	CacheSize  int    `yaml:"cache_size"`
}

// RetrievalConfig holds query-time retrieval settings.
type RetrievalConfig struct {
	DefaultK int `yaml:"default_k"`
	MaxK     int `yaml:"max_k"`
}

// GeneratorConfig holds settings for the remote text-generation API.
type GeneratorConfig struct {
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	// Persona names the author whose voice answers are synthesized in.
	Persona string `yaml:"persona"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Corpus.LettersDir = expandPath(cfg.Corpus.LettersDir, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.IndexPath = expandPath(cfg.Storage.IndexPath, configDir)
	if cfg.Embedding.ModelPath != "" {
		cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

package embedding

import (
	"fmt"
	"os"

	"github.com/nicholasleejh/BerkshireBot/internal/config"
)

// NewEmbedder creates the embedder selected by cfg.Provider: "api" (default),
// "onnx", or "mock". API credentials are read from the environment variable
// named by cfg.APIKeyEnv, never from the config file itself.
func NewEmbedder(cfg *config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "api", "":
		return NewAPIEmbedder(APIEmbedderConfig{
			BaseURL:    cfg.BaseURL,
			APIKey:     os.Getenv(cfg.APIKeyEnv),
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			BatchSize:  cfg.BatchSize,
			CacheSize:  cfg.CacheSize,
		})
	case "onnx":
		return NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
	case "mock":
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: api, onnx, mock)", cfg.Provider)
	}
}

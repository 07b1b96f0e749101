package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Corpus.LettersDir == "" {
		cfg.Corpus.LettersDir = "letters"
	}
	if cfg.Corpus.Extensions == nil {
		cfg.Corpus.Extensions = []string{".pdf", ".txt"}
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "data/corpus.db"
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "data/index.bin"
	}
	if cfg.Chunking.WindowSentences == 0 {
		cfg.Chunking.WindowSentences = 15
	}
	if cfg.Chunking.OverlapSentences == nil {
		overlap := 5
		cfg.Chunking.OverlapSentences = &overlap
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "api"
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://api.openai.com"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-large"
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "EMBEDDING_API_KEY"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1024
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 512
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 32
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Retrieval.DefaultK == 0 {
		cfg.Retrieval.DefaultK = 5
	}
	if cfg.Retrieval.MaxK == 0 {
		cfg.Retrieval.MaxK = 50
	}
	if cfg.Generator.BaseURL == "" {
		cfg.Generator.BaseURL = "https://api.openai.com"
	}
	if cfg.Generator.Model == "" {
		cfg.Generator.Model = "gpt-4o-mini"
	}
	if cfg.Generator.APIKeyEnv == "" {
		cfg.Generator.APIKeyEnv = "GENERATOR_API_KEY"
	}
	if cfg.Generator.Persona == "" {
		cfg.Generator.Persona = "Warren Buffett"
	}
}

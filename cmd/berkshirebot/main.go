// Package main is the BerkshireBot CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nicholasleejh/BerkshireBot/internal/chunker"
	"github.com/nicholasleejh/BerkshireBot/internal/cli"
	"github.com/nicholasleejh/BerkshireBot/internal/config"
	"github.com/nicholasleejh/BerkshireBot/internal/embedding"
	"github.com/nicholasleejh/BerkshireBot/internal/extract"
	"github.com/nicholasleejh/BerkshireBot/internal/llm"
	"github.com/nicholasleejh/BerkshireBot/internal/models"
	"github.com/nicholasleejh/BerkshireBot/internal/pipeline"
	"github.com/nicholasleejh/BerkshireBot/internal/retrieval"
	"github.com/nicholasleejh/BerkshireBot/internal/store"
	"github.com/nicholasleejh/BerkshireBot/internal/vector"
	"github.com/nicholasleejh/BerkshireBot/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/berkshirebot/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// Credentials (embedding and generator API keys) come from the
	// environment; a .env in the working directory is a convenience for
	// development and is ignored when absent.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "build":
		runBuild()
	case "retrieve":
		runRetrieve()
	case "ask":
		runAsk()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("berkshirebot version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so "berkshirebot ask \"query\" -k 3"
// would otherwise leave -k unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// buildQuery joins all positional args with spaces so multi-word queries work
// the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runBuild() {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	lettersDir := fs.String("letters", "", "letters directory (overrides config)")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	dir := cfg.Corpus.LettersDir
	if *lettersDir != "" {
		dir = *lettersDir
	}
	if dir == "" {
		fmt.Println("No letters directory: set corpus.letters_dir in config or pass --letters")
		os.Exit(1)
	}

	components, err := initializeComponents(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	seg, err := chunker.NewSentenceSegmenter()
	if err != nil {
		logger.Fatal("Failed to create sentence segmenter", zap.Error(err))
	}
	builder := pipeline.NewBuilder(
		extract.NewExtractor(),
		chunker.NewChunker(cfg.Chunking.WindowSentences, cfg.Chunking.Overlap(), seg),
		components.Embedder,
		components.Store,
		cfg.Storage.IndexPath,
		pipeline.WithLogger(logger),
	)

	start := time.Now()
	stats, err := builder.Build(context.Background(), dir, cfg.Corpus.Extensions)
	if err != nil {
		logger.Fatal("Build failed", zap.Error(err))
	}
	fmt.Printf("Built corpus from %s in %s\n", dir, time.Since(start).Round(time.Millisecond))
	fmt.Printf("  letters:  %d\n", stats.Documents)
	fmt.Printf("  chunks:   %d\n", stats.Chunks)
	if stats.Skipped > 0 {
		fmt.Printf("  skipped:  %d\n", stats.Skipped)
	}
	if len(stats.Failed) > 0 {
		fmt.Printf("  failed:   %v\n", stats.Failed)
	}
}

func runRetrieve() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("retrieve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	k := fs.Int("k", 0, "number of chunks to retrieve (default from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: berkshirebot retrieve [flags] <query>")
		os.Exit(1)
	}
	query := buildQuery(fs.Args())
	if query == "" {
		fmt.Println("Usage: berkshirebot retrieve [flags] <query>")
		os.Exit(1)
	}
	format, err := outputFormatFromFlag(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, retriever, components, err := openRetriever(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	kVal := *k
	if kVal <= 0 {
		kVal = cfg.Retrieval.DefaultK
	}
	start := time.Now()
	results, err := retriever.Retrieve(context.Background(), query, kVal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Retrieval failed: %v\n", err)
		os.Exit(1)
	}
	queryTime := time.Since(start).Milliseconds()
	if err := cli.WriteRetrievedChunks(os.Stdout, query, results, queryTime, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runAsk() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	k := fs.Int("k", 0, "number of chunks to ground the answer on (default from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	showPrompt := fs.Bool("show-prompt", false, "print the composed prompt instead of calling the generator")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: berkshirebot ask [flags] <question>")
		os.Exit(1)
	}
	query := buildQuery(fs.Args())
	if query == "" {
		fmt.Println("Usage: berkshirebot ask [flags] <question>")
		os.Exit(1)
	}
	format, err := outputFormatFromFlag(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, retriever, components, err := openRetriever(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	kVal := *k
	if kVal <= 0 {
		kVal = cfg.Retrieval.DefaultK
	}
	ctx := context.Background()
	start := time.Now()
	results, err := retriever.Retrieve(ctx, query, kVal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Retrieval failed: %v\n", err)
		os.Exit(1)
	}
	prompt := retrieval.ComposePrompt(query, results, cfg.Generator.Persona)
	if *showPrompt {
		fmt.Println(prompt)
		return
	}

	client := llm.NewClient(cfg.Generator.BaseURL, os.Getenv(cfg.Generator.APIKeyEnv), cfg.Generator.Model)
	text, err := client.Generate(ctx, prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation failed: %v\n", err)
		os.Exit(1)
	}
	answer := &models.Answer{
		Query:     query,
		Text:      text,
		Sources:   results,
		QueryTime: time.Since(start).Milliseconds(),
	}
	if err := cli.WriteAnswer(os.Stdout, answer, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// statusResponse is the shape of status output.
type statusResponse struct {
	Letters         int64  `json:"letters"`
	Chunks          int64  `json:"chunks"`
	VectorIndexSize int    `json:"vector_index_size"`
	DiskUsageBytes  *int64 `json:"disk_usage_bytes,omitempty"`
	Config          *struct {
		EmbeddingProvider   string `json:"embedding_provider"`
		EmbeddingDimensions int    `json:"embedding_dimensions"`
		WindowSentences     int    `json:"window_sentences"`
		OverlapSentences    int    `json:"overlap_sentences"`
		DatabasePath        string `json:"database_path,omitempty"`
		IndexPath           string `json:"index_path,omitempty"`
	} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	ctx := context.Background()
	docCount, err := components.Store.CountDocuments(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count letters failed: %v\n", err)
		os.Exit(1)
	}
	chunkCount, err := components.Store.CountChunks(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count chunks failed: %v\n", err)
		os.Exit(1)
	}
	status := statusResponse{
		Letters:         docCount,
		Chunks:          chunkCount,
		VectorIndexSize: components.Index.Size(),
	}
	if diskBytes, diskErr := store.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.IndexPath); diskErr == nil {
		status.DiskUsageBytes = &diskBytes
	}

	switch *outputFormat {
	case "json":
		status.Config = &struct {
			EmbeddingProvider   string `json:"embedding_provider"`
			EmbeddingDimensions int    `json:"embedding_dimensions"`
			WindowSentences     int    `json:"window_sentences"`
			OverlapSentences    int    `json:"overlap_sentences"`
			DatabasePath        string `json:"database_path,omitempty"`
			IndexPath           string `json:"index_path,omitempty"`
		}{
			EmbeddingProvider:   cfg.Embedding.Provider,
			EmbeddingDimensions: cfg.Embedding.Dimensions,
			WindowSentences:     cfg.Chunking.WindowSentences,
			OverlapSentences:    cfg.Chunking.Overlap(),
			DatabasePath:        cfg.Storage.DatabasePath,
			IndexPath:           cfg.Storage.IndexPath,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("letters:            %d   # count of indexed shareholder letters\n", status.Letters)
		fmt.Printf("chunks:             %d   # count of sentence-window chunks\n", status.Chunks)
		fmt.Printf("vector_index_size:  %d   # count of vectors in the index\n", status.VectorIndexSize)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:   %d   # store + index on disk\n", *status.DiskUsageBytes)
		}
		fmt.Println()
		fmt.Println("# configuration")
		fmt.Printf("embedding_provider: %s\n", cfg.Embedding.Provider)
		fmt.Printf("embedding_dims:     %d\n", cfg.Embedding.Dimensions)
		fmt.Printf("window_sentences:   %d\n", cfg.Chunking.WindowSentences)
		fmt.Printf("overlap_sentences:  %d\n", cfg.Chunking.Overlap())
		if cfg.Storage.DatabasePath != "" {
			fmt.Printf("database_path:      %s\n", cfg.Storage.DatabasePath)
		}
		if cfg.Storage.IndexPath != "" {
			fmt.Printf("index_path:         %s\n", cfg.Storage.IndexPath)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func outputFormatFromFlag(name string) (cli.OutputFormat, error) {
	switch name {
	case "json":
		return cli.OutputJSON, nil
	case "text":
		return cli.OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", name)
	}
}

// Components holds initialized services.
type Components struct {
	Store    store.Store
	Embedder embedding.Embedder
	Index    *vector.FlatIndex
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
}

func initializeComponents(cfg *config.Config) (*Components, error) {
	st, err := store.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	index, err := vector.NewFlatIndex(cfg.Embedding.Dimensions)
	if err != nil {
		_ = st.Close()
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	if cfg.Storage.IndexPath != "" {
		if loadErr := index.Load(cfg.Storage.IndexPath); loadErr != nil {
			_ = st.Close()
			_ = embedder.Close()
			return nil, fmt.Errorf("failed to load vector index: %w", loadErr)
		}
	}
	return &Components{Store: st, Embedder: embedder, Index: index}, nil
}

// openRetriever loads config, initializes components, and builds a retriever
// with the load-time alignment check applied.
func openRetriever(configPath string) (*config.Config, *retrieval.Retriever, *Components, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	components, err := initializeComponents(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	retriever, err := retrieval.NewRetriever(
		context.Background(),
		components.Embedder,
		components.Index,
		components.Store,
		retrieval.WithMaxK(cfg.Retrieval.MaxK),
	)
	if err != nil {
		components.Close()
		return nil, nil, nil, err
	}
	return cfg, retriever, components, nil
}

func printUsage() {
	fmt.Println(`berkshirebot - Q&A over Berkshire Hathaway shareholder letters

Usage:
  berkshirebot build [flags]            Build the corpus from the letters directory
  berkshirebot retrieve [flags] <query> Retrieve the chunks nearest a query
  berkshirebot ask [flags] <question>   Answer a question grounded in the letters
  berkshirebot status [flags]           Show corpus and index status
  berkshirebot version                  Show version
  berkshirebot help                     Show this help

Build Flags:
  --config string    Config file path (default: /usr/local/etc/berkshirebot/config.yaml)
  --letters string   Letters directory (overrides corpus.letters_dir)
  --debug            Enable debug logging

Retrieve Flags:
  --config string    Config file path
  --k int            Number of chunks to retrieve (default from config)
  --output string    Output format: text or json (default: text)

Ask Flags:
  --config string    Config file path
  --k int            Number of chunks to ground the answer on (default from config)
  --output string    Output format: text or json (default: text)
  --show-prompt      Print the composed prompt instead of calling the generator

Status Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)

Examples:
  berkshirebot build --letters ./letters
  berkshirebot retrieve "float from insurance operations"
  berkshirebot retrieve --k 10 --output json "share repurchases"
  berkshirebot ask "What did Buffett say about derivatives?"
  berkshirebot ask --show-prompt "What happened in 2008?"
  berkshirebot status --output json`)
}

// Package pipeline runs the offline corpus build: extract each letter, clean
// it, chunk it, embed the chunks, and persist the store and index together.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/nicholasleejh/BerkshireBot/internal/chunker"
	"github.com/nicholasleejh/BerkshireBot/internal/clean"
	"github.com/nicholasleejh/BerkshireBot/internal/embedding"
	"github.com/nicholasleejh/BerkshireBot/internal/extract"
	"github.com/nicholasleejh/BerkshireBot/internal/models"
	"github.com/nicholasleejh/BerkshireBot/internal/store"
	"github.com/nicholasleejh/BerkshireBot/internal/vector"
)

// Builder orchestrates the build stages. Every stage is a pure transformation
// of the previous stage's output; the builder owns only the sequencing and
// the final atomic swap of store plus index.
type Builder struct {
	extractor *extract.Extractor
	chunker   *chunker.Chunker
	embedder  embedding.Embedder
	store     store.Store
	indexPath string
	logger    *zap.Logger // optional
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets a logger for per-document progress and failures.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a corpus builder.
func NewBuilder(extractor *extract.Extractor, ch *chunker.Chunker, embedder embedding.Embedder, st store.Store, indexPath string, opts ...BuilderOption) *Builder {
	b := &Builder{
		extractor: extractor,
		chunker:   ch,
		embedder:  embedder,
		store:     st,
		indexPath: indexPath,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildStats summarizes a corpus build.
type BuildStats struct {
	Documents int   // letters successfully processed
	Chunks    int   // chunks embedded and indexed
	Skipped   int   // files skipped (not a year-named letter)
	Failed    []int // years whose letters could not be extracted
}

// Build processes every letter in lettersDir and replaces the persisted
// corpus. Letters are files named by year (e.g. 2008.pdf); files whose stem is
// not a year are skipped. A letter that cannot be extracted is logged and
// dropped; the rest of the corpus still builds (a partial corpus is a
// degraded state, not a fatal one). Store contents and the index file are
// replaced together, never partially.
func (b *Builder) Build(ctx context.Context, lettersDir string, allowedExts []string) (*BuildStats, error) {
	years, paths, skipped, err := listLetters(lettersDir, allowedExts)
	if err != nil {
		return nil, err
	}
	stats := &BuildStats{Skipped: skipped}

	var docs []*models.Document
	var chunks []*models.Chunk
	for i, year := range years {
		raw, err := b.extractor.Extract(paths[i])
		if err != nil {
			stats.Failed = append(stats.Failed, year)
			if b.logger != nil {
				b.logger.Error("letter failed, skipping", zap.Int("year", year), zap.String("path", paths[i]), zap.Error(err))
			}
			continue
		}
		cleaned := clean.Clean(raw)
		docs = append(docs, &models.Document{Year: year, SourcePath: paths[i], Raw: raw, Cleaned: cleaned})
		docChunks := b.chunker.Chunk(year, cleaned)
		for _, ch := range docChunks {
			ch.Ordinal = len(chunks)
			chunks = append(chunks, ch)
		}
		if b.logger != nil {
			b.logger.Debug("letter chunked", zap.Int("year", year), zap.Int("chunks", len(docChunks)))
		}
		stats.Documents++
	}
	stats.Chunks = len(chunks)

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	index, err := vector.NewFlatIndex(b.embedder.Dimensions())
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(chunks))
	for i, ch := range chunks {
		ids[i] = ch.ID
	}
	if err := index.Add(ctx, ids, vectors); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	// Store first, then index. If the index save fails the on-disk pair is
	// misaligned, which the retriever's load-time check turns into a rebuild
	// request rather than silently wrong results.
	if err := b.store.ReplaceCorpus(ctx, docs, chunks); err != nil {
		return nil, fmt.Errorf("replace corpus: %w", err)
	}
	if err := index.Save(b.indexPath); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}
	if b.logger != nil {
		b.logger.Info("corpus built",
			zap.Int("documents", stats.Documents),
			zap.Int("chunks", stats.Chunks),
			zap.Int("failed", len(stats.Failed)),
		)
	}
	return stats, nil
}

// listLetters returns the years and paths of letter files in dir, sorted by
// year, plus the count of skipped files. The year is the file's stem.
func listLetters(dir string, allowedExts []string) (years []int, paths []string, skipped int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("read letters dir: %w", err)
	}
	byYear := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
			skipped++
			continue
		}
		year, convErr := strconv.Atoi(strings.TrimSuffix(name, filepath.Ext(name)))
		if convErr != nil {
			skipped++
			continue
		}
		byYear[year] = filepath.Join(dir, name)
	}
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)
	paths = make([]string, len(years))
	for i, year := range years {
		paths[i] = byYear[year]
	}
	return years, paths, skipped, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}

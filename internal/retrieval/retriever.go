// Package retrieval answers queries against the chunk index: embed the query,
// find the nearest chunks, and format them into a prompt for the generator.
package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nicholasleejh/BerkshireBot/internal/embedding"
	"github.com/nicholasleejh/BerkshireBot/internal/models"
	"github.com/nicholasleejh/BerkshireBot/internal/store"
	"github.com/nicholasleejh/BerkshireBot/internal/vector"
)

// Retriever finds the chunks nearest a query in embedding space. The index is
// read-only at query time; queries share no mutable state.
type Retriever struct {
	embedder embedding.Embedder
	index    vector.Index
	store    store.Store
	maxK     int
	logger   *zap.Logger // optional
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) RetrieverOption {
	return func(r *Retriever) { r.logger = l }
}

// WithMaxK caps the number of results a single query may request.
func WithMaxK(maxK int) RetrieverOption {
	return func(r *Retriever) { r.maxK = maxK }
}

// NewRetriever creates a retriever and verifies that the loaded index and the
// chunk store are aligned. Retrieval correctness depends entirely on every
// index entry resolving to a stored chunk, so a size mismatch is a fatal
// configuration error, not something to limp past.
func NewRetriever(ctx context.Context, embedder embedding.Embedder, index vector.Index, st store.Store, opts ...RetrieverOption) (*Retriever, error) {
	nChunks, err := st.CountChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	if int64(index.Size()) != nChunks {
		return nil, fmt.Errorf("index/store misalignment: index has %d vectors, store has %d chunks; rebuild the corpus", index.Size(), nChunks)
	}
	r := &Retriever{
		embedder: embedder,
		index:    index,
		store:    st,
		maxK:     50,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Retrieve returns the k chunks nearest to query, ranked by ascending L2
// distance. The query is embedded with the same embedder as the corpus.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]models.RetrievedChunk, error) {
	if query == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if k <= 0 {
		k = 5
	}
	if k > r.maxK {
		k = r.maxK
	}
	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := r.index.Search(ctx, queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if r.logger != nil {
		r.logger.Debug("retrieval search done", zap.String("query", query), zap.Int("hits", len(hits)))
	}
	results := make([]models.RetrievedChunk, 0, len(hits))
	for i, hit := range hits {
		chunk, err := r.store.GetChunk(ctx, hit.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve hit %s: %w", hit.ID, err)
		}
		results = append(results, models.RetrievedChunk{
			ChunkID:  chunk.ID,
			Year:     chunk.Year,
			Text:     chunk.Text,
			Distance: hit.Distance,
			Rank:     i + 1,
		})
	}
	return results, nil
}

// Package store persists cleaned letters and chunk metadata.
package store

import (
	"context"

	"github.com/nicholasleejh/BerkshireBot/internal/models"
)

// Store defines persistence for documents and chunks. Chunk rows carry the
// embedding alongside the text and year so the corpus can be rebuilt or
// re-indexed without calling the embedding API again.
type Store interface {
	// Document operations
	GetDocument(ctx context.Context, year int) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]*models.Document, error)

	// Chunk operations
	GetChunk(ctx context.Context, id string) (*models.Chunk, error)
	// ListChunks returns all chunks ordered by ordinal, embeddings included.
	ListChunks(ctx context.Context) ([]*models.Chunk, error)

	// ReplaceCorpus atomically replaces all documents and chunks in a single
	// transaction. Chunks must arrive with ordinals already assigned in
	// insertion order; a rebuild never leaves a partially swapped corpus.
	ReplaceCorpus(ctx context.Context, docs []*models.Document, chunks []*models.Chunk) error

	// Stats
	CountDocuments(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)

	Close() error
}

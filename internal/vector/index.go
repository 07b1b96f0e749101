// Package vector provides an exact nearest-neighbor index over chunk embeddings.
package vector

import "context"

// Index defines vector storage and nearest-neighbor search. The index stores
// no chunk text or year; hits carry the chunk ID, which callers resolve
// against the metadata store.
type Index interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*Hit, error)
	Save(path string) error
	Load(path string) error
	Size() int
	Close() error
}

// Hit is a single nearest-neighbor result.
type Hit struct {
	ID       string
	Distance float64 // Euclidean (L2) distance; smaller is closer
}

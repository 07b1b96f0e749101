// Package embedding provides text embedding via a remote API or a local ONNX
// model, with caching.
package embedding

import "context"

// Embedder produces fixed-length vector embeddings for text. Implementations
// are deterministic at inference time: the same text always yields the same
// vector, and EmbedBatch emits vectors in input order.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

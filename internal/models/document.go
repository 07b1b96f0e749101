// Package models defines core data structures for letters, chunks, and retrieval results.
package models

import "time"

// Document is one annual shareholder letter, addressed by year.
type Document struct {
	Year       int    `json:"year" db:"year"`
	SourcePath string `json:"source_path" db:"source_path"`
	// Raw is the extracted text before cleaning. It exists only in memory
	// during a build; the persisted form is Cleaned.
	Raw       string    `json:"-" db:"-"`
	Cleaned   string    `json:"cleaned" db:"cleaned_text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Chunk is a fixed-size window of consecutive sentences from one letter, the
// atomic retrieval unit. ID is the stable join key between the metadata store
// and the vector index; Ordinal is the global insertion position, used for
// stable tie-breaking and alignment checks.
type Chunk struct {
	ID        string    `json:"id" db:"id"`
	Year      int       `json:"year" db:"year"`
	Ordinal   int       `json:"ordinal" db:"ordinal"`
	Text      string    `json:"text" db:"text"`
	Embedding []float32 `json:"-" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RetrievedChunk is a single retrieval hit: a chunk with its L2 distance to
// the query embedding and its 1-based rank.
type RetrievedChunk struct {
	ChunkID  string  `json:"chunk_id"`
	Year     int     `json:"year"`
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
	Rank     int     `json:"rank"`
}

// Answer is the generator's response to a composed prompt, together with the
// chunks it was grounded on.
type Answer struct {
	Query     string           `json:"query"`
	Text      string           `json:"answer"`
	Sources   []RetrievedChunk `json:"sources"`
	QueryTime int64            `json:"query_time_ms"`
}

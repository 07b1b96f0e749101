package chunker

import (
	"strings"

	"github.com/google/uuid"
	"github.com/nicholasleejh/BerkshireBot/internal/models"
)

// Chunker slides a fixed-size sentence window across a document.
type Chunker struct {
	window    int
	overlap   int
	segmenter *SentenceSegmenter
}

// NewChunker creates a chunker producing windows of window sentences, with
// consecutive windows sharing overlap sentences (stride = window - overlap).
// A non-positive window falls back to 15; a negative overlap, or one at least
// as large as the window, falls back to 0 (stride = window).
func NewChunker(window, overlap int, segmenter *SentenceSegmenter) *Chunker {
	if window <= 0 {
		window = 15
	}
	if overlap < 0 || overlap >= window {
		overlap = 0
	}
	return &Chunker{window: window, overlap: overlap, segmenter: segmenter}
}

// Stride returns how many sentences the window advances between chunks.
func (c *Chunker) Stride() int {
	return c.window - c.overlap
}

// Chunk splits cleaned text into chunks tagged with the letter's year.
// Each chunk is exactly c.window consecutive sentences joined with single
// spaces. The trailing partial window is dropped, so documents with fewer
// than c.window sentences produce no chunks. Every chunk gets a fresh UUID;
// Ordinal is left zero for the caller to assign in corpus insertion order.
func (c *Chunker) Chunk(year int, text string) []*models.Chunk {
	sents := c.segmenter.Segment(text)
	if len(sents) < c.window {
		return nil
	}
	stride := c.Stride()
	chunks := make([]*models.Chunk, 0, (len(sents)-c.window)/stride+1)
	for i := 0; i+c.window <= len(sents); i += stride {
		chunks = append(chunks, &models.Chunk{
			ID:   uuid.New().String(),
			Year: year,
			Text: strings.Join(sents[i:i+c.window], " "),
		})
	}
	return chunks
}

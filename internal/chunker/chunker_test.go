package chunker

import (
	"fmt"
	"strings"
	"testing"
)

func newTestChunker(t *testing.T, window, overlap int) *Chunker {
	t.Helper()
	seg, err := NewSentenceSegmenter()
	if err != nil {
		t.Fatalf("NewSentenceSegmenter: %v", err)
	}
	return NewChunker(window, overlap, seg)
}

// syntheticText returns n simple sentences with no ambiguous punctuation and
// verifies the segmenter actually sees n sentences, so a fixture that the
// tokenizer splits differently fails here instead of skewing chunk counts.
// Sentences must end in a word: the punkt tokenizer does not treat
// digit-period as a sentence boundary.
func syntheticText(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "Sentence number %d says something plain. ", i)
	}
	text := strings.TrimSpace(b.String())
	seg, err := NewSentenceSegmenter()
	if err != nil {
		t.Fatalf("NewSentenceSegmenter: %v", err)
	}
	if got := len(seg.Segment(text)); got != n {
		t.Fatalf("fixture segments into %d sentences, want %d", got, n)
	}
	return text
}

func TestChunkCounts(t *testing.T) {
	tests := []struct {
		sentences int
		window    int
		overlap   int
		want      int
	}{
		{20, 15, 5, 1},
		{25, 15, 5, 2},
		{14, 15, 5, 0},
		{15, 15, 5, 1},
		{35, 15, 5, 3},
		{34, 15, 5, 2}, // partial tail dropped
		{0, 15, 5, 0},
	}
	for _, tt := range tests {
		c := newTestChunker(t, tt.window, tt.overlap)
		chunks := c.Chunk(2008, syntheticText(t, tt.sentences))
		if len(chunks) != tt.want {
			t.Errorf("N=%d W=%d O=%d: got %d chunks, want %d",
				tt.sentences, tt.window, tt.overlap, len(chunks), tt.want)
		}
	}
}

func TestChunkWindowSizeAndOverlap(t *testing.T) {
	c := newTestChunker(t, 15, 5)
	chunks := c.Chunk(1999, syntheticText(t, 25))
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	for i, ch := range chunks {
		if n := strings.Count(ch.Text, "."); n != 15 {
			t.Errorf("chunk %d has %d sentences, want 15", i, n)
		}
		if ch.Year != 1999 {
			t.Errorf("chunk %d year=%d", i, ch.Year)
		}
		if ch.ID == "" {
			t.Errorf("chunk %d missing ID", i)
		}
	}
	// Stride is 10, so the second window starts at sentence 11.
	if !strings.HasPrefix(chunks[1].Text, "Sentence number 11 says") {
		t.Errorf("second chunk starts with %q", chunks[1].Text[:40])
	}
	// Overlap: sentences 11..15 appear in both windows.
	if !strings.Contains(chunks[0].Text, "Sentence number 15 says") {
		t.Error("first chunk should contain sentence 15")
	}
}

func TestNewChunkerClampsInvalidValues(t *testing.T) {
	tests := []struct {
		window, overlap int
		wantStride      int
	}{
		{15, 5, 10},
		{10, 0, 10},  // zero overlap is valid: stride equals window
		{10, -1, 10}, // negative overlap falls back to 0
		{10, 10, 10}, // overlap >= window falls back to 0
		{0, 5, 10},   // non-positive window falls back to 15, keeping overlap 5
	}
	for _, tt := range tests {
		c := newTestChunker(t, tt.window, tt.overlap)
		if got := c.Stride(); got != tt.wantStride {
			t.Errorf("NewChunker(%d, %d): stride=%d, want %d", tt.window, tt.overlap, got, tt.wantStride)
		}
	}
}

func TestChunkEmptyText(t *testing.T) {
	c := newTestChunker(t, 15, 5)
	if got := c.Chunk(2020, ""); got != nil {
		t.Errorf("empty text should yield nil, got %v", got)
	}
	if got := c.Chunk(2020, "   \n  "); got != nil {
		t.Errorf("blank text should yield nil, got %v", got)
	}
}

func TestSegmentHandlesAbbreviations(t *testing.T) {
	seg, err := NewSentenceSegmenter()
	if err != nil {
		t.Fatal(err)
	}
	sents := seg.Segment("Mr. Munger and I run Berkshire. We like low prices.")
	if len(sents) != 2 {
		t.Errorf("got %d sentences (%q), want 2", len(sents), sents)
	}
}

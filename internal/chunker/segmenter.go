// Package chunker splits cleaned letter text into overlapping windows of
// consecutive sentences, the atomic retrieval unit.
package chunker

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// SentenceSegmenter splits text into sentences using a trained English
// punkt tokenizer, so abbreviations ("Mr.", "Inc.") do not break sentences.
type SentenceSegmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSentenceSegmenter creates a segmenter with the bundled English training data.
func NewSentenceSegmenter() (*SentenceSegmenter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("create sentence tokenizer: %w", err)
	}
	return &SentenceSegmenter{tokenizer: tokenizer}, nil
}

// Segment returns the trimmed, non-empty sentences of text in order.
func (s *SentenceSegmenter) Segment(text string) []string {
	raw := s.tokenizer.Tokenize(text)
	out := make([]string, 0, len(raw))
	for _, sent := range raw {
		trimmed := strings.TrimSpace(sent.Text)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

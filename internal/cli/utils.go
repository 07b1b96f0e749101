// Package cli provides output formatting for the command-line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nicholasleejh/BerkshireBot/internal/models"
	"github.com/nicholasleejh/BerkshireBot/pkg/utils"
)

// OutputFormat is the format for retrieval and answer output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// retrievalResponse is the JSON envelope for bare retrieval output.
type retrievalResponse struct {
	Query     string                  `json:"query"`
	Results   []models.RetrievedChunk `json:"results"`
	QueryTime int64                   `json:"query_time_ms"`
}

// WriteRetrievedChunks writes retrieval results to w in the given format.
func WriteRetrievedChunks(w io.Writer, query string, results []models.RetrievedChunk, queryTime int64, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(retrievalResponse{Query: query, Results: results, QueryTime: queryTime})
	default:
		writeRetrievedChunksText(w, query, results, queryTime)
		return nil
	}
}

func writeRetrievedChunksText(w io.Writer, query string, results []models.RetrievedChunk, queryTime int64) {
	fmt.Fprintf(w, "\nFound %d chunks for %q in %dms\n\n", len(results), query, queryTime)
	for _, result := range results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Year: %d | Distance: %.4f\n", result.Rank, result.Year, result.Distance)
		fmt.Fprintf(w, "Chunk: %s\n", result.ChunkID)
		fmt.Fprintf(w, "\n%s\n", utils.Truncate(result.Text, 300))
		fmt.Fprintln(w)
	}
}

// WriteAnswer writes a generated answer and its sources to w in the given format.
func WriteAnswer(w io.Writer, answer *models.Answer, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	default:
		writeAnswerText(w, answer)
		return nil
	}
}

func writeAnswerText(w io.Writer, answer *models.Answer) {
	fmt.Fprintf(w, "\n%s\n\n", answer.Text)
	fmt.Fprintf(w, "Sources (%dms):\n", answer.QueryTime)
	for _, src := range answer.Sources {
		fmt.Fprintf(w, "  [%d] %d letter (distance %.4f): %s\n",
			src.Rank, src.Year, src.Distance, utils.Truncate(src.Text, 120))
	}
}

// PrintRetrievedChunks prints retrieval results to stdout in text format.
func PrintRetrievedChunks(query string, results []models.RetrievedChunk, queryTime int64) {
	_ = WriteRetrievedChunks(os.Stdout, query, results, queryTime, OutputText)
}

// PrintAnswer prints a generated answer to stdout in text format.
func PrintAnswer(answer *models.Answer) {
	_ = WriteAnswer(os.Stdout, answer, OutputText)
}

package retrieval

import (
	"fmt"
	"strings"

	"github.com/nicholasleejh/BerkshireBot/internal/models"
)

// ComposePrompt formats the query and its retrieved chunks into the prompt
// sent to the generator. Formatting is deterministic and preserves result
// order; it adds no information beyond the query, the chunks, and the closing
// instruction naming the persona.
func ComposePrompt(query string, results []models.RetrievedChunk, persona string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Answer the following question using the excerpts from %s's annual shareholder letters below.\n\n", persona)
	fmt.Fprintf(&b, "Question: %s\n\n", query)
	b.WriteString("Excerpts:\n")
	for _, r := range results {
		fmt.Fprintf(&b, "\n[%d] Letter year %d (distance %.4f):\n%s\n", r.Rank, r.Year, r.Distance, r.Text)
	}
	fmt.Fprintf(&b, "\nSynthesize an answer in the voice of %s, grounded only in the excerpts above. ", persona)
	b.WriteString("Cite the letter years you draw on, and say so plainly if the excerpts do not answer the question.\n")
	return b.String()
}

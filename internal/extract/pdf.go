package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// extractPDF extracts per-page plain text and joins pages with a blank line,
// so a page boundary is always a paragraph boundary for the cleaner.
func extractPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 0; i < numPages; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i+1, err)
		}
		if _, err := buf.WriteString(text); err != nil {
			return "", fmt.Errorf("write page %d: %w", i+1, err)
		}
		if i < numPages-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String(), nil
}

// extractPDFTables collects row-grouped text from every page. The grouping is
// positional and unreliable for complex layouts; callers must not assume
// well-formed tables.
func extractPDFTables(content []byte) ([][]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	var tables [][]string
	numPages := r.NumPage()
	for i := 0; i < numPages; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("extract rows page %d: %w", i+1, err)
		}
		for _, row := range rows {
			cells := make([]string, 0, len(row.Content))
			for _, t := range row.Content {
				cells = append(cells, t.S)
			}
			if len(cells) > 0 {
				tables = append(tables, cells)
			}
		}
	}
	return tables, nil
}

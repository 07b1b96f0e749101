package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	e := NewExtractor()
	dir := t.TempDir()
	path := filepath.Join(dir, "1984.txt")
	want := "To the shareholders of Berkshire Hathaway:\nOur gain in net worth was satisfactory."
	if err := os.WriteFile(path, []byte(want), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtractBytesUnknownExtensionIsPlain(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("plain content"), ".letter")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "plain content" {
		t.Errorf("got %q", got)
	}
}

func TestExtractInvalidUTF8Replaced(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte{'o', 'k', 0xff, 0xfe}, ".txt")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if !strings.HasPrefix(got, "ok") || !strings.Contains(got, "�") {
		t.Errorf("invalid bytes should be replaced, got %q", got)
	}
}

func TestExtractMissingFile(t *testing.T) {
	e := NewExtractor()
	if _, err := e.Extract(filepath.Join(t.TempDir(), "2099.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtractPDFInvalidContent(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("not a pdf"), ".pdf"); err == nil {
		t.Error("expected error for invalid PDF content")
	}
}

func TestExtractTablesRejectsNonPDF(t *testing.T) {
	e := NewExtractor()
	dir := t.TempDir()
	path := filepath.Join(dir, "2001.txt")
	if err := os.WriteFile(path, []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ExtractTables(path); err == nil {
		t.Error("expected error for non-PDF table extraction")
	}
}

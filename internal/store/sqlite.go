package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nicholasleejh/BerkshireBot/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		year INTEGER PRIMARY KEY,
		source_path TEXT NOT NULL,
		cleaned_text TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		year INTEGER NOT NULL,
		ordinal INTEGER NOT NULL UNIQUE,
		text TEXT NOT NULL,
		embedding BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (year) REFERENCES documents(year) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_year ON chunks(year);
	`
	_, err := db.Exec(schema)
	return err
}

// GetDocument returns the letter for a year.
func (s *SQLiteStore) GetDocument(ctx context.Context, year int) (*models.Document, error) {
	var doc models.Document
	err := s.db.QueryRowContext(ctx,
		`SELECT year, source_path, cleaned_text, created_at FROM documents WHERE year = ?`, year,
	).Scan(&doc.Year, &doc.SourcePath, &doc.Cleaned, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no letter for year %d", year)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns all letters ordered by year.
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT year, source_path, cleaned_text, created_at FROM documents ORDER BY year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []*models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.Year, &doc.SourcePath, &doc.Cleaned, &doc.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// GetChunk returns a chunk by ID, embedding included.
func (s *SQLiteStore) GetChunk(ctx context.Context, id string) (*models.Chunk, error) {
	var chunk models.Chunk
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, year, ordinal, text, embedding, created_at FROM chunks WHERE id = ?`, id,
	).Scan(&chunk.ID, &chunk.Year, &chunk.Ordinal, &chunk.Text, &blob, &chunk.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("chunk not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	chunk.Embedding = decodeEmbedding(blob)
	return &chunk, nil
}

// ListChunks returns all chunks ordered by ordinal.
func (s *SQLiteStore) ListChunks(ctx context.Context) ([]*models.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, year, ordinal, text, embedding, created_at FROM chunks ORDER BY ordinal`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var chunks []*models.Chunk
	for rows.Next() {
		var chunk models.Chunk
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.Year, &chunk.Ordinal, &chunk.Text, &blob, &chunk.CreatedAt); err != nil {
			return nil, err
		}
		chunk.Embedding = decodeEmbedding(blob)
		chunks = append(chunks, &chunk)
	}
	return chunks, rows.Err()
}

// ReplaceCorpus swaps the entire corpus in one transaction.
func (s *SQLiteStore) ReplaceCorpus(ctx context.Context, docs []*models.Document, chunks []*models.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}

	now := time.Now()
	docStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (year, source_path, cleaned_text, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer docStmt.Close()
	for _, doc := range docs {
		doc.CreatedAt = now
		if _, err := docStmt.ExecContext(ctx, doc.Year, doc.SourcePath, doc.Cleaned, doc.CreatedAt); err != nil {
			return fmt.Errorf("insert document %d: %w", doc.Year, err)
		}
	}

	chunkStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, year, ordinal, text, embedding, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer chunkStmt.Close()
	for _, chunk := range chunks {
		chunk.CreatedAt = now
		if _, err := chunkStmt.ExecContext(ctx,
			chunk.ID, chunk.Year, chunk.Ordinal, chunk.Text, encodeEmbedding(chunk.Embedding), chunk.CreatedAt); err != nil {
			return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
		}
	}

	return tx.Commit()
}

// CountDocuments returns the number of letters.
func (s *SQLiteStore) CountDocuments(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

// CountChunks returns the number of chunks.
func (s *SQLiteStore) CountChunks(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Embeddings are stored as little-endian float32 blobs, the same layout the
// index file uses.
func encodeEmbedding(vec []float32) []byte {
	out := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(out[i*4:(i+1)*4], math.Float32bits(v))
	}
	return out
}

func decodeEmbedding(blob []byte) []float32 {
	out := make([]float32, len(blob)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4 : (i+1)*4]))
	}
	return out
}

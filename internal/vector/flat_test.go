package vector

import (
	"context"
	"math"
	"path/filepath"
	"testing"
)

func TestFlatIndexExactMatchFirst(t *testing.T) {
	idx, err := NewFlatIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()

	vecs := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
	}
	ids := []string{"a", "b", "c"}
	if err := idx.Add(ctx, ids, vecs); err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 3 {
		t.Errorf("Size=%d", idx.Size())
	}

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID != "a" {
		t.Errorf("nearest should be a, got %s", hits[0].ID)
	}
	if hits[0].Distance != 0 {
		t.Errorf("exact match distance = %f, want 0", hits[0].Distance)
	}
	if hits[1].ID != "b" || hits[1].Distance <= 0 {
		t.Errorf("second hit %s dist %f", hits[1].ID, hits[1].Distance)
	}
}

func TestFlatIndexTiesKeepInsertionOrder(t *testing.T) {
	idx, _ := NewFlatIndex(2)
	ctx := context.Background()
	// Both vectors are equidistant from the query.
	_ = idx.Add(ctx, []string{"first", "second"}, [][]float32{{1, 0}, {-1, 0}})
	hits, err := idx.Search(ctx, []float32{0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if hits[0].ID != "first" || hits[1].ID != "second" {
		t.Errorf("tie order: got %s, %s", hits[0].ID, hits[1].ID)
	}
}

func TestFlatIndexDimensionMismatch(t *testing.T) {
	idx, _ := NewFlatIndex(3)
	ctx := context.Background()
	if err := idx.Add(ctx, []string{"x"}, [][]float32{{1, 2}}); err == nil {
		t.Error("Add with wrong dimension should fail")
	}
	if _, err := idx.Search(ctx, []float32{1}, 1); err == nil {
		t.Error("Search with wrong dimension should fail")
	}
}

func TestFlatIndexSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	idx, _ := NewFlatIndex(4)
	ctx := context.Background()
	ids := []string{"c1", "c2", "c3"}
	vecs := [][]float32{
		{1, 2, 3, 4},
		{0.5, -0.5, 0.25, -0.25},
		{0, 0, 0, 1},
	}
	if err := idx.Add(ctx, ids, vecs); err != nil {
		t.Fatal(err)
	}
	if err := idx.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, _ := NewFlatIndex(4)
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Size() != 3 {
		t.Fatalf("loaded size=%d", loaded.Size())
	}
	for i, want := range ids {
		hits, err := loaded.Search(ctx, vecs[i], 1)
		if err != nil {
			t.Fatal(err)
		}
		if hits[0].ID != want || hits[0].Distance != 0 {
			t.Errorf("vector %d: got %s at %f", i, hits[0].ID, hits[0].Distance)
		}
	}
}

func TestFlatIndexLoadMissingFile(t *testing.T) {
	idx, _ := NewFlatIndex(2)
	if err := idx.Load(filepath.Join(t.TempDir(), "missing.bin")); err != nil {
		t.Errorf("missing file should not error, got %v", err)
	}
	if idx.Size() != 0 {
		t.Errorf("size=%d", idx.Size())
	}
}

func TestFlatIndexLoadDimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	idx, _ := NewFlatIndex(2)
	_ = idx.Add(context.Background(), []string{"a"}, [][]float32{{1, 2}})
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}
	other, _ := NewFlatIndex(3)
	if err := other.Load(path); err == nil {
		t.Error("expected dimension mismatch on load")
	}
}

func TestL2Distance(t *testing.T) {
	if d := L2Distance([]float32{0, 3}, []float32{4, 0}); math.Abs(d-5) > 1e-9 {
		t.Errorf("got %f, want 5", d)
	}
	if d := L2Distance([]float32{1}, []float32{1, 2}); !math.IsInf(d, 1) {
		t.Errorf("mismatched lengths should be +Inf, got %f", d)
	}
}

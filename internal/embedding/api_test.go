package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeEmbeddingsServer returns one deterministic dims-length vector per input,
// seeded by input position, and records the number of requests.
func fakeEmbeddingsServer(t *testing.T, dims int, requests *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		*requests++
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		type datum struct {
			Embedding []float64 `json:"embedding"`
		}
		data := make([]datum, len(req.Input))
		for i := range req.Input {
			vec := make([]float64, dims)
			vec[0] = float64(i + 1)
			data[i] = datum{Embedding: vec}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
}

func TestAPIEmbedderBatchOrderPreserved(t *testing.T) {
	requests := 0
	srv := fakeEmbeddingsServer(t, 8, &requests)
	defer srv.Close()

	e, err := NewAPIEmbedder(APIEmbedderConfig{BaseURL: srv.URL, Model: "m", Dimensions: 8, BatchSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c", "d", "e"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vecs) != 5 {
		t.Fatalf("got %d vectors", len(vecs))
	}
	// Batch size 2 over 5 inputs means 3 requests; within each request the
	// server seeds by position, so order within batches must be preserved.
	if requests != 3 {
		t.Errorf("got %d requests, want 3", requests)
	}
	if vecs[0][0] != 1 || vecs[1][0] != 2 || vecs[2][0] != 1 || vecs[4][0] != 1 {
		t.Errorf("batch order not preserved: %v %v %v", vecs[0][0], vecs[1][0], vecs[2][0])
	}
}

func TestAPIEmbedderDimensionValidation(t *testing.T) {
	requests := 0
	srv := fakeEmbeddingsServer(t, 4, &requests)
	defer srv.Close()

	e, err := NewAPIEmbedder(APIEmbedderConfig{BaseURL: srv.URL, Model: "m", Dimensions: 1024})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestAPIEmbedderCachesSingleEmbeds(t *testing.T) {
	requests := 0
	srv := fakeEmbeddingsServer(t, 4, &requests)
	defer srv.Close()

	e, err := NewAPIEmbedder(APIEmbedderConfig{BaseURL: srv.URL, Model: "m", Dimensions: 4})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := e.Embed(context.Background(), "same text"); err != nil {
			t.Fatal(err)
		}
	}
	if requests != 1 {
		t.Errorf("repeated Embed hit the API %d times, want 1", requests)
	}
}

func TestAPIEmbedderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e, err := NewAPIEmbedder(APIEmbedderConfig{BaseURL: srv.URL, Model: "m", Dimensions: 4})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Embed(context.Background(), "x"); err == nil {
		t.Error("expected error on non-200 status")
	}
}

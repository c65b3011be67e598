package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stratlab/strategic-agent/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL:    server.URL,
		APIKey:     "qdrant-key",
		Collection: "knowledge",
		Namespace:  "strategy",
		VectorDim:  3,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestSearchDecodesHits(t *testing.T) {
	var gotReq searchRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/knowledge/points/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("api-key") != "qdrant-key" {
			t.Errorf("api-key header = %q", r.Header.Get("api-key"))
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"score": 0.92, "payload": map[string]any{"text": "positioning beats promotion", "source": "a.md"}},
				{"score": 0.81, "payload": map[string]any{"text": "tension drives strategy"}},
			},
		})
	})

	docs, err := client.Search(context.Background(), []float32{0.1, 0.2, 0.3}, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d docs", len(docs))
	}
	if docs[0].Score != 0.92 || docs[0].Payload["text"] != "positioning beats promotion" {
		t.Fatalf("first doc = %+v", docs[0])
	}
	if gotReq.Filter == nil || gotReq.Filter.Must[0].Match.Value != "strategy" {
		t.Fatalf("namespace filter missing: %+v", gotReq.Filter)
	}
	if !gotReq.WithPayload {
		t.Fatal("with_payload not set")
	}
}

func TestSearchClampsLimit(t *testing.T) {
	var gotReq searchRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]any{"result": []any{}})
	})

	if _, err := client.Search(context.Background(), []float32{1, 2, 3}, 500); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotReq.Limit != defaultMaxLimit {
		t.Fatalf("limit = %d, want %d", gotReq.Limit, defaultMaxLimit)
	}
}

func TestSearchRejectsWrongDimension(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Search(context.Background(), []float32{0.1, 0.2}, 3)
	if !domain.IsKind(err, domain.ErrDimensionMismatch) {
		t.Fatalf("kind = %v, want dimension mismatch", err)
	}
}

func TestSearchServerSideDimensionRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	// No VectorDim configured, so the mismatch is only caught by Qdrant.
	client, err := New(Config{BaseURL: server.URL, Collection: "knowledge"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = client.Search(context.Background(), []float32{0.1, 0.2}, 3)
	if !domain.IsKind(err, domain.ErrDimensionMismatch) {
		t.Fatalf("kind = %v, want dimension mismatch", err)
	}
}

func TestSearchMissingCollection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Search(context.Background(), []float32{1, 2, 3}, 3)
	if !domain.IsKind(err, domain.ErrCollectionNotFound) {
		t.Fatalf("kind = %v, want collection not found", err)
	}
}

func TestSearchAuthFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.Search(context.Background(), []float32{1, 2, 3}, 3)
	if !domain.IsKind(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("kind = %v, want authentication failed", err)
	}
}

func TestIndexChunksUpsertsWithNamespace(t *testing.T) {
	var upserted upsertRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/knowledge":
			w.WriteHeader(http.StatusConflict)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/knowledge/points":
			json.NewDecoder(r.Body).Decode(&upserted)
			json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	err := client.IndexChunks(context.Background(), "playbook.pdf",
		[]string{"chunk one", "chunk two"},
		[][]float32{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatalf("IndexChunks: %v", err)
	}
	if len(upserted.Points) != 2 {
		t.Fatalf("got %d points", len(upserted.Points))
	}
	p := upserted.Points[0]
	if p.ID == "" {
		t.Fatal("point has no id")
	}
	if p.Payload["text"] != "chunk one" || p.Payload["source"] != "playbook.pdf" || p.Payload["namespace"] != "strategy" {
		t.Fatalf("payload = %+v", p.Payload)
	}
}

func TestIndexChunksCountMismatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	err := client.IndexChunks(context.Background(), "a", []string{"one"}, nil)
	if !domain.IsKind(err, domain.ErrMalformed) {
		t.Fatalf("kind = %v, want malformed", err)
	}
}

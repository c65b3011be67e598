package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stratlab/strategic-agent/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(Config{
		BaseURL:         server.URL,
		APIKey:          "test-key",
		GenerationModel: "gemini-2.0-flash",
		EmbeddingModel:  "text-embedding-004",
		Temperature:     0.7,
		CallTimeout:     2 * time.Second,
	})
	return client, server
}

func TestCompleteReturnsCandidateText(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"parts": []map[string]any{{"text": "  a strategic answer  "}}},
				"finishReason": "STOP",
			}},
		})
	})

	temp := 0.2
	result, err := client.Complete(context.Background(), "draft something", domain.CompletionOptions{
		SystemInstruction: "act as a strategist",
		Temperature:       &temp,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if result.Text != "a strategic answer" {
		t.Fatalf("text = %q", result.Text)
	}
	if gotPath != "/v1beta/models/gemini-2.0-flash:generateContent" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header = %q", gotKey)
	}
	if gotBody.SystemInstruction == nil || gotBody.SystemInstruction.Parts[0].Text != "act as a strategist" {
		t.Fatalf("system instruction not forwarded: %+v", gotBody.SystemInstruction)
	}
	if gotBody.GenerationConfig == nil || gotBody.GenerationConfig.Temperature != 0.2 {
		t.Fatalf("temperature not forwarded: %+v", gotBody.GenerationConfig)
	}
}

func TestCompleteMapsStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, domain.ErrRateLimited},
		{"bad credentials", http.StatusForbidden, domain.ErrAuthenticationFailed},
		{"oversized input", http.StatusRequestEntityTooLarge, domain.ErrInputTooLarge},
		{"bad request", http.StatusBadRequest, domain.ErrMalformed},
		{"server down", http.StatusServiceUnavailable, domain.ErrProviderUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"error":{"message":"secret internal detail"}}`))
			})

			_, err := client.Complete(context.Background(), "draft", domain.CompletionOptions{})
			if !domain.IsKind(err, tc.want) {
				t.Fatalf("kind = %v, want %v", err, tc.want)
			}
			if strings.Contains(err.Error(), "secret internal detail") {
				t.Fatalf("error leaks provider body: %v", err)
			}
		})
	}
}

func TestCompleteBlockedPromptIsContentFiltered(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"promptFeedback": map[string]any{"blockReason": "SAFETY"},
		})
	})

	_, err := client.Complete(context.Background(), "draft", domain.CompletionOptions{})
	if !domain.IsKind(err, domain.ErrContentFiltered) {
		t.Fatalf("kind = %v, want content filtered", err)
	}
}

func TestCompleteSafetyFinishIsContentFiltered(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"parts": []map[string]any{}},
				"finishReason": "SAFETY",
			}},
		})
	})

	_, err := client.Complete(context.Background(), "draft", domain.CompletionOptions{})
	if !domain.IsKind(err, domain.ErrContentFiltered) {
		t.Fatalf("kind = %v, want content filtered", err)
	}
}

func TestCompleteEmptyTextIsProviderUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"parts": []map[string]any{{"text": "   "}}},
				"finishReason": "STOP",
			}},
		})
	})

	_, err := client.Complete(context.Background(), "draft", domain.CompletionOptions{})
	if !domain.IsKind(err, domain.ErrProviderUnavailable) {
		t.Fatalf("kind = %v, want provider unavailable", err)
	}
}

func TestCompleteSlowCallIsTimeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]any{})
	})
	client.cfg.CallTimeout = 50 * time.Millisecond

	_, err := client.Complete(context.Background(), "draft", domain.CompletionOptions{})
	if !domain.IsKind(err, domain.ErrTimeout) {
		t.Fatalf("kind = %v, want timeout", err)
	}
}

func TestCompleteCallerCancellation(t *testing.T) {
	started := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		close(started)
		time.Sleep(300 * time.Millisecond)
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.Complete(ctx, "draft", domain.CompletionOptions{})
	if !domain.IsKind(err, domain.ErrCancelled) {
		t.Fatalf("kind = %v, want cancelled", err)
	}
}

func TestCompleteRejectsOutOfRangeTemperature(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	temp := 3.5
	_, err := client.Complete(context.Background(), "draft", domain.CompletionOptions{Temperature: &temp})
	if !domain.IsKind(err, domain.ErrMalformed) {
		t.Fatalf("kind = %v, want malformed", err)
	}
}

func TestEmbedReturnsVector(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/v1beta/models/text-embedding-004:embedContent" {
			t.Errorf("path = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"embedding": map[string]any{"values": []float32{0.1, 0.2, 0.3}},
		})
	})

	vec, err := client.Embed(context.Background(), "market tension")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("vector length = %d", len(vec))
	}
}

func TestEmbedRejectsOversizedInput(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})
	client.cfg.MaxEmbedChars = 10

	_, err := client.Embed(context.Background(), strings.Repeat("x", 11))
	if !domain.IsKind(err, domain.ErrInputTooLarge) {
		t.Fatalf("kind = %v, want input too large", err)
	}
}

func TestEmbedBatchChecksVectorCount(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": []map[string]any{{"values": []float32{0.1}}},
		})
	})

	_, err := client.EmbedBatch(context.Background(), []string{"one", "two"})
	if !domain.IsKind(err, domain.ErrProviderUnavailable) {
		t.Fatalf("kind = %v, want provider unavailable", err)
	}
}

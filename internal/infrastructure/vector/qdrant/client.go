// Package qdrant implements vector search and indexing over the Qdrant
// REST API. Search serves the retrieval stage; indexing is only used by
// the seeding workflow.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stratlab/strategic-agent/internal/core/domain"
	"github.com/stratlab/strategic-agent/internal/infrastructure/resilience"
)

const defaultMaxLimit = 50

type Config struct {
	BaseURL    string
	APIKey     string
	Collection string
	// Namespace scopes every point; search filters on it so several
	// knowledge sets can share one collection.
	Namespace string

	// VectorDim enables a client-side dimension check before any call
	// leaves the process. Zero disables the check.
	VectorDim   int
	MaxLimit    int
	CallTimeout time.Duration

	Executor *resilience.Executor
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func New(cfg Config) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("qdrant: base URL is required")
	}
	if strings.TrimSpace(cfg.Collection) == "" {
		return nil, fmt.Errorf("qdrant: collection is required")
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = defaultMaxLimit
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	return &Client{cfg: cfg, httpClient: &http.Client{}}, nil
}

type searchRequest struct {
	Vector      []float32      `json:"vector"`
	Limit       int            `json:"limit"`
	WithPayload bool           `json:"with_payload"`
	Filter      *payloadFilter `json:"filter,omitempty"`
}

type payloadFilter struct {
	Must []fieldMatch `json:"must"`
}

type fieldMatch struct {
	Key   string `json:"key"`
	Match struct {
		Value string `json:"value"`
	} `json:"match"`
}

type searchResponse struct {
	Result []struct {
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]domain.RetrievedDocument, error) {
	if err := c.checkDimension(vector); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > c.cfg.MaxLimit {
		limit = c.cfg.MaxLimit
	}

	reqBody := searchRequest{
		Vector:      vector,
		Limit:       limit,
		WithPayload: true,
		Filter:      c.namespaceFilter(),
	}

	var resp searchResponse
	path := fmt.Sprintf("/collections/%s/points/search", c.cfg.Collection)
	if err := c.call(ctx, "qdrant.search", path, http.MethodPost, reqBody, &resp); err != nil {
		return nil, searchError(err)
	}

	docs := make([]domain.RetrievedDocument, 0, len(resp.Result))
	for _, hit := range resp.Result {
		docs = append(docs, domain.RetrievedDocument{
			Score:   hit.Score,
			Payload: hit.Payload,
		})
	}
	return docs, nil
}

// searchError reinterprets a 400 on the search path. The request body is
// built entirely by this client, so the only thing Qdrant rejects there is
// a query vector whose size does not match the collection.
func searchError(err error) error {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest {
		return domain.WrapError(domain.ErrDimensionMismatch, "qdrant.search", statusErr)
	}
	return err
}

type upsertRequest struct {
	Points []point `json:"points"`
}

type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

type createCollectionRequest struct {
	Vectors vectorParams `json:"vectors"`
}

type vectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

func (c *Client) IndexChunks(ctx context.Context, source string, chunks []string, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return domain.WrapError(domain.ErrMalformed, "index",
			fmt.Errorf("%d chunks but %d vectors", len(chunks), len(vectors)))
	}
	if len(chunks) == 0 {
		return nil
	}
	for _, vec := range vectors {
		if err := c.checkDimension(vec); err != nil {
			return err
		}
	}

	if err := c.ensureCollection(ctx, len(vectors[0])); err != nil {
		return err
	}

	reqBody := upsertRequest{Points: make([]point, 0, len(chunks))}
	for i, chunk := range chunks {
		payload := map[string]any{
			"text":   chunk,
			"source": source,
		}
		if c.cfg.Namespace != "" {
			payload["namespace"] = c.cfg.Namespace
		}
		reqBody.Points = append(reqBody.Points, point{
			ID:      uuid.NewString(),
			Vector:  vectors[i],
			Payload: payload,
		})
	}

	path := fmt.Sprintf("/collections/%s/points?wait=true", c.cfg.Collection)
	return c.call(ctx, "qdrant.upsert", path, http.MethodPut, reqBody, nil)
}

// ensureCollection creates the collection if it does not exist yet. A
// conflict response means another seeder got there first.
func (c *Client) ensureCollection(ctx context.Context, dim int) error {
	reqBody := createCollectionRequest{
		Vectors: vectorParams{Size: dim, Distance: "Cosine"},
	}
	err := c.call(ctx, "qdrant.create_collection", "/collections/"+c.cfg.Collection, http.MethodPut, reqBody, nil)
	if err != nil {
		var statusErr *HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusConflict {
			return nil
		}
		return err
	}
	return nil
}

func (c *Client) checkDimension(vector []float32) error {
	if len(vector) == 0 {
		return domain.WrapError(domain.ErrDimensionMismatch, "search", fmt.Errorf("vector is empty"))
	}
	if c.cfg.VectorDim > 0 && len(vector) != c.cfg.VectorDim {
		return domain.WrapError(domain.ErrDimensionMismatch, "search",
			fmt.Errorf("vector has %d dimensions, collection expects %d", len(vector), c.cfg.VectorDim))
	}
	return nil
}

func (c *Client) namespaceFilter() *payloadFilter {
	if c.cfg.Namespace == "" {
		return nil
	}
	match := fieldMatch{Key: "namespace"}
	match.Match.Value = c.cfg.Namespace
	return &payloadFilter{Must: []fieldMatch{match}}
}

// HTTPStatusError carries the status code of a non-2xx Qdrant response.
type HTTPStatusError struct {
	StatusCode int
	Operation  string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s: vector store returned status %d", e.Operation, e.StatusCode)
}

func (c *Client) call(ctx context.Context, operation, path, method string, payload, out any) error {
	do := func(ctx context.Context) error {
		return c.doJSON(ctx, operation, path, method, payload, out)
	}
	if c.cfg.Executor == nil {
		return do(ctx)
	}
	err := c.cfg.Executor.Execute(ctx, operation, do, recordAsFailure)
	if resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrProviderUnavailable, operation, err)
	}
	return err
}

func (c *Client) doJSON(ctx context.Context, operation, path, method string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.WrapError(domain.ErrMalformed, operation, fmt.Errorf("encode request: %w", err))
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, method, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.WrapError(domain.ErrMalformed, operation, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("api-key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return domain.WrapError(domain.ErrCancelled, operation, ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return domain.WrapError(domain.ErrTimeout, operation,
				fmt.Errorf("call exceeded %s", c.cfg.CallTimeout.Round(time.Millisecond)))
		}
		return domain.WrapError(domain.ErrProviderUnavailable, operation, fmt.Errorf("vector store unreachable"))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		statusErr := &HTTPStatusError{StatusCode: resp.StatusCode, Operation: operation}
		return domain.WrapError(kindForStatus(resp.StatusCode), operation, statusErr)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.WrapError(domain.ErrProviderUnavailable, operation, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func kindForStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return domain.ErrAuthenticationFailed
	case code == http.StatusNotFound:
		return domain.ErrCollectionNotFound
	case code == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case code == http.StatusBadRequest:
		return domain.ErrMalformed
	default:
		return domain.ErrProviderUnavailable
	}
}

func recordAsFailure(err error) bool {
	return domain.IsKind(err, domain.ErrProviderUnavailable) ||
		domain.IsKind(err, domain.ErrTimeout) ||
		domain.IsKind(err, domain.ErrRateLimited)
}

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stratlab/strategic-agent/internal/core/domain"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func newHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 8
	return &http.Client{Transport: transport}
}

// HTTPStatusError carries the status code of a non-2xx provider response.
// The response body is kept out of the error chain so upstream messages
// never echo provider internals.
type HTTPStatusError struct {
	StatusCode int
	Operation  string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s: provider returned status %d", e.Operation, e.StatusCode)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.WrapError(domain.ErrMalformed, operation, fmt.Errorf("encode request: %w", err))
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.WrapError(domain.ErrMalformed, operation, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.classifyTransportError(ctx, callCtx, operation, err)
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

// classifyTransportError distinguishes the caller giving up from a single
// call running past its deadline: the former propagates cancellation, the
// latter is a retryable timeout.
func (c *Client) classifyTransportError(parent, call context.Context, operation string, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return domain.WrapError(domain.ErrCancelled, operation, parent.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(call.Err(), context.DeadlineExceeded) {
		return domain.WrapError(domain.ErrTimeout, operation,
			fmt.Errorf("call exceeded %s", c.cfg.CallTimeout.Round(time.Millisecond)))
	}
	return domain.WrapError(domain.ErrProviderUnavailable, operation, fmt.Errorf("provider unreachable"))
}

func kindForStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return domain.ErrAuthenticationFailed
	case code == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case code == http.StatusRequestEntityTooLarge:
		return domain.ErrInputTooLarge
	case code == http.StatusBadRequest:
		return domain.ErrMalformed
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return domain.ErrTimeout
	default:
		return domain.ErrProviderUnavailable
	}
}

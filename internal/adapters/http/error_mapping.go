package httpadapter

import (
	"net/http"

	"github.com/stratlab/strategic-agent/internal/core/domain"
)

// statusClientClosedRequest mirrors the nginx convention for a caller that
// went away before the response was ready.
const statusClientClosedRequest = 499

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrMalformed):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrSessionNotFound), domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrContentFiltered):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case domain.IsKind(err, domain.ErrCancelled):
		return statusClientClosedRequest
	case domain.IsKind(err, domain.ErrTimeout), domain.IsKind(err, domain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrAuthenticationFailed),
		domain.IsKind(err, domain.ErrCollectionNotFound),
		domain.IsKind(err, domain.ErrDimensionMismatch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns a caller-safe message. Validation problems carry
// their detail; provider-side failures get a fixed phrase so nothing from
// an upstream response or connection string reaches the client.
func errorMessage(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrMalformed):
		return err.Error()
	case domain.IsKind(err, domain.ErrSessionNotFound):
		return "session not found"
	case domain.IsKind(err, domain.ErrNotFound):
		return "not found"
	case domain.IsKind(err, domain.ErrInputTooLarge):
		return "input exceeds the provider size limit"
	case domain.IsKind(err, domain.ErrContentFiltered):
		return "content was blocked by the provider safety filter"
	case domain.IsKind(err, domain.ErrRateLimited):
		return "provider rate limit exceeded, retry later"
	case domain.IsKind(err, domain.ErrCancelled):
		return "request cancelled"
	case domain.IsKind(err, domain.ErrTimeout):
		return "provider call timed out"
	case domain.IsKind(err, domain.ErrAuthenticationFailed):
		return "provider rejected the configured credentials"
	case domain.IsKind(err, domain.ErrCollectionNotFound):
		return "knowledge collection not found"
	case domain.IsKind(err, domain.ErrDimensionMismatch):
		return "embedding dimension does not match the knowledge collection"
	case domain.IsKind(err, domain.ErrProviderUnavailable):
		return "provider unavailable"
	default:
		return "internal error"
	}
}

package httpx

import (
	"encoding/json"
	"net/http"
)

// Error kinds for failures raised by the transport layer itself. Domain
// failures carry their own kind (see errhttp).
const (
	KindBadRequest      = "bad_request"
	KindUnauthenticated = "unauthenticated"
	KindNotFound        = "not_found"
	KindTooLarge        = "body_too_large"
	KindValidation      = "validation_failed"
	KindRateLimited     = "rate_limited"
	KindInternal        = "internal"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSON writes v as JSON with the given status code. Content-Type and
// X-Content-Type-Options headers are set automatically. Encoding errors are
// silently discarded: use this for handler responses, not for streaming.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes an ErrorBody whose kind is derived from status.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message, Kind: KindForStatus(status)})
}

// KindForStatus names the transport-level failure behind status.
func KindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusRequestEntityTooLarge:
		return KindTooLarge
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	if status >= http.StatusInternalServerError {
		return KindInternal
	}
	return ""
}

// SafeError returns the error message for client responses.
// In production (isProduction=true), internal server errors (5xx) are replaced
// with a generic message to avoid leaking implementation details.
func SafeError(err error, status int, isProduction bool) string {
	if isProduction && status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

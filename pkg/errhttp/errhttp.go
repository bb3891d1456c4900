// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/itemchain/pkg/httpx"
	itemdomain "github.com/ghuser/itemchain/services/item/domain"
)

// ErrorResponse is the body written for every failed request.
// Error is the stable reason for the error kind; Detail carries the wrapped
// context and is omitted when it adds nothing.
type ErrorResponse = httpx.ErrorBody

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors, whose message
// is replaced by a generic one when isProduction is set.
func WriteError(w http.ResponseWriter, err error, isProduction bool) {
	status := mapErrorToStatus(err)
	resp := ErrorResponse{Kind: itemdomain.Kind(err)}

	if reason, ok := itemdomain.Reason(err); ok {
		resp.Error = reason
		if detail := err.Error(); detail != reason {
			resp.Detail = detail
		}
	} else {
		resp.Error = httpx.SafeError(err, status, isProduction)
	}

	httpx.JSON(w, status, resp)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrOutOfRange),
		errors.Is(err, itemdomain.ErrEscrowNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, itemdomain.ErrInvalidAmount),
		errors.Is(err, itemdomain.ErrInvalidPrice):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, itemdomain.ErrAlreadySettled),
		errors.Is(err, itemdomain.ErrInvalidTransition):
		return http.StatusConflict // 409
	case errors.Is(err, itemdomain.ErrNotAuthorized):
		return http.StatusForbidden // 403
	default:
		return http.StatusInternalServerError // 500
	}
}

// Package validator decodes and validates HTTP request input for the item
// handlers: JSON bodies through go-playground/validator tags, and chi path
// and query parameters through the Path and Query helpers.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ghuser/itemchain/pkg/httpx"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Field errors are keyed by the JSON name the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// notblank rejects strings made only of whitespace.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// printable rejects control characters.
	_ = v.RegisterValidation("printable", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
	})
	return v
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

var fixedMessages = map[string]string{
	"required":  "This field is required",
	"notblank":  "Must not be blank",
	"printable": "Must not contain control characters",
	"uuid":      "Must be a valid UUID",
	"numeric":   "Must be a numeric value",
}

var paramMessages = map[string]string{
	"min": "Minimum length is %s",
	"max": "Maximum length is %s",
	"gt":  "Must be greater than %s",
	"gte": "Must be greater than or equal to %s",
	"lte": "Must be less than or equal to %s",
}

// FormatValidationErrors maps each failing field to a readable message. Errors
// that are not validator.ValidationErrors yield an empty map.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	if format, ok := paramMessages[fe.Tag()]; ok {
		return fmt.Sprintf(format, fe.Param())
	}
	return fmt.Sprintf("Validation failed on '%s'", fe.Tag())
}

// ValidateRequest decodes the JSON body into T and validates it. On failure it
// writes a 400 (malformed JSON), 413 (body over the server limit) or 422
// (tag violations, with per-field messages) and returns false.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	req := new(T)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		} else {
			httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		}
		return nil, false
	}
	if err := Validate(req); err != nil {
		httpx.JSON(w, http.StatusUnprocessableEntity, httpx.ErrorBody{
			Error:  "Validation failed",
			Kind:   httpx.KindValidation,
			Fields: FormatValidationErrors(err),
		})
		return nil, false
	}
	return req, true
}

// PathInt64 parses the chi URL parameter name as a base-10 int64. Negative
// values parse; range checks belong to the caller.
func PathInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s: must be an integer", name))
		return 0, false
	}
	return v, true
}

// PathUUID parses the chi URL parameter name as a UUID.
func PathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s: must be a UUID", name))
		return uuid.Nil, false
	}
	return v, true
}

// QueryInt reads the integer query parameter name, returning def when it is
// absent and writing a 400 when it is not an integer within [lo, hi].
func QueryInt(w http.ResponseWriter, r *http.Request, name string, def, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		httpx.JSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s: must be an integer between %d and %d", name, lo, hi))
		return 0, false
	}
	return v, true
}

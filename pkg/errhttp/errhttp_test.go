package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	itemdomain "github.com/ghuser/itemchain/services/item/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrOutOfRange", itemdomain.ErrOutOfRange, http.StatusNotFound},
		{"ErrEscrowNotFound", itemdomain.ErrEscrowNotFound, http.StatusNotFound},
		{"ErrInvalidAmount", itemdomain.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{"ErrEscrowInvalidAmount", itemdomain.ErrEscrowInvalidAmount, http.StatusUnprocessableEntity},
		{"ErrInvalidPrice", itemdomain.ErrInvalidPrice, http.StatusUnprocessableEntity},
		{"ErrAlreadySettled", itemdomain.ErrAlreadySettled, http.StatusConflict},
		{"ErrInvalidTransition", itemdomain.ErrInvalidTransition, http.StatusConflict},
		{"ErrNotAuthorized", itemdomain.ErrNotAuthorized, http.StatusForbidden},
		{"wrapped ErrOutOfRange", fmt.Errorf("trigger payment: %w", itemdomain.ErrOutOfRange), http.StatusNotFound},
		{"wrapped ErrInvalidTransition", fmt.Errorf("%w: item 0 is delivered", itemdomain.ErrInvalidTransition), http.StatusConflict},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err, false)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	return body
}

func TestWriteError_StableReasonAndDetail(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, fmt.Errorf("%w: item 0 costs 100, got 99", itemdomain.ErrInvalidAmount), true)

	body := decode(t, w)
	if body.Error != "only full payments accepted" {
		t.Fatalf("unexpected reason %q", body.Error)
	}
	if body.Kind != "invalid_amount" {
		t.Fatalf("unexpected kind %q", body.Kind)
	}
	if body.Detail != "only full payments accepted: item 0 costs 100, got 99" {
		t.Fatalf("unexpected detail %q", body.Detail)
	}
}

func TestWriteError_BareSentinelHasNoDetail(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, itemdomain.ErrOutOfRange, false)

	body := decode(t, w)
	if body.Error != "item is not available" || body.Detail != "" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestWriteError_HidesInternalErrorsInProduction(t *testing.T) {
	err := errors.New("pq: connection refused on 10.0.0.3")

	w := httptest.NewRecorder()
	WriteError(w, err, true)
	if body := decode(t, w); body.Error != http.StatusText(http.StatusInternalServerError) || body.Kind != "internal" {
		t.Fatalf("internal error leaked in production: %+v", body)
	}

	w = httptest.NewRecorder()
	WriteError(w, err, false)
	if body := decode(t, w); body.Error != err.Error() {
		t.Fatalf("expected raw message outside production, got %q", body.Error)
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, itemdomain.ErrOutOfRange, false)

	ct := w.Header().Get("Content-Type")
	if ct == "" {
		t.Fatal("Content-Type header not set")
	}
}

package validator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemchain/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemchain/pkg/validator"
)

type depositReq struct {
	EscrowID string `json:"escrow_id" validate:"required,uuid"`
	Value    *int64 `json:"value"     validate:"required,gt=0"`
	Identity string `json:"identity"  validate:"omitempty,notblank,printable,max=8"`
	Internal string `json:"-"         validate:"omitempty,min=2"`
}

func TestFormatValidationErrors(t *testing.T) {
	zero, one := int64(0), int64(1)
	const id = "550e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name string
		in   depositReq
		want map[string]string
	}{
		{"valid", depositReq{EscrowID: id, Value: &one}, map[string]string{}},
		{"missing fields", depositReq{}, map[string]string{
			"escrow_id": "This field is required",
			"value":     "This field is required",
		}},
		{"bad uuid", depositReq{EscrowID: "nope", Value: &one}, map[string]string{"escrow_id": "Must be a valid UUID"}},
		{"zero value", depositReq{EscrowID: id, Value: &zero}, map[string]string{"value": "Must be greater than 0"}},
		{"blank identity", depositReq{EscrowID: id, Value: &one, Identity: "   "}, map[string]string{"identity": "Must not be blank"}},
		{"control characters", depositReq{EscrowID: id, Value: &one, Identity: "a\x00b"}, map[string]string{"identity": "Must not contain control characters"}},
		{"identity too long", depositReq{EscrowID: id, Value: &one, Identity: "123456789"}, map[string]string{"identity": "Maximum length is 8"}},
		{"ignored json name falls back to field", depositReq{EscrowID: id, Value: &one, Internal: "x"}, map[string]string{"Internal": "Minimum length is 2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&tt.in))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for field, msg := range tt.want {
				if got[field] != msg {
					t.Errorf("%s: got %q, want %q", field, got[field], msg)
				}
			}
		})
	}
}

func TestFormatValidationErrors_NonValidationError(t *testing.T) {
	if m := pkgvalidator.FormatValidationErrors(http.ErrNoCookie); len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
}

func TestValidateRequest(t *testing.T) {
	const valid = `{"escrow_id":"550e8400-e29b-41d4-a716-446655440000","value":7}`

	tests := []struct {
		name     string
		body     string
		limit    int64
		wantCode int
		wantKind string
	}{
		{"valid", valid, 0, http.StatusOK, ""},
		{"malformed json", "{bad", 0, http.StatusBadRequest, httpx.KindBadRequest},
		{"missing value", `{"escrow_id":"550e8400-e29b-41d4-a716-446655440000"}`, 0, http.StatusUnprocessableEntity, httpx.KindValidation},
		{"body over limit", valid, 16, http.StatusRequestEntityTooLarge, httpx.KindTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.limit > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, tt.limit)
			}

			req, ok := pkgvalidator.ValidateRequest[depositReq](w, r)
			if tt.wantCode == http.StatusOK {
				if !ok || *req.Value != 7 {
					t.Fatalf("expected success, got %d %s", w.Code, w.Body.String())
				}
				return
			}
			if ok || w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			var body httpx.ErrorBody
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", body.Kind, tt.wantKind)
			}
		})
	}
}

// withURLParam attaches a chi route context carrying key=value to r.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPathInt64(t *testing.T) {
	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"-1", -1, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "index", tt.raw)

			got, ok := pkgvalidator.PathInt64(w, r, "index")
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("PathInt64(%q) = %d, %v", tt.raw, got, ok)
			}
			if !ok && w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestPathUUID(t *testing.T) {
	w := httptest.NewRecorder()
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "550e8400-e29b-41d4-a716-446655440000")
	if _, ok := pkgvalidator.PathUUID(w, r, "id"); !ok {
		t.Fatal("expected valid UUID to parse")
	}

	w = httptest.NewRecorder()
	r = withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "nope")
	if _, ok := pkgvalidator.PathUUID(w, r, "id"); ok || w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid UUID, got %d", w.Code)
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query  string
		want   int
		wantOK bool
	}{
		{"", 20, true},
		{"limit=5", 5, true},
		{"limit=0", 0, false},
		{"limit=101", 0, false},
		{"limit=x", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)

			got, ok := pkgvalidator.QueryInt(w, r, "limit", 20, 1, 100)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("QueryInt(%q) = %d, %v", tt.query, got, ok)
			}
		})
	}
}

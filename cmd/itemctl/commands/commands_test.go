package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghuser/itemchain/pkg/app"
	"github.com/ghuser/itemchain/pkg/clock"
	"github.com/ghuser/itemchain/pkg/config"
	"github.com/ghuser/itemchain/pkg/logger"
	"github.com/ghuser/itemchain/services/item/application/api"
	"github.com/ghuser/itemchain/services/item/application/handlers"
	appsvcs "github.com/ghuser/itemchain/services/item/application/services"
	"github.com/ghuser/itemchain/services/item/infrastructure/persistence/memory"
	"github.com/ghuser/itemchain/services/item/metrics"
)

const owner = "registry-owner"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	a := &app.Application{
		Config:       &config.Config{Environment: config.EnvDevelopment, RegistryOwner: owner, StorageBackend: config.BackendMemory},
		Logger:       logger.Discard(),
		SessionStore: newCookieStore(),
	}
	svc := appsvcs.NewItemService(memory.NewItemRepository(), owner,
		appsvcs.WithClock(clock.NewFixed(time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))),
		appsvcs.WithMetrics(metrics.NewWithRegisterer(prometheus.NewRegistry())),
	)
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		api.Routes(r, &appsvcs.Services{Item: svc}, a)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// newCookieStore returns a session store whose cookie survives the CLI's
// cookiejar over plain HTTP.
func newCookieStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte("test-auth-key-32-bytes-long!!!!!"))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// run executes itemctl with args against srv and returns stdout.
func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--api", srv.URL}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestLifecycle(t *testing.T) {
	srv := newServer(t)

	out, err := run(t, srv, "--identity", "buyer", "create", "Test Item", "100")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var item handlers.ItemResponse
	if err := json.Unmarshal([]byte(out), &item); err != nil {
		t.Fatalf("decode create output %q: %v", out, err)
	}
	if item.Index != 0 || item.Price != 100 || item.StateName != "created" {
		t.Fatalf("unexpected item: %+v", item)
	}

	if _, err := run(t, srv, "--identity", "buyer", "pay", "0", "100"); err != nil {
		t.Fatalf("pay: %v", err)
	}

	_, err = run(t, srv, "--identity", "buyer", "deliver", "0")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden || apiErr.Kind != "not_authorized" {
		t.Fatalf("non-owner deliver: got %v", err)
	}

	if _, err := run(t, srv, "--identity", owner, "deliver", "0"); err != nil {
		t.Fatalf("owner deliver: %v", err)
	}

	out, err = run(t, srv, "events", "0")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	var evts []handlers.EventResponse
	if err := json.Unmarshal([]byte(out), &evts); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if len(evts) != 2 || evts[1].State != 2 {
		t.Fatalf("unexpected events: %+v", evts)
	}

	out, err = run(t, srv, "escrow", item.EscrowID.String())
	if err != nil {
		t.Fatalf("escrow: %v", err)
	}
	var escrow handlers.EscrowResponse
	if err := json.Unmarshal([]byte(out), &escrow); err != nil {
		t.Fatalf("decode escrow: %v", err)
	}
	if !escrow.Settled || escrow.AmountReceived != 100 {
		t.Fatalf("unexpected escrow: %+v", escrow)
	}
}

func TestErrors(t *testing.T) {
	srv := newServer(t)
	out, err := run(t, srv, "--identity", "buyer", "create", "x", "5")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var item handlers.ItemResponse
	if err := json.Unmarshal([]byte(out), &item); err != nil {
		t.Fatalf("decode create output %q: %v", out, err)
	}

	tests := []struct {
		name       string
		args       []string
		wantStatus int
		wantMsg    string
	}{
		{"partial payment", []string{"--identity", "buyer", "pay", "0", "4"}, http.StatusUnprocessableEntity, "only full payments accepted"},
		{"partial deposit", []string{"--identity", "buyer", "deposit", item.EscrowID.String(), "4"}, http.StatusUnprocessableEntity, "only full payments allowed"},
		{"unknown item", []string{"get", "3"}, http.StatusNotFound, "item is not available"},
		{"create without session", []string{"create", "x", "5"}, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, srv, tt.args...)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", apiErr.Status, tt.wantStatus)
			}
			if tt.wantMsg != "" && apiErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestArgumentValidation(t *testing.T) {
	srv := newServer(t)
	tests := []struct {
		name string
		args []string
	}{
		{"non-numeric index", []string{"get", "abc"}},
		{"non-numeric price", []string{"create", "x", "ten"}},
		{"malformed escrow id", []string{"escrow", "nope"}},
		{"missing args", []string{"pay", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, srv, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				t.Fatalf("expected a local error, got API error %v", apiErr)
			}
		})
	}
}

func TestList(t *testing.T) {
	srv := newServer(t)
	for _, p := range []string{"1", "2", "3"} {
		if _, err := run(t, srv, "--identity", "buyer", "create", "sku-"+p, p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	out, err := run(t, srv, "list", "--limit", "2", "--offset", "1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var page handlers.ListItemsResponse
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if page.Count != 3 || len(page.Items) != 2 || page.Items[0].Identifier != "sku-2" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

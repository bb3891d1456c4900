package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// APIClient talks JSON to the registry API and keeps the session cookie.
type APIClient struct {
	Base string
	HTTP *http.Client
}

// NewAPIClient returns a client for base (e.g. http://localhost:8080).
func NewAPIClient(base string) (*APIClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &APIClient{
		Base: strings.TrimRight(base, "/"),
		HTTP: &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}, nil
}

// APIError is a non-2xx response decoded from the API error body.
type APIError struct {
	Status  int
	Message string `json:"error"`
	Kind    string `json:"kind"`
	Detail  string `json:"detail"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Kind != "" {
		return fmt.Sprintf("%s (%s, status %d)", msg, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.Status)
}

// Do sends body as JSON to /api+path and returns the raw response body.
func (c *APIClient) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Base+"/api"+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(out, apiErr)
		return nil, apiErr
	}
	return out, nil
}

// OpenSession logs in as identity; the cookie is kept in the client's jar.
func (c *APIClient) OpenSession(ctx context.Context, identity string) error {
	_, err := c.Do(ctx, http.MethodPost, "/session", map[string]string{"identity": identity})
	return err
}

func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, err = w.Write(raw)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

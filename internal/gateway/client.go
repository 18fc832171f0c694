package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"restaurant-dashboard/internal/metrics"
	"restaurant-dashboard/internal/session"
)

var (
	ErrUnauthorized = errors.New("gateway: unauthorized")
	ErrNotFound     = errors.New("gateway: not found")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

type Config struct {
	BaseURL      string
	Tenant       string
	Timeout      time.Duration
	ServiceToken string
}

// Client talks to the restaurant backend. It holds no state besides its
// configuration and is safe for concurrent use.
type Client struct {
	base         string
	tenant       string
	serviceToken string
	http         *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:         strings.TrimRight(cfg.BaseURL, "/"),
		tenant:       cfg.Tenant,
		serviceToken: cfg.ServiceToken,
		http:         &http.Client{Timeout: timeout},
	}
}

func (c *Client) Tenant() string { return c.tenant }

// tenantPath builds /{resource}/{tenant}[/{parts}...].
func (c *Client) tenantPath(resource string, parts ...string) string {
	p := "/" + resource + "/" + url.PathEscape(c.tenant)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.bearer(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

func (c *Client) bearer(ctx context.Context) string {
	if s, ok := session.FromContext(ctx); ok && s.Token != "" {
		return s.Token
	}
	return c.serviceToken
}

// send executes req and turns non-2xx answers into *APIError.
// The caller owns the body of a successful response.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	started := time.Now()
	resource := resourceOf(req.URL.Path)
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveGateway(req.Method, resource, 0, started)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	metrics.ObserveGateway(req.Method, resource, resp.StatusCode, started)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     req.Method,
			Path:       req.URL.Path,
			Body:       strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// do sends an optional JSON body and returns the raw response body.
func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	return b, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	b, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// getList decodes either a bare JSON array or one wrapped as {"data": [...]}.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	b, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	raw := unwrap(b, "data")
	var out []T
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode GET %s: %w", path, err)
	}
	return out, nil
}

// unwrap returns the first of keys present in a JSON object, or b unchanged.
func unwrap(b []byte, keys ...string) []byte {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return b
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return b
	}
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v
		}
	}
	return b
}

func resourceOf(path string) string {
	seg := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	if seg == "" {
		return "root"
	}
	return seg
}

// Package api is the HTTP collaborator for the todo REST API. Payloads
// travel in a {"data": ...} envelope; user endpoints return bare objects.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/tada/internal/logging"
)

// RequestIDHeader carries a per-request uuid for server-side correlation.
const RequestIDHeader = "X-Request-ID"

// TokenSource yields the bearer token for a request. An empty token sends
// no Authorization header.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (s StaticToken) Token() (string, error) { return string(s), nil }

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client talks to the todo API rooted at baseURL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	log        logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the request timeout on the default http.Client.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.httpClient.Timeout = d } }

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option { return func(c *Client) { c.tokens = ts } }

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option { return func(c *Client) { c.log = l } }

// NewClient creates an API client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     StaticToken(""),
		log:        logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// errorBody matches {"error": {"status": 400, "message": "..."}}.
type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// do sends body (if non-nil) as JSON and decodes the response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tok, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warnf("%s %s [%s] failed: %v", method, path, reqID, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debugf("%s %s [%s] %d in %s", method, path, reqID, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		switch {
		case eb.Error.Message != "":
			apiErr.Message = eb.Error.Message
		case eb.Message != "":
			apiErr.Message = eb.Message
		}
	}
	return apiErr
}

// File: internal/infra/rest/client.go
package rest

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

	"github.com/rs/zerolog"

	"prapp-client/internal/infra/logging"
	"prapp-client/internal/infra/metrics"
)

// TokenSource supplies the bearer token for authenticated calls. The token
// lives in client-local storage under a fixed key; refresh is not this
// layer's job.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a plain function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken is a fixed-value TokenSource, mostly for tests and dev mode.
func StaticToken(token string) TokenSource {
	return TokenFunc(func(context.Context) (string, error) { return token, nil })
}

// Client wraps net/http with JSON (de)serialization, per-call bearer-token
// attachment and uniform error translation. All resource clients share one
// instance.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     logger,
	}
}

// call describes one request. Authed is an explicit capability flag: the
// Authorization header is attached only when a call asks for it, never
// inferred from the path.
type call struct {
	resource    string
	operation   string
	method      string
	path        string
	query       url.Values
	authed      bool
	body        any
	rawBody     []byte // multipart and other pre-encoded payloads
	contentType string
}

// do executes a call and decodes a 2xx JSON response into out (out may be
// nil for responses the caller discards).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	start := time.Now()
	status, err := c.roundTrip(ctx, cl, out)
	latency := time.Since(start).Milliseconds()
	metrics.ObserveAPICall(cl.resource, cl.operation, status, latency, err == nil)

	if c.log != nil {
		logger := logging.With(ctx, c.log)
		evt := logger.Trace()
		if err != nil {
			evt = logger.Debug().Err(err)
		}
		evt.Str("method", cl.method).Str("path", cl.path).Int("status", status).
			Int64("latency_ms", latency).Msg("api call")
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, cl call, out any) (int, error) {
	var body io.Reader
	contentType := cl.contentType
	switch {
	case cl.rawBody != nil:
		body = bytes.NewReader(cl.rawBody)
	case cl.body != nil:
		b, err := json.Marshal(cl.body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if cl.authed {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return 0, fmt.Errorf("load auth token: %w", err)
		}
		if token == "" {
			return 0, errors.New("no auth token available for protected endpoint")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// No response at all: connectivity problem, retryable.
		return 0, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, newAPIError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

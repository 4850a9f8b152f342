// Package apiclient is a thin JSON client for the print-shop REST backend.
package apiclient

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

	"github.com/rs/zerolog/log"
)

const maxErrorBody = 64 << 10

// Client talks to the backend. A Client carries at most one bearer token;
// use WithToken to derive a per-session client.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	token          string
	onUnauthorized func()
}

// New returns an anonymous client for baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", baseURL)
	}
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// WithToken returns a copy that authenticates with token. onUnauthorized, if
// set, runs whenever the backend answers 401.
func (c *Client) WithToken(token string, onUnauthorized func()) *Client {
	cp := *c
	cp.token = token
	cp.onUnauthorized = onUnauthorized
	return &cp
}

// do sends one request. Nothing is retried: reads are refreshed by polling
// and failed mutations are resubmitted by the user.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL.String() + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode >= http.StatusBadRequest {
		herr := decodeError(resp)
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return herr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func decodeError(resp *http.Response) *HTTPError {
	herr := &HTTPError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return herr
	}

	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if json.Unmarshal(raw, &payload) != nil {
		herr.Message = strings.TrimSpace(string(raw))
		return herr
	}
	herr.Message = messageText(payload.Message)
	if herr.Message == "" {
		herr.Message = payload.Error
	}
	return herr
}

// messageText reads a message that is either a string or a list of strings.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return strings.Join(list, "; ")
	}
	return ""
}

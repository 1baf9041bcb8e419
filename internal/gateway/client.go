// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package gateway is the HTTP client for the AI backend gateway. All
// generation, validation, and image calls in the pipeline go through it.
// The gateway speaks the OpenAI chat-completions wire format; this client
// adds JSON plumbing, failure classification, and bounded retry with
// exponential backoff for transport-level errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// Config holds gateway connection settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string // default chat model
	ImageModel string // model used for image generation calls
	MaxRetries int    // transport retry budget; a call makes at most MaxRetries+1 attempts

	// RetryBase is the first backoff delay, doubled on each subsequent
	// attempt. Zero means the 500ms default.
	RetryBase time.Duration

	// HTTPClient overrides the default client. Used by tests to inject a
	// failing transport.
	HTTPClient *http.Client
}

// Client issues JSON POST requests to the gateway.
type Client struct {
	cfg    Config
	client *http.Client
}

// New creates a gateway client. MaxRetries defaults to 3 when negative.
func New(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBase == 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{cfg: cfg, client: client}
}

// post sends a JSON POST to path and decodes the 2xx response body into out.
// Transport failures are retried with exponential backoff up to the budget;
// HTTP error statuses and malformed bodies fail immediately. The returned
// error is always a *Error.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Kind: KindParse, Message: "marshal request", Err: err}
	}

	backoff := retry.WithMaxRetries(uint64(c.cfg.MaxRetries), retry.NewExponential(c.cfg.RetryBase))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptErr := c.attempt(ctx, path, body, out)
		if attemptErr != nil && retryable(attemptErr) {
			return retry.RetryableError(attemptErr)
		}
		return attemptErr
	})
	if err == nil {
		return nil
	}

	// A transport error surviving the loop means the budget ran out.
	if retryable(err) {
		return &Error{
			Kind:    KindExhausted,
			Message: fmt.Sprintf("gave up after %d attempts: %s", c.cfg.MaxRetries+1, err),
			Err:     err,
		}
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}
	// Context cancellation during backoff sleep arrives unwrapped.
	return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
}

// attempt performs one request/response cycle.
func (c *Client) attempt(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return &Error{Kind: KindParse, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "read body: " + err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:    KindHTTP,
			Status:  resp.StatusCode,
			Message: serverMessage(respBody, resp.StatusCode),
		}
	}

	if !isJSONContentType(resp.Header.Get("Content-Type")) {
		return &Error{Kind: KindParse, Status: resp.StatusCode, Message: "malformed upstream response: not JSON"}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Kind: KindParse, Status: resp.StatusCode, Message: "decode response", Err: err}
	}
	return nil
}

// serverMessage extracts a human-readable message from an error response
// body, falling back to a generic status line. Gateways disagree on the
// field name, so several are tried.
func serverMessage(body []byte, status int) string {
	var fields struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, m := range []string{fields.Error, fields.Message, fields.Detail} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// isJSONContentType reports whether a Content-Type header denotes JSON.
func isJSONContentType(ct string) bool {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newTestClient builds a client against base with a tiny backoff so retry
// tests run fast.
func newTestClient(base string, maxRetries int) *Client {
	return New(Config{
		BaseURL:    base,
		APIKey:     "test-key",
		Model:      "test-model",
		ImageModel: "test-image-model",
		MaxRetries: maxRetries,
		RetryBase:  time.Millisecond,
	})
}

// chatSuccessBody builds a JSON body in the chat-completions response
// format with a single choice containing the given text.
func chatSuccessBody(text string) []byte {
	resp := chatResponse{
		Choices: []chatChoice{
			{Message: chatMessage{Role: "assistant", Content: text}},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

func TestChat_Success(t *testing.T) {
	want := "generated text"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(chatSuccessBody(want))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	got, err := c.Chat(context.Background(), "sys", "usr")
	if err != nil {
		t.Fatalf("Chat: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Chat: got %q, want %q", got, want)
	}
}

func TestChat_VerifiesRequestShape(t *testing.T) {
	var captured chatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		w.Write(chatSuccessBody("ok"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	if _, err := c.ChatJSON(context.Background(), "system prompt", "user prompt"); err != nil {
		t.Fatalf("ChatJSON: %v", err)
	}

	if auth != "Bearer test-key" {
		t.Errorf("Authorization: got %q", auth)
	}
	if captured.Model != "test-model" {
		t.Errorf("model: got %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Content != "user prompt" {
		t.Errorf("messages: got %+v", captured.Messages)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format: got %+v", captured.ResponseFormat)
	}
}

// failingTransport always fails at the transport level and counts attempts.
type failingTransport struct {
	attempts atomic.Int64
}

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.attempts.Add(1)
	return nil, fmt.Errorf("connection refused")
}

func TestChat_RetryBudgetExhausted(t *testing.T) {
	ft := &failingTransport{}
	c := New(Config{
		BaseURL:    "http://gateway.invalid",
		MaxRetries: 3,
		RetryBase:  time.Millisecond,
		HTTPClient: &http.Client{Transport: ft},
	})

	_, err := c.Chat(context.Background(), "sys", "usr")
	if err == nil {
		t.Fatal("expected error from failing transport")
	}

	// Exactly maxRetries+1 attempts, then an exhausted-retries error.
	if got := ft.attempts.Load(); got != 4 {
		t.Errorf("attempts: got %d, want 4", got)
	}
	var ge *Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ge.Kind != KindExhausted {
		t.Errorf("kind: got %q, want %q", ge.Kind, KindExhausted)
	}
}

func TestChat_NoRetryOnHTTPError(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limit reached"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	_, err := c.Chat(context.Background(), "sys", "usr")
	if err == nil {
		t.Fatal("expected error for HTTP 429")
	}

	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts: got %d, want 1 (HTTP errors must not retry)", got)
	}
	if !IsRateLimited(err) {
		t.Errorf("IsRateLimited: got false for %v", err)
	}
	var ge *Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ge.Kind != KindHTTP || ge.Status != http.StatusTooManyRequests {
		t.Errorf("got kind=%q status=%d", ge.Kind, ge.Status)
	}
	if ge.Message != "rate limit reached" {
		t.Errorf("message: got %q, want server-provided message", ge.Message)
	}
}

func TestChat_QuotaExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"message":"credits exhausted"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	_, err := c.Chat(context.Background(), "sys", "usr")
	if !IsQuotaExhausted(err) {
		t.Errorf("IsQuotaExhausted: got false for %v", err)
	}
}

func TestChat_NonJSONResponse(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>gateway timeout page</html>"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	_, err := c.Chat(context.Background(), "sys", "usr")
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}

	var ge *Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ge.Kind != KindParse {
		t.Errorf("kind: got %q, want %q", ge.Kind, KindParse)
	}
	if !strings.Contains(ge.Message, "malformed upstream response") {
		t.Errorf("message: got %q", ge.Message)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts: got %d, want 1 (parse errors must not retry)", got)
	}
}

func TestChat_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	_, err := c.Chat(context.Background(), "sys", "usr")
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
	if !strings.Contains(err.Error(), "no choices") {
		t.Errorf("error should mention no choices: %v", err)
	}
}

func TestChat_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(chatSuccessBody("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(srv.URL, 3)
	if _, err := c.Chat(ctx, "sys", "usr"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestGenerateImage_Success(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"","images":[{"image_url":{"url":"data:image/png;base64,aGVsbG8="}}]}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	url, err := c.GenerateImage(context.Background(), "a blue square")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("url: got %q", url)
	}
	if captured.Model != "test-image-model" {
		t.Errorf("model: got %q, want image model", captured.Model)
	}
	if len(captured.Modalities) != 2 {
		t.Errorf("modalities: got %v", captured.Modalities)
	}
}

func TestGenerateImage_NoImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(chatSuccessBody("sorry, text only"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	if _, err := c.GenerateImage(context.Background(), "p"); err == nil {
		t.Fatal("expected error when response has no image")
	}
}

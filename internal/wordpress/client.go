// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package wordpress publishes posts to a user's WordPress site through the
// REST API, authenticating with an Application Password over HTTP Basic auth.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"postpilot/internal/models"
)

// Client talks to WordPress REST APIs. One client serves all users; the
// per-user site and credentials travel with each call.
type Client struct {
	httpClient *http.Client
}

// New creates a WordPress client with a sane request timeout.
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Post is the payload sent to the WordPress posts endpoint.
type Post struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

// PublishResult is the subset of the WordPress response the caller needs:
// the new post's ID and its public permalink.
type PublishResult struct {
	PostID string `json:"post_id"`
	URL    string `json:"url"`
}

// Publish creates a post on the user's site. The post is created with
// status "publish" so it goes live immediately.
func (c *Client) Publish(ctx context.Context, settings *models.WordPressSettings, title, htmlContent string) (*PublishResult, error) {
	body, err := json.Marshal(Post{
		Title:   title,
		Content: htmlContent,
		Status:  "publish",
	})
	if err != nil {
		return nil, fmt.Errorf("encode post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.PostsEndpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(settings.Username, settings.ApplicationPassword)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wordpress publish: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read wordpress response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("wordpress publish failed: status %d: %s", resp.StatusCode, wpErrorMessage(raw))
	}

	var created struct {
		ID   json.Number `json:"id"`
		Link string      `json:"link"`
	}
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("parse wordpress response: %w", err)
	}
	if created.ID.String() == "" {
		return nil, fmt.Errorf("wordpress response missing post id")
	}

	return &PublishResult{
		PostID: created.ID.String(),
		URL:    created.Link,
	}, nil
}

// wpErrorMessage pulls the human-readable message out of a WordPress error
// body, falling back to a truncated raw body.
func wpErrorMessage(raw []byte) string {
	var wpErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &wpErr); err == nil && wpErr.Message != "" {
		if wpErr.Code != "" {
			return wpErr.Code + ": " + wpErr.Message
		}
		return wpErr.Message
	}
	if len(raw) > 200 {
		raw = raw[:200]
	}
	return string(raw)
}

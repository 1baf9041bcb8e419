// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gateway

import (
	"context"
	"strings"
)

// Chat sends a chat-completion request with the default model and returns
// the assistant's response text.
func (c *Client) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.chat(ctx, c.cfg.Model, systemPrompt, userPrompt, "")
}

// ChatJSON is Chat with the response format pinned to a JSON object.
// Models honour the constraint imperfectly, so callers still strip code
// fences before parsing.
func (c *Client) ChatJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.chat(ctx, c.cfg.Model, systemPrompt, userPrompt, "json_object")
}

func (c *Client) chat(ctx context.Context, model, systemPrompt, userPrompt, format string) (string, error) {
	req := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	if format != "" {
		req.ResponseFormat = &responseFormat{Type: format}
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", req, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindParse, Message: "no choices returned"}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateImage requests an image from the gateway's multimodal endpoint.
// Returns the image as a data URL (or remote URL, depending on the
// gateway's storage configuration).
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model: c.cfg.ImageModel,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Modalities: []string{"image", "text"},
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", req, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.Images) == 0 {
		return "", &Error{Kind: KindParse, Message: "no image in response"}
	}
	url := resp.Choices[0].Message.Images[0].ImageURL.URL
	if url == "" {
		return "", &Error{Kind: KindParse, Message: "no image in response"}
	}
	return url, nil
}

// --- OpenAI-compatible request/response types ---

type chatMessage struct {
	Role    string         `json:"role"`
	Content string         `json:"content"`
	Images  []messageImage `json:"images,omitempty"`
}

type messageImage struct {
	ImageURL imageURL `json:"image_url"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Modalities     []string        `json:"modalities,omitempty"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Refine turns a raw keyword into a question-form blog title. Inputs under
// two characters are rejected before any network traffic. An unusable
// model response (empty after trimming) falls back to the keyword itself
// rather than failing the flow.
func (p *Pipeline) Refine(ctx context.Context, keyword string) (string, error) {
	keyword = strings.TrimSpace(keyword)
	if utf8.RuneCountInString(keyword) < 2 {
		return "", ErrKeywordTooShort
	}

	raw, err := p.backend.Chat(ctx, refineSystemPrompt, keyword)
	if err != nil {
		return "", fmt.Errorf("refine topic: %w", err)
	}

	title := cleanTitle(raw)
	if title == "" {
		return keyword, nil
	}
	return title, nil
}

// cleanTitle strips the wrapping quotes and whitespace models like to add
// around a bare title.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'“”‘’「」")
	return strings.TrimSpace(s)
}

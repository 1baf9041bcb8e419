// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
)

// FixMetadata carries the optional hints a caller can attach to a fix
// request. Empty fields are omitted from the prompt.
type FixMetadata struct {
	FocusKeyphrase string
	Language       string
	Style          string
}

// FixResult is the parsed outcome of one fix call. Fixing does not
// re-validate; callers decide whether and when to run validation again.
type FixResult struct {
	FixedContent   string   `json:"fixed_content"`
	FixSummary     []string `json:"fix_summary"`
	AddedFAQ       bool     `json:"added_faq"`
	KeywordDensity float64  `json:"keyword_density"`
}

// Fix rewrites a draft to resolve the issues a validation report listed.
// Unlike validation, a malformed fix response is a hard error — returning
// a half-parsed draft would silently destroy the user's content.
func (p *Pipeline) Fix(ctx context.Context, content string, report ValidationReport, meta FixMetadata) (*FixResult, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encode validation report: %w", err)
	}

	user := fmt.Sprintf("검증 결과:\n%s\n", reportJSON)
	if meta.FocusKeyphrase != "" {
		user += fmt.Sprintf("핵심 키워드: %s\n", meta.FocusKeyphrase)
	}
	if meta.Language != "" {
		user += fmt.Sprintf("언어: %s\n", meta.Language)
	}
	if meta.Style != "" {
		user += fmt.Sprintf("문체: %s\n", meta.Style)
	}
	user += fmt.Sprintf("\n본문:\n%s", content)

	raw, err := p.backend.ChatJSON(ctx, fixSystemPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("fix content: %w", err)
	}

	var result FixResult
	if err := json.Unmarshal([]byte(StripFence(raw)), &result); err != nil {
		return nil, fmt.Errorf("parse fix response: %w", err)
	}
	if result.FixedContent == "" {
		return nil, fmt.Errorf("fix response missing fixed_content")
	}
	return &result, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pipeline implements the content production flow: a raw keyword
// is refined into a title, expanded into a draft, validated, and fixed
// until it is publish-ready or the fix budget runs out.
package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// maxFixAttempts bounds the validate/fix loop inside Run. Each attempt is
// one fix call followed by one re-validation.
const maxFixAttempts = 3

// ErrKeywordTooShort is returned before any network call when the input
// keyword is under two characters.
var ErrKeywordTooShort = errors.New("keyword must be at least 2 characters")

// Backend is the slice of the AI gateway the pipeline needs. *gateway.Client
// satisfies it.
type Backend interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	ChatJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Pipeline runs the topic-to-draft production flow against a Backend.
type Pipeline struct {
	backend Backend
}

func New(backend Backend) *Pipeline {
	return &Pipeline{backend: backend}
}

// WriteOptions selects the shape of the generated draft. Zero values fall
// back to medium length and professional tone.
type WriteOptions struct {
	Length Length
	Tone   Tone
}

// WriteResult is the outcome of a full Run: the final draft, its last
// validation, and a record of what the fix loop did.
type WriteResult struct {
	InputTopic   string       `json:"input_topic"`
	RefinedTopic string       `json:"refined_topic"`
	Content      string       `json:"content"`
	Validation   ReportResult `json:"validation"`
	FixSummary   []string     `json:"fix_summary,omitempty"`
	FixAttempts  int          `json:"fix_attempts"`
}

// Run executes the full flow: refine, generate, validate, then fix and
// re-validate until the report is publish-ready or maxFixAttempts is
// spent. A degraded validation stops the loop immediately — fixing against
// a fabricated report would churn the draft for nothing.
func (p *Pipeline) Run(ctx context.Context, topic string, opts WriteOptions) (*WriteResult, error) {
	title, err := p.Refine(ctx, topic)
	if err != nil {
		return nil, err
	}

	content, err := p.Generate(ctx, title, topic, opts.Length, opts.Tone)
	if err != nil {
		return nil, err
	}

	result := &WriteResult{
		InputTopic:   topic,
		RefinedTopic: title,
		Content:      content,
	}

	result.Validation, err = p.Validate(ctx, content, topic)
	if err != nil {
		return nil, err
	}

	for result.FixAttempts < maxFixAttempts &&
		!result.Validation.Degraded &&
		!result.Validation.Report.PublishReady() {

		fixed, err := p.Fix(ctx, result.Content, result.Validation.Report, FixMetadata{
			FocusKeyphrase: topic,
		})
		if err != nil {
			return nil, err
		}
		result.Content = fixed.FixedContent
		result.FixSummary = append(result.FixSummary, fixed.FixSummary...)
		result.FixAttempts++

		result.Validation, err = p.Validate(ctx, result.Content, topic)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Validate scores a draft against its focus keyword. The network call can
// fail; a malformed response cannot — it degrades into a fallback report.
func (p *Pipeline) Validate(ctx context.Context, content, keyword string) (ReportResult, error) {
	user := fmt.Sprintf("핵심 키워드: %s\n\n본문:\n%s", keyword, content)
	raw, err := p.backend.ChatJSON(ctx, validateSystemPrompt, user)
	if err != nil {
		return ReportResult{}, fmt.Errorf("validate content: %w", err)
	}
	return ParseReport(raw), nil
}

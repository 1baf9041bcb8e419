// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pipeline

import (
	"encoding/json"
	"strings"
)

// Scores holds the three 0-10 quality scores of a validation pass.
type Scores struct {
	Grammar int `json:"grammar"`
	Human   int `json:"human"`
	SEO     int `json:"seo"`
}

// Issue is one discrete problem the validator found in a draft.
type Issue struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ValidationReport is the structured quality assessment of a draft.
// An empty Issues list is the sole publish-ready signal — both the UI
// and the fixer branch on it.
type ValidationReport struct {
	Scores Scores  `json:"scores"`
	HasFAQ bool    `json:"has_faq"`
	Issues []Issue `json:"issues"`

	// Legacy flat fields still emitted by older backends. Accepted on
	// input and folded into the canonical fields by normalize.
	GrammarScore *int     `json:"grammar_score,omitempty"`
	HumanScore   *int     `json:"human_score,omitempty"`
	SEOScore     *int     `json:"seo_score,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

// PublishReady reports whether the draft needs no further fixing.
func (r *ValidationReport) PublishReady() bool {
	return len(r.Issues) == 0
}

// normalize folds the legacy wire shape into the canonical one.
func (r *ValidationReport) normalize() {
	if r.Scores == (Scores{}) {
		if r.GrammarScore != nil {
			r.Scores.Grammar = *r.GrammarScore
		}
		if r.HumanScore != nil {
			r.Scores.Human = *r.HumanScore
		}
		if r.SEOScore != nil {
			r.Scores.SEO = *r.SEOScore
		}
	}
	// Legacy reports carry suggestions instead of typed issues. Only fold
	// them in when the canonical field is absent entirely — an explicit
	// empty issues list means publish-ready and must stay that way.
	if r.Issues == nil && len(r.Suggestions) > 0 {
		for _, s := range r.Suggestions {
			r.Issues = append(r.Issues, Issue{Type: "suggestion", Message: s})
		}
	}
	if r.Issues == nil {
		r.Issues = []Issue{}
	}
	r.GrammarScore, r.HumanScore, r.SEOScore = nil, nil, nil
	r.Suggestions = nil
}

// ReportResult is the tagged outcome of parsing a validator response.
// Degraded reports are still valid reports — callers branch on the tag,
// they never see a parse exception.
type ReportResult struct {
	Report   ValidationReport `json:"report"`
	Degraded bool             `json:"degraded"`
	Reason   string           `json:"degraded_reason,omitempty"`
}

// ParseReport parses the validator's raw response into a report. The model
// may wrap its JSON in a fenced code block; the fence is stripped first.
// When parsing fails anyway, a degraded report with conservative default
// scores and a single parse-failure issue is returned instead of an error
// — validation is advisory and must never sink the pipeline.
func ParseReport(raw string) ReportResult {
	cleaned := StripFence(raw)

	var report ValidationReport
	if err := json.Unmarshal([]byte(cleaned), &report); err != nil {
		return ReportResult{
			Report:   degradedReport(),
			Degraded: true,
			Reason:   "validator returned unparseable JSON: " + err.Error(),
		}
	}
	report.normalize()
	return ReportResult{Report: report}
}

// degradedReport is the conservative fallback when the validator's output
// cannot be parsed. Scores sit mid-scale and the single issue keeps the
// draft out of the publish-ready state.
func degradedReport() ValidationReport {
	return ValidationReport{
		Scores: Scores{Grammar: 5, Human: 5, SEO: 5},
		Issues: []Issue{
			{Type: "parse_error", Message: "검증 결과를 해석하지 못했습니다. 다시 시도해주세요."},
		},
	}
}

// StripFence removes a surrounding markdown code fence (```json ... ``` or
// ``` ... ```) from a model response, returning the inner text.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i != -1 {
		s = s[i+1:]
	} else {
		return strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if i := strings.LastIndex(s, "```"); i != -1 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

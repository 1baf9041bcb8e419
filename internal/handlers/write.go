// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"postpilot/internal/pipeline"
)

// Write groups the content production endpoints: the full pipeline run and
// its individual stages.
type Write struct {
	pipeline *pipeline.Pipeline
	appName  string
	env      string
}

// NewWrite creates a new Write handler group.
func NewWrite(p *pipeline.Pipeline, appName, env string) *Write {
	return &Write{pipeline: p, appName: appName, env: env}
}

// flattenValidation shapes a validation result for the wire. Clients read
// the report fields directly off the validation object, so they sit at the
// top level with the degraded tag and reason as siblings.
func flattenValidation(res pipeline.ReportResult) map[string]any {
	out := map[string]any{
		"scores":   res.Report.Scores,
		"has_faq":  res.Report.HasFAQ,
		"issues":   res.Report.Issues,
		"degraded": res.Degraded,
	}
	if res.Reason != "" {
		out["degraded_reason"] = res.Reason
	}
	return out
}

// Health reports service liveness.
func (h *Write) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"app":    h.appName,
		"env":    h.env,
	})
}

// Refine turns a raw keyword into a refined blog title.
func (h *Write) Refine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	title, err := h.pipeline.Refine(r.Context(), req.Topic)
	if err != nil {
		aiError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":        "ok",
		"input_topic":   req.Topic,
		"refined_topic": title,
	})
}

// Run executes the full pipeline: refine, generate, validate, and the
// bounded fix loop.
func (h *Write) Run(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic  string `json:"topic"`
		Length string `json:"length"`
		Tone   string `json:"tone"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	result, err := h.pipeline.Run(r.Context(), req.Topic, pipeline.WriteOptions{
		Length: pipeline.Length(req.Length),
		Tone:   pipeline.Tone(req.Tone),
	})
	if err != nil {
		aiError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"input_topic":   result.InputTopic,
		"refined_topic": result.RefinedTopic,
		"content":       result.Content,
		"validation":    flattenValidation(result.Validation),
		"fix_summary":   result.FixSummary,
		"fix_attempts":  result.FixAttempts,
	})
}

// Validate scores a draft without modifying it.
func (h *Write) Validate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		Keyword string `json:"keyword"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}
	if req.Content == "" {
		apiError(w, http.StatusBadRequest, "검증할 본문이 없습니다.")
		return
	}

	result, err := h.pipeline.Validate(r.Context(), req.Content, req.Keyword)
	if err != nil {
		aiError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"validation": flattenValidation(result),
	})
}

// Fix rewrites a draft to resolve reported issues. It does not re-validate;
// the client decides whether to call Validate again.
func (h *Write) Fix(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content  string                    `json:"content"`
		Report   pipeline.ValidationReport `json:"validation_report"`
		Metadata struct {
			FocusKeyphrase string `json:"focus_keyphrase"`
			Language       string `json:"language"`
			Style          string `json:"style"`
		} `json:"metadata"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}
	if req.Content == "" {
		apiError(w, http.StatusBadRequest, "수정할 본문이 없습니다.")
		return
	}

	result, err := h.pipeline.Fix(r.Context(), req.Content, req.Report, pipeline.FixMetadata{
		FocusKeyphrase: req.Metadata.FocusKeyphrase,
		Language:       req.Metadata.Language,
		Style:          req.Metadata.Style,
	})
	if err != nil {
		aiError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"fixed_content":   result.FixedContent,
		"fix_summary":     result.FixSummary,
		"added_faq":       result.AddedFAQ,
		"keyword_density": result.KeywordDensity,
	})
}

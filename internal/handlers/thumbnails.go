// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"postpilot/internal/pipeline"
)

// Thumbnails serves thumbnail batch generation.
type Thumbnails struct {
	pipeline *pipeline.Pipeline
}

// NewThumbnails creates a new Thumbnails handler group.
func NewThumbnails(p *pipeline.Pipeline) *Thumbnails {
	return &Thumbnails{pipeline: p}
}

// Generate produces a batch of thumbnails for a post. The batch is
// all-or-nothing; a mid-batch failure returns an error and no images.
func (h *Thumbnails) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Size    string `json:"size"`
		Style   string `json:"style"`
		Count   int    `json:"count"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}
	if req.Title == "" {
		apiError(w, http.StatusBadRequest, "제목을 입력해주세요.")
		return
	}

	set, err := h.pipeline.GenerateThumbnails(r.Context(), req.Title, req.Content,
		pipeline.ThumbnailSize(req.Size), pipeline.ThumbnailStyle(req.Style), req.Count)
	if err != nil {
		aiError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"data":   set,
	})
}

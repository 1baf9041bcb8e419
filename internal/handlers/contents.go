// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"postpilot/internal/imaging"
	"postpilot/internal/markdown"
	"postpilot/internal/middleware"
	"postpilot/internal/models"
	"postpilot/internal/store"
	"postpilot/internal/storage"
	"postpilot/internal/wordpress"
)

// previewMaxWidth bounds stored thumbnail previews.
const previewMaxWidth = 640

// Contents serves the content history CRUD and the WordPress publish flow.
type Contents struct {
	contentStore   *store.ContentStore
	wordpressStore *store.WordPressStore
	publisher      *wordpress.Client
	storage        *storage.Client // nil when S3 is not configured
}

// NewContents creates a new Contents handler group.
func NewContents(cs *store.ContentStore, ws *store.WordPressStore, publisher *wordpress.Client, st *storage.Client) *Contents {
	return &Contents{
		contentStore:   cs,
		wordpressStore: ws,
		publisher:      publisher,
		storage:        st,
	}
}

// List returns the user's content history, newest first.
func (h *Contents) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	records, err := h.contentStore.ListByUser(sess.UserID, 50)
	if err != nil {
		slog.Error("list contents failed", "error", err)
		apiError(w, http.StatusInternalServerError, "콘텐츠 목록을 불러오지 못했습니다.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"data":   records,
	})
}

// Create saves a generated draft into the history. When a thumbnail data
// URL is attached and S3 is configured, a downscaled preview is stored and
// its URL saved instead of the raw data URL.
func (h *Contents) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Keyword        string `json:"keyword"`
		Title          string `json:"title"`
		Content        string `json:"content"`
		ThumbnailImage string `json:"thumbnail_image"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}
	if req.Title == "" || req.Content == "" {
		apiError(w, http.StatusBadRequest, "제목과 본문은 필수입니다.")
		return
	}

	var thumbnail *string
	if req.ThumbnailImage != "" {
		stored := h.storeThumbnail(r, sess.UserID, req.ThumbnailImage)
		if stored != "" {
			thumbnail = &stored
		}
	}

	record, err := h.contentStore.Create(sess.UserID, req.Keyword, req.Title, req.Content, thumbnail)
	if err != nil {
		slog.Error("create content failed", "error", err)
		apiError(w, http.StatusInternalServerError, "콘텐츠 저장에 실패했습니다.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "ok",
		"data":   record,
	})
}

// storeThumbnail uploads a downscaled JPEG preview of a thumbnail data URL
// to S3 and returns its public URL. Any failure falls back to keeping the
// data URL inline so the save never fails over a preview.
func (h *Contents) storeThumbnail(r *http.Request, userID uuid.UUID, dataURL string) string {
	if h.storage == nil {
		return dataURL
	}

	raw, _, err := imaging.DecodeDataURL(dataURL)
	if err != nil {
		slog.Warn("thumbnail decode failed", "error", err)
		return dataURL
	}

	preview, err := imaging.PreviewJPEG(raw, previewMaxWidth)
	if err != nil {
		slog.Warn("thumbnail preview failed", "error", err)
		return dataURL
	}

	key := fmt.Sprintf("thumbnails/%s/%s.jpg", userID, uuid.New())
	if err := h.storage.Upload(r.Context(), key, "image/jpeg", preview); err != nil {
		slog.Warn("thumbnail upload failed", "error", err)
		return dataURL
	}
	return h.storage.FileURL(key)
}

// SetThumbnail attaches or replaces a record's thumbnail after the fact,
// for drafts saved before their thumbnail was generated.
func (h *Contents) SetThumbnail(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 콘텐츠 ID입니다.")
		return
	}

	var req struct {
		ThumbnailImage string `json:"thumbnail_image"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}
	if req.ThumbnailImage == "" {
		apiError(w, http.StatusBadRequest, "썸네일 이미지가 없습니다.")
		return
	}

	record, err := h.contentStore.FindByID(id, sess.UserID)
	if err != nil {
		slog.Error("thumbnail lookup failed", "error", err)
		apiError(w, http.StatusInternalServerError, "콘텐츠를 불러오지 못했습니다.")
		return
	}
	if record == nil {
		apiError(w, http.StatusNotFound, "콘텐츠를 찾을 수 없습니다.")
		return
	}

	stored := h.storeThumbnail(r, sess.UserID, req.ThumbnailImage)
	if err := h.contentStore.SetThumbnail(id, sess.UserID, stored); err != nil {
		slog.Error("set thumbnail failed", "error", err)
		apiError(w, http.StatusInternalServerError, "썸네일 저장에 실패했습니다.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"thumbnail_image": stored,
	})
}

// Get returns one content record.
func (h *Contents) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 콘텐츠 ID입니다.")
		return
	}

	record, err := h.contentStore.FindByID(id, sess.UserID)
	if err != nil {
		slog.Error("get content failed", "error", err)
		apiError(w, http.StatusInternalServerError, "콘텐츠를 불러오지 못했습니다.")
		return
	}
	if record == nil {
		apiError(w, http.StatusNotFound, "콘텐츠를 찾을 수 없습니다.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"data":   record,
	})
}

// Delete removes a content record.
func (h *Contents) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 콘텐츠 ID입니다.")
		return
	}

	if err := h.contentStore.Delete(id, sess.UserID); err != nil {
		slog.Error("delete content failed", "error", err)
		apiError(w, http.StatusInternalServerError, "콘텐츠 삭제에 실패했습니다.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// prependThumbnail places the stored thumbnail above the rendered body.
// Inline data URLs are skipped; only hosted images are embedded. The title
// lands inside an attribute and must be escaped.
func prependThumbnail(body string, record *models.ContentRecord) string {
	if record.ThumbnailImage == nil || !strings.HasPrefix(*record.ThumbnailImage, "http") {
		return body
	}
	return fmt.Sprintf(`<p><img src="%s" alt="%s" /></p>%s`,
		*record.ThumbnailImage, html.EscapeString(record.Title), body)
}

// Publish pushes a saved draft to the user's WordPress site. The markdown
// body is rendered to HTML first. On success the record flips to published
// exactly once; a failed publish leaves it pending.
func (h *Contents) Publish(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 콘텐츠 ID입니다.")
		return
	}

	record, err := h.contentStore.FindByID(id, sess.UserID)
	if err != nil {
		slog.Error("publish lookup failed", "error", err)
		apiError(w, http.StatusInternalServerError, "콘텐츠를 불러오지 못했습니다.")
		return
	}
	if record == nil {
		apiError(w, http.StatusNotFound, "콘텐츠를 찾을 수 없습니다.")
		return
	}
	if record.IsPublished() {
		apiError(w, http.StatusConflict, "이미 발행된 콘텐츠입니다.")
		return
	}

	settings, err := h.wordpressStore.FindByUser(sess.UserID)
	if err != nil {
		slog.Error("publish settings lookup failed", "error", err)
		apiError(w, http.StatusInternalServerError, "워드프레스 설정을 불러오지 못했습니다.")
		return
	}
	if settings == nil {
		apiError(w, http.StatusPreconditionFailed, "워드프레스 연결 정보를 먼저 설정해주세요.")
		return
	}

	body, err := markdown.ToHTML(record.Content)
	if err != nil {
		slog.Error("markdown render failed", "error", err)
		apiError(w, http.StatusInternalServerError, "본문 변환에 실패했습니다.")
		return
	}
	body = prependThumbnail(body, record)

	result, err := h.publisher.Publish(r.Context(), settings, record.Title, body)
	if err != nil {
		slog.Error("wordpress publish failed", "error", err, "content_id", id)
		apiError(w, http.StatusBadGateway, "워드프레스 발행에 실패했습니다. 연결 정보를 확인해주세요.")
		return
	}

	if err := h.contentStore.MarkPublished(id, sess.UserID, result.PostID); err != nil {
		// The post exists on WordPress but our record didn't flip; surface
		// the inconsistency instead of pretending the publish failed.
		slog.Error("mark published failed", "error", err, "content_id", id, "wordpress_post_id", result.PostID)
		apiError(w, http.StatusInternalServerError, "발행 상태 저장에 실패했습니다.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"wordpress_post_id": result.PostID,
		"wordpress_url":     result.URL,
	})
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"postpilot/internal/middleware"
	"postpilot/internal/store"
)

// Settings serves per-user WordPress connection settings.
type Settings struct {
	wordpressStore *store.WordPressStore
}

// NewSettings creates a new Settings handler group.
func NewSettings(ws *store.WordPressStore) *Settings {
	return &Settings{wordpressStore: ws}
}

// GetWordPress returns the user's WordPress connection, with the
// application password omitted.
func (h *Settings) GetWordPress(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	settings, err := h.wordpressStore.FindByUser(sess.UserID)
	if err != nil {
		slog.Error("wordpress settings lookup failed", "error", err)
		apiError(w, http.StatusInternalServerError, "설정을 불러오지 못했습니다.")
		return
	}
	if settings == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"connected": false,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"connected": true,
		"site_url":  settings.SiteURL,
		"username":  settings.Username,
	})
}

// PutWordPress saves the user's WordPress connection, replacing any
// existing one.
func (h *Settings) PutWordPress(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		SiteURL             string `json:"site_url"`
		Username            string `json:"username"`
		ApplicationPassword string `json:"application_password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	siteURL := strings.TrimSpace(req.SiteURL)
	parsed, err := url.Parse(siteURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		apiError(w, http.StatusBadRequest, "올바른 사이트 주소를 입력해주세요. (예: https://myblog.com)")
		return
	}
	if req.Username == "" || req.ApplicationPassword == "" {
		apiError(w, http.StatusBadRequest, "사용자 이름과 애플리케이션 비밀번호를 입력해주세요.")
		return
	}

	settings, err := h.wordpressStore.Upsert(sess.UserID, siteURL, req.Username, req.ApplicationPassword)
	if err != nil {
		slog.Error("wordpress settings upsert failed", "error", err)
		apiError(w, http.StatusInternalServerError, "설정 저장에 실패했습니다.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"connected": true,
		"site_url":  settings.SiteURL,
		"username":  settings.Username,
	})
}

// DeleteWordPress disconnects the user's WordPress site. Published history
// keeps its records; only the connection is removed.
func (h *Settings) DeleteWordPress(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	if err := h.wordpressStore.Delete(sess.UserID); err != nil {
		slog.Error("wordpress settings delete failed", "error", err)
		apiError(w, http.StatusInternalServerError, "워드프레스 연결 해제에 실패했습니다.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"connected": false,
	})
}

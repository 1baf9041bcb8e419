// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"postpilot/internal/cache"
	"postpilot/internal/middleware"
	"postpilot/internal/models"
	"postpilot/internal/pipeline"
	"postpilot/internal/store"
)

const keywordAnalyzeSystem = `당신은 한국어 검색 키워드 분석 전문가입니다. 주어진 키워드를 분석하고 반드시 아래 JSON 형식으로만 응답하세요.

{
  "search_volume": "high|medium|low",
  "competition": "high|medium|low",
  "search_intent": "정보형|거래형|탐색형",
  "related_keywords": ["연관 키워드 5~8개"],
  "content_ideas": ["이 키워드로 쓸 수 있는 글 주제 3~5개"],
  "summary": "분석 요약 한 단락"
}

JSON 외의 텍스트는 출력하지 마세요.`

const keywordTopSystem = `당신은 한국어 검색 트렌드 분석 전문가입니다. 주어진 키워드와 관련해 검색량이 높은 연관 키워드 10개를 반드시 아래 JSON 형식으로만 응답하세요.

{
  "keywords": [
    { "keyword": "연관 키워드", "search_volume": "high|medium|low", "trend": "rising|stable|falling" }
  ]
}

JSON 외의 텍스트는 출력하지 마세요.`

// Keywords serves keyword research endpoints.
type Keywords struct {
	backend      pipeline.Backend
	keywordStore *store.KeywordStore
	cache        *cache.KeywordCache
}

// NewKeywords creates a new Keywords handler group. cache may be nil when
// Valkey is not configured; lookups then always hit the gateway.
func NewKeywords(backend pipeline.Backend, keywordStore *store.KeywordStore, kc *cache.KeywordCache) *Keywords {
	return &Keywords{backend: backend, keywordStore: keywordStore, cache: kc}
}

// Analyze runs a full keyword analysis (volume, competition, intent,
// related keywords, content ideas) and persists the result.
func (h *Keywords) Analyze(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Keyword string `json:"keyword"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	keyword := strings.TrimSpace(req.Keyword)
	if utf8.RuneCountInString(keyword) < 2 {
		apiError(w, http.StatusBadRequest, "키워드는 2자 이상 입력해주세요.")
		return
	}

	raw, err := h.backend.ChatJSON(r.Context(), keywordAnalyzeSystem, keyword)
	if err != nil {
		aiError(w, err)
		return
	}

	analysis := json.RawMessage(pipeline.StripFence(raw))
	if !json.Valid(analysis) {
		slog.Error("keyword analysis not valid JSON", "keyword", keyword)
		apiError(w, http.StatusBadGateway, "키워드 분석 결과를 해석하지 못했습니다.")
		return
	}

	if _, err := h.keywordStore.Save(sess.UserID, keyword, analysis); err != nil {
		// Persisting history is best-effort; the user still gets the analysis.
		slog.Warn("keyword analysis save failed", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"keyword":  keyword,
		"analysis": analysis,
	})
}

// History returns the user's recent keyword analyses, newest first.
func (h *Keywords) History(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	analyses, err := h.keywordStore.ListByUser(sess.UserID, 20)
	if err != nil {
		slog.Error("keyword history failed", "error", err)
		apiError(w, http.StatusInternalServerError, "키워드 분석 기록을 불러오지 못했습니다.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"data":   analyses,
	})
}

// Top returns high-volume related keywords, cached in Valkey per seed
// keyword. A refresh request drops the cached set and asks the gateway
// again.
func (h *Keywords) Top(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Keyword string `json:"keyword"`
		Refresh bool   `json:"refresh"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	keyword := strings.TrimSpace(req.Keyword)
	if utf8.RuneCountInString(keyword) < 2 {
		apiError(w, http.StatusBadRequest, "키워드는 2자 이상 입력해주세요.")
		return
	}

	if h.cache != nil {
		if req.Refresh {
			h.cache.Invalidate(r.Context(), keyword)
		} else if cached, ok := h.cache.Get(r.Context(), keyword); ok {
			writeJSON(w, http.StatusOK, map[string]any{
				"status": "ok",
				"data":   cached,
				"cached": true,
			})
			return
		}
	}

	raw, err := h.backend.ChatJSON(r.Context(), keywordTopSystem, keyword)
	if err != nil {
		aiError(w, err)
		return
	}

	var parsed struct {
		Keywords []models.KeywordSuggestion `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(pipeline.StripFence(raw)), &parsed); err != nil {
		slog.Error("top keywords parse failed", "error", err)
		apiError(w, http.StatusBadGateway, "연관 키워드 결과를 해석하지 못했습니다.")
		return
	}

	if h.cache != nil {
		h.cache.Set(r.Context(), keyword, parsed.Keywords)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"data":   parsed.Keywords,
		"cached": false,
	})
}

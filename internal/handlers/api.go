// Package handlers implements the JSON API endpoints. Handlers are grouped
// into structs per area (auth, write, keywords, contents, settings), each
// holding the stores and clients it needs.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"postpilot/internal/gateway"
	"postpilot/internal/pipeline"
)

// maxBodySize caps request bodies; drafts are large but bounded.
const maxBodySize = 4 << 20

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// apiError writes the standard error envelope.
func apiError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}

// decodeJSON reads a JSON request body into dst with a size cap.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// aiError maps gateway and pipeline failures to an HTTP status and a
// user-facing Korean message, logging the underlying cause.
func aiError(w http.ResponseWriter, err error) {
	slog.Error("ai request failed", "error", err)

	switch {
	case errors.Is(err, pipeline.ErrKeywordTooShort):
		apiError(w, http.StatusBadRequest, "키워드는 2자 이상 입력해주세요.")
	case gateway.IsRateLimited(err):
		apiError(w, http.StatusTooManyRequests, "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.")
	case gateway.IsQuotaExhausted(err):
		apiError(w, http.StatusPaymentRequired, "AI 사용량 한도를 초과했습니다. 워크스페이스에 크레딧을 추가해주세요.")
	default:
		apiError(w, http.StatusInternalServerError, "콘텐츠 생성에 실패했습니다. 다시 시도해주세요.")
	}
}

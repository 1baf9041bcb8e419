package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// KeywordAnalysis is a persisted keyword research result. The analysis
// payload is stored as raw JSON because its shape is produced by the AI
// gateway and only rendered, never queried field-by-field.
type KeywordAnalysis struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Keyword   string          `json:"keyword"`
	Analysis  json.RawMessage `json:"analysis"`
	CreatedAt time.Time       `json:"created_at"`
}

// KeywordSuggestion is one related-keyword entry returned by the top
// keywords endpoint.
type KeywordSuggestion struct {
	Keyword      string `json:"keyword"`
	SearchVolume string `json:"search_volume"`
	Trend        string `json:"trend"`
}

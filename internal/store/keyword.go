// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"postpilot/internal/models"
)

// KeywordStore persists keyword research results.
type KeywordStore struct {
	db *sql.DB
}

// NewKeywordStore creates a new KeywordStore with the given database connection.
func NewKeywordStore(db *sql.DB) *KeywordStore {
	return &KeywordStore{db: db}
}

// Save stores one keyword analysis result for a user.
func (s *KeywordStore) Save(userID uuid.UUID, keyword string, analysis json.RawMessage) (*models.KeywordAnalysis, error) {
	a := &models.KeywordAnalysis{}
	err := s.db.QueryRow(`
		INSERT INTO keyword_analyses (user_id, keyword, analysis)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, keyword, analysis, created_at
	`, userID, keyword, analysis).Scan(
		&a.ID, &a.UserID, &a.Keyword, &a.Analysis, &a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("save keyword analysis: %w", err)
	}
	return a, nil
}

// ListByUser returns a user's recent keyword analyses, newest first.
func (s *KeywordStore) ListByUser(userID uuid.UUID, limit int) ([]models.KeywordAnalysis, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, user_id, keyword, analysis, created_at
		FROM keyword_analyses WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list keyword analyses: %w", err)
	}
	defer rows.Close()

	var analyses []models.KeywordAnalysis
	for rows.Next() {
		var a models.KeywordAnalysis
		if err := rows.Scan(&a.ID, &a.UserID, &a.Keyword, &a.Analysis, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan keyword analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"postpilot/internal/models"
)

// WordPressStore handles WordPress connection settings persistence.
type WordPressStore struct {
	db *sql.DB
}

// NewWordPressStore creates a new WordPressStore with the given database connection.
func NewWordPressStore(db *sql.DB) *WordPressStore {
	return &WordPressStore{db: db}
}

// FindByUser retrieves a user's WordPress settings. Returns nil if the
// user has not connected a site yet.
func (s *WordPressStore) FindByUser(userID uuid.UUID) (*models.WordPressSettings, error) {
	w := &models.WordPressSettings{}
	err := s.db.QueryRow(`
		SELECT id, user_id, site_url, username, application_password, created_at, updated_at
		FROM wordpress_settings WHERE user_id = $1
	`, userID).Scan(
		&w.ID, &w.UserID, &w.SiteURL, &w.Username, &w.ApplicationPassword,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find wordpress settings: %w", err)
	}
	return w, nil
}

// Upsert saves a user's WordPress settings, replacing any existing row.
// Each user has at most one connected site.
func (s *WordPressStore) Upsert(userID uuid.UUID, siteURL, username, applicationPassword string) (*models.WordPressSettings, error) {
	w := &models.WordPressSettings{}
	err := s.db.QueryRow(`
		INSERT INTO wordpress_settings (user_id, site_url, username, application_password)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET site_url = EXCLUDED.site_url,
		    username = EXCLUDED.username,
		    application_password = EXCLUDED.application_password,
		    updated_at = NOW()
		RETURNING id, user_id, site_url, username, application_password, created_at, updated_at
	`, userID, siteURL, username, applicationPassword).Scan(
		&w.ID, &w.UserID, &w.SiteURL, &w.Username, &w.ApplicationPassword,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert wordpress settings: %w", err)
	}
	return w, nil
}

// Delete removes a user's WordPress connection.
func (s *WordPressStore) Delete(userID uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM wordpress_settings WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete wordpress settings: %w", err)
	}
	return nil
}

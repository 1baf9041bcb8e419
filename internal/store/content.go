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

// ContentStore handles content history database operations.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const contentColumns = `id, user_id, keyword, title, content, thumbnail_image, publish_status, wordpress_post_id, created_at, updated_at`

func scanContent(row interface{ Scan(...any) error }) (*models.ContentRecord, error) {
	c := &models.ContentRecord{}
	err := row.Scan(
		&c.ID, &c.UserID, &c.Keyword, &c.Title, &c.Content,
		&c.ThumbnailImage, &c.PublishStatus, &c.WordPressPostID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new content record with status pending.
func (s *ContentStore) Create(userID uuid.UUID, keyword, title, content string, thumbnail *string) (*models.ContentRecord, error) {
	row := s.db.QueryRow(`
		INSERT INTO content_history (user_id, keyword, title, content, thumbnail_image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+contentColumns+`
	`, userID, keyword, title, content, thumbnail)

	c, err := scanContent(row)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return c, nil
}

// FindByID retrieves a content record scoped to its owner. Returns nil if
// not found or owned by someone else.
func (s *ContentStore) FindByID(id, userID uuid.UUID) (*models.ContentRecord, error) {
	row := s.db.QueryRow(`
		SELECT `+contentColumns+`
		FROM content_history WHERE id = $1 AND user_id = $2
	`, id, userID)

	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// ListByUser returns a user's content history, newest first.
func (s *ContentStore) ListByUser(userID uuid.UUID, limit int) ([]models.ContentRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT `+contentColumns+`
		FROM content_history WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var records []models.ContentRecord
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		records = append(records, *c)
	}
	return records, rows.Err()
}

// MarkPublished records a successful WordPress publish. The status moves
// to published exactly once; re-publishing an already published record is
// rejected by the WHERE clause.
func (s *ContentStore) MarkPublished(id, userID uuid.UUID, wordpressPostID string) error {
	res, err := s.db.Exec(`
		UPDATE content_history
		SET publish_status = 'published', wordpress_post_id = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND publish_status = 'pending'
	`, wordpressPostID, id, userID)
	if err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark published: content not found or already published")
	}
	return nil
}

// SetThumbnail attaches a stored thumbnail URL to a content record.
func (s *ContentStore) SetThumbnail(id, userID uuid.UUID, thumbnailURL string) error {
	_, err := s.db.Exec(`
		UPDATE content_history SET thumbnail_image = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, thumbnailURL, id, userID)
	if err != nil {
		return fmt.Errorf("set thumbnail: %w", err)
	}
	return nil
}

// Delete removes a content record scoped to its owner.
func (s *ContentStore) Delete(id, userID uuid.UUID) error {
	_, err := s.db.Exec(`
		DELETE FROM content_history WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

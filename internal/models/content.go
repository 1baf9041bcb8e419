// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PublishStatus tracks whether a saved draft has been pushed to WordPress.
// The status transitions pending → published exactly once and never reverts.
type PublishStatus string

const (
	PublishStatusPending   PublishStatus = "pending"
	PublishStatusPublished PublishStatus = "published"
)

// ContentRecord is a persisted row in the content history table. It is
// created when a generated draft is saved and updated once when the draft
// is published to the user's WordPress site.
type ContentRecord struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	Keyword         string        `json:"keyword"`
	Title           string        `json:"title"`
	Content         string        `json:"content"`
	ThumbnailImage  *string       `json:"thumbnail_image,omitempty"`
	PublishStatus   PublishStatus `json:"publish_status"`
	WordPressPostID *string       `json:"wordpress_post_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// IsPublished returns true if the record has been pushed to WordPress.
func (c *ContentRecord) IsPublished() bool {
	return c.PublishStatus == PublishStatusPublished
}

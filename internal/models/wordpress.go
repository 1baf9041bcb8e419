// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WordPressSettings holds a user's connection credentials for their
// WordPress site. The application password is a WordPress "Application
// Password", used with HTTP Basic auth against the REST API.
type WordPressSettings struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"user_id"`
	SiteURL             string    `json:"site_url"`
	Username            string    `json:"username"`
	ApplicationPassword string    `json:"-"` // Never serialize the password
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// PostsEndpoint returns the WordPress REST API posts endpoint for the site.
func (w *WordPressSettings) PostsEndpoint() string {
	return strings.TrimRight(w.SiteURL, "/") + "/wp-json/wp/v2/posts"
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// keyword.go caches AI keyword research in Valkey. Suggestions for a seed
// keyword change slowly, so repeat lookups within the TTL skip the gateway
// entirely.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"postpilot/internal/models"
)

const (
	// keywordKeyPrefix is the Valkey key prefix for cached suggestions.
	keywordKeyPrefix = "keywords:"

	// DefaultKeywordTTL is how long a suggestion set stays cached.
	DefaultKeywordTTL = 6 * time.Hour
)

// KeywordCache manages cached keyword suggestion sets in Valkey.
type KeywordCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewKeywordCache creates a keyword cache backed by the given Valkey client.
func NewKeywordCache(client *redis.Client, ttl time.Duration) *KeywordCache {
	if ttl == 0 {
		ttl = DefaultKeywordTTL
	}
	return &KeywordCache{client: client, ttl: ttl}
}

// Get retrieves cached suggestions for a seed keyword. Returns false on
// miss or on any Valkey problem — the cache is an optimization, never a
// failure source.
func (kc *KeywordCache) Get(ctx context.Context, keyword string) ([]models.KeywordSuggestion, bool) {
	val, err := kc.client.Get(ctx, keywordKeyPrefix+keyword).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("keyword cache get error", "keyword", keyword, "error", err)
		return nil, false
	}

	var suggestions []models.KeywordSuggestion
	if err := json.Unmarshal(val, &suggestions); err != nil {
		slog.Warn("keyword cache decode error", "keyword", keyword, "error", err)
		return nil, false
	}
	slog.Debug("keyword cache hit", "keyword", keyword)
	return suggestions, true
}

// Set stores a suggestion set for a seed keyword with the configured TTL.
func (kc *KeywordCache) Set(ctx context.Context, keyword string, suggestions []models.KeywordSuggestion) {
	payload, err := json.Marshal(suggestions)
	if err != nil {
		slog.Warn("keyword cache encode error", "keyword", keyword, "error", err)
		return
	}
	if err := kc.client.Set(ctx, keywordKeyPrefix+keyword, payload, kc.ttl).Err(); err != nil {
		slog.Warn("keyword cache set error", "keyword", keyword, "error", err)
	}
}

// Invalidate removes a cached suggestion set.
func (kc *KeywordCache) Invalidate(ctx context.Context, keyword string) {
	if err := kc.client.Del(ctx, keywordKeyPrefix+keyword).Err(); err != nil {
		slog.Warn("keyword cache invalidate error", "keyword", keyword, "error", err)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pipeline

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// ThumbnailSize is the requested thumbnail aspect, expressed as pixel
// dimensions the image model understands.
type ThumbnailSize string

const (
	SizeSquare    ThumbnailSize = "1024x1024"
	SizeLandscape ThumbnailSize = "1792x1024"
	SizePortrait  ThumbnailSize = "1024x1792"
)

// ThumbnailStyle selects the visual direction of generated thumbnails.
type ThumbnailStyle string

const (
	StyleMinimal ThumbnailStyle = "minimal"
	StyleModern  ThumbnailStyle = "modern"
	StyleVibrant ThumbnailStyle = "vibrant"
	StyleElegant ThumbnailStyle = "elegant"
	StylePlayful ThumbnailStyle = "playful"
)

var styleDescriptions = map[ThumbnailStyle]string{
	StyleMinimal: "clean minimal design, generous white space, one or two muted colors",
	StyleModern:  "modern flat design, geometric shapes, bold contemporary color palette",
	StyleVibrant: "vivid saturated colors, energetic composition, strong visual impact",
	StyleElegant: "refined and sophisticated, soft gradients, premium editorial feel",
	StylePlayful: "fun and lighthearted, rounded shapes, cheerful bright colors",
}

// maxThumbnails caps a single batch request.
const maxThumbnails = 4

// ThumbnailSet is the result of one thumbnail batch. Images are data URLs
// in request order; Prompt is the derived image prompt of the last
// iteration, kept so the user can regenerate variations.
type ThumbnailSet struct {
	Images []string       `json:"images"`
	Prompt string         `json:"prompt"`
	Size   ThumbnailSize  `json:"size"`
	Style  ThumbnailStyle `json:"style"`
}

// GenerateThumbnails produces count thumbnails for a post, sequentially.
// Each iteration first derives an image prompt from the title and content,
// then generates one image from it. The batch is all-or-nothing: any
// failure aborts and no partial set is returned.
func (p *Pipeline) GenerateThumbnails(ctx context.Context, title, content string, size ThumbnailSize, style ThumbnailStyle, count int) (*ThumbnailSet, error) {
	if _, ok := styleDescriptions[style]; !ok {
		style = StyleModern
	}
	switch size {
	case SizeSquare, SizeLandscape, SizePortrait:
	default:
		size = SizeLandscape
	}
	if count < 1 {
		count = 1
	}
	if count > maxThumbnails {
		count = maxThumbnails
	}

	set := &ThumbnailSet{Size: size, Style: style}
	excerpt := truncateRunes(content, 500)

	for i := 0; i < count; i++ {
		user := fmt.Sprintf("Title: %s\n\nExcerpt:\n%s\n\nStyle: %s\nAspect: %s",
			title, excerpt, styleDescriptions[style], size)

		prompt, err := p.backend.Chat(ctx, thumbnailPromptSystem, user)
		if err != nil {
			return nil, fmt.Errorf("derive thumbnail prompt %d/%d: %w", i+1, count, err)
		}

		image, err := p.backend.GenerateImage(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("generate thumbnail %d/%d: %w", i+1, count, err)
		}

		set.Images = append(set.Images, image)
		set.Prompt = prompt
	}
	return set, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

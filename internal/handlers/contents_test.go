// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"testing"

	"postpilot/internal/models"
)

func strPtr(s string) *string { return &s }

func TestPrependThumbnail_EscapesTitle(t *testing.T) {
	record := &models.ContentRecord{
		Title:          `"제주도" <여행> 코스`,
		ThumbnailImage: strPtr("https://cdn.example.com/thumb.jpg"),
	}

	out := prependThumbnail("<p>본문</p>", record)

	if !strings.Contains(out, `src="https://cdn.example.com/thumb.jpg"`) {
		t.Errorf("output missing thumbnail src: %q", out)
	}
	if strings.Contains(out, `alt=""제주도"`) {
		t.Errorf("raw quote leaked into alt attribute: %q", out)
	}
	if !strings.Contains(out, "&#34;제주도&#34; &lt;여행&gt; 코스") {
		t.Errorf("title not escaped inside alt: %q", out)
	}
	if !strings.HasSuffix(out, "<p>본문</p>") {
		t.Errorf("body not preserved after thumbnail: %q", out)
	}
}

func TestPrependThumbnail_SkipsInlineDataURLs(t *testing.T) {
	record := &models.ContentRecord{
		Title:          "제목",
		ThumbnailImage: strPtr("data:image/png;base64,aGVsbG8="),
	}
	if out := prependThumbnail("<p>본문</p>", record); out != "<p>본문</p>" {
		t.Errorf("data URL thumbnail must not be embedded, got %q", out)
	}

	record.ThumbnailImage = nil
	if out := prependThumbnail("<p>본문</p>", record); out != "<p>본문</p>" {
		t.Errorf("nil thumbnail must leave body unchanged, got %q", out)
	}
}

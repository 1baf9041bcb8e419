// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// Length selects the target word count band of a generated draft.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Tone selects the writing voice of a generated draft.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	TonePersuasive   Tone = "persuasive"
)

var lengthGuides = map[Length]string{
	LengthShort:  "500~800자 분량의 간결한 글",
	LengthMedium: "1000~1500자 분량의 표준 글",
	LengthLong:   "2000~3000자 분량의 심층 글",
}

var toneGuides = map[Tone]string{
	ToneProfessional: "전문적이고 신뢰감 있는 어조",
	ToneFriendly:     "친근하고 대화하듯 편안한 어조",
	TonePersuasive:   "설득력 있고 행동을 유도하는 어조",
}

// ErrEmptyDraft is returned when the model responds with no usable body.
var ErrEmptyDraft = errors.New("model returned an empty draft")

// Generate produces a full markdown draft for a refined title. Unknown
// length and tone values fall back to medium and professional.
func (p *Pipeline) Generate(ctx context.Context, title, keyword string, length Length, tone Tone) (string, error) {
	lengthGuide, ok := lengthGuides[length]
	if !ok {
		lengthGuide = lengthGuides[LengthMedium]
	}
	toneGuide, ok := toneGuides[tone]
	if !ok {
		toneGuide = toneGuides[ToneProfessional]
	}

	user := fmt.Sprintf("제목: %s\n핵심 키워드: %s\n분량: %s\n어조: %s",
		title, keyword, lengthGuide, toneGuide)

	content, err := p.backend.Chat(ctx, generateSystemPrompt, user)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if content == "" {
		return "", ErrEmptyDraft
	}
	return content, nil
}

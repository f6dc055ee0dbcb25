package dto

import "time"

type PriceRangeDTO struct {
	Min *float64 `json:"min,omitempty" validate:"omitempty,gte=0"`
	Max *float64 `json:"max,omitempty" validate:"omitempty,gte=0"`
}

// QuizDTO 香调问卷答案. 指针字段为 nil 表示"未作答, 保持原值"
type QuizDTO struct {
	NoteWeights   map[uint64]int64 `json:"note_weights" validate:"max=100"`
	AvoidNoteIDs  []uint64         `json:"avoid_note_ids" validate:"max=100"`
	PriceRange    *PriceRangeDTO   `json:"price_range,omitempty"`
	Seasons       *[]string        `json:"seasons,omitempty" validate:"omitempty,max=8,dive,max=20"`
	BrowsingStyle *string          `json:"browsing_style,omitempty" validate:"omitempty,max=50"`
}

type ScentProfileDTO struct {
	UserID        uint64           `json:"user_id"`
	NoteWeights   map[uint64]int64 `json:"note_weights"`
	AvoidNoteIDs  []uint64         `json:"avoid_note_ids"`
	PriceRange    *PriceRangeDTO   `json:"price_range,omitempty"`
	SeasonHint    *string          `json:"season_hint,omitempty"`
	BrowsingStyle *string          `json:"browsing_style,omitempty"`
	LastQuizAt    *time.Time       `json:"last_quiz_at,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

package dto

import "time"

type FeedbackDTO struct {
	TraderID uint64  `json:"trader_id" validate:"required"`
	Rating   int8    `json:"rating" validate:"required,min=1,max=5"`
	Comment  *string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

type TraderFeedbackDTO struct {
	RaterID     uint64    `json:"rater_id"`
	DisplayName string    `json:"display_name"`
	Rating      int8      `json:"rating"`
	Comment     *string   `json:"comment,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TraderScoreDTO struct {
	TraderID uint64  `json:"trader_id"`
	Average  float64 `json:"average"`
	Count    int64   `json:"count"`
}

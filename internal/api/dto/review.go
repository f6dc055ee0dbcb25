package dto

import "time"

type CreateReviewDTO struct {
	Content string `json:"content" validate:"required,min=10,max=5000"`
}

type ModerateReviewDTO struct {
	Approve bool `json:"approve"`
}

type ReviewDTO struct {
	ID          uint64    `json:"id"`
	PerfumeID   uint64    `json:"perfume_id"`
	UserID      uint64    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Content     string    `json:"content"`
	Status      int8      `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

package dto

import "time"

type CreateSubmissionDTO struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	HouseName   string  `json:"house_name" validate:"required,min=1,max=120"`
	Description *string `json:"description,omitempty"`
	Notes       string  `json:"notes" validate:"max=500"` // 逗号分隔的香调名
}

type ReviewSubmissionDTO struct {
	Approve bool `json:"approve"`
}

type SubmissionDTO struct {
	ID          uint64     `json:"id"`
	UserID      uint64     `json:"user_id"`
	Name        string     `json:"name"`
	HouseName   string     `json:"house_name"`
	Description *string    `json:"description,omitempty"`
	Notes       string     `json:"notes"`
	Status      int8       `json:"status"`
	ReviewedBy  *uint64    `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

package model

import "time"

const (
	SubmissionStatusPending  = 0
	SubmissionStatusApproved = 1
	SubmissionStatusRejected = 2
)

// PendingSubmission 用户提报的待收录香水, 审核通过后进入正式目录
type PendingSubmission struct {
	ID          uint64  `gorm:"primaryKey" json:"id"`
	UserID      uint64  `gorm:"not null;index" json:"userId"`
	Name        string  `gorm:"type:varchar(120);not null" json:"name"`
	HouseName   string  `gorm:"type:varchar(120);not null" json:"houseName"`
	Description *string `gorm:"type:text" json:"description"`
	Notes       string  `gorm:"type:varchar(500)" json:"notes"` // 逗号分隔的香调名
	Status      int8    `gorm:"not null;default:0;index" json:"status"` // 0-待审, 1-通过, 2-拒绝
	ReviewedBy  *uint64 `json:"reviewedBy"`
	ReviewedAt  *time.Time `json:"reviewedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (PendingSubmission) TableName() string {
	return "pending_submissions"
}

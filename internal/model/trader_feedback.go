package model

import "time"

type TraderFeedback struct {
	ID       uint64  `gorm:"primaryKey" json:"id"`
	RaterID  uint64  `gorm:"not null;uniqueIndex:idx_rater_trader" json:"raterId"`
	TraderID uint64  `gorm:"not null;uniqueIndex:idx_rater_trader;index:idx_trader" json:"traderId"`
	Rating   int8    `gorm:"not null" json:"rating"` // 1-5
	Comment  *string `gorm:"type:varchar(500)" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (TraderFeedback) TableName() string {
	return "trader_feedbacks"
}

package model

import "time"

type Review struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	UserID    uint64 `gorm:"not null;index" json:"userId"`
	PerfumeID uint64 `gorm:"not null;index:idx_review_perfume" json:"perfumeId"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Status    int8   `gorm:"not null;default:0;index" json:"status"` // 0-待审, 1-通过, 2-拒绝
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

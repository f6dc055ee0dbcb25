package model

import (
	"time"
)

// Rating 五维评分, 每人每瓶一条
type Rating struct {
	UserID     uint64 `gorm:"primaryKey" json:"userId"`
	PerfumeID  uint64 `gorm:"primaryKey;index:idx_rating_perfume" json:"perfumeId"`
	Overall    int8   `gorm:"not null" json:"overall"` // 1-5
	Longevity  *int8  `json:"longevity"`
	Sillage    *int8  `json:"sillage"`
	Gender     *int8  `json:"gender"`
	PriceValue *int8  `json:"priceValue"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Rating) TableName() string {
	return "ratings"
}

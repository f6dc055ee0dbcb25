package model

import (
	"time"
)

type WishlistItem struct {
	UserID     uint64     `gorm:"primaryKey" json:"userId"`
	PerfumeID  uint64     `gorm:"primaryKey;index:idx_wishlist_perfume" json:"perfumeId"`
	IsPublic   bool       `gorm:"type:tinyint(1);default:1" json:"isPublic"`
	NotifiedAt *time.Time `gorm:"index" json:"notifiedAt"` // 空表示该条目还没发过到货通知
	CreatedAt  time.Time  `json:"createdAt"`

	Perfume Perfume `gorm:"foreignKey:PerfumeID;references:ID" json:"-"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}

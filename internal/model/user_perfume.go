package model

import "time"

const (
	TradePreferenceCash   = "cash"
	TradePreferenceDecant = "decant"
	TradePreferenceBoth   = "both"
)

// UserPerfume 用户持有的香水, 同时充当藏品与交换柜台的条目
type UserPerfume struct {
	ID              uint64   `gorm:"primaryKey" json:"id"`
	UserID          uint64   `gorm:"not null;uniqueIndex:idx_user_perfume" json:"userId"`
	PerfumeID       uint64   `gorm:"not null;uniqueIndex:idx_user_perfume;index:idx_inventory_perfume" json:"perfumeId"`
	Amount          float64  `gorm:"not null;default:0" json:"amount"`                  // 持有量(ml)
	Available       float64  `gorm:"not null;default:0;index" json:"available"`         // 可分装/交换量(ml)
	Price           *float64 `json:"price"`                                            // 每ml要价, 空表示仅换不卖
	TradePreference string   `gorm:"type:varchar(16);not null;default:'both'" json:"tradePreference"` // cash/decant/both
	TradeOnly       bool     `gorm:"type:tinyint(1);default:0" json:"tradeOnly"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	User    User    `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Perfume Perfume `gorm:"foreignKey:PerfumeID;references:ID" json:"-"`
}

func (UserPerfume) TableName() string {
	return "user_perfumes"
}

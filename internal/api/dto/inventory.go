package dto

import "time"

type UpsertListingDTO struct {
	PerfumeID       uint64   `json:"perfume_id" validate:"required"`
	Amount          float64  `json:"amount" validate:"required,gt=0"`   // 持有量 (ml)
	Available       float64  `json:"available" validate:"gte=0"`        // 可出量 (ml)
	Price           *float64 `json:"price,omitempty" validate:"omitempty,gte=0"` // 每 ml 报价
	TradePreference string   `json:"trade_preference" validate:"required,oneof=cash decant both"`
	TradeOnly       bool     `json:"trade_only"`
}

type ListingDTO struct {
	PerfumeID       uint64      `json:"perfume_id"`
	Perfume         *PerfumeDTO `json:"perfume,omitempty"`
	Amount          float64     `json:"amount"`
	Available       float64     `json:"available"`
	Price           *float64    `json:"price,omitempty"`
	TradePreference string      `json:"trade_preference"`
	TradeOnly       bool        `json:"trade_only"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// SellerDTO 某支香水的一个货源
type SellerDTO struct {
	UserID      uint64   `json:"user_id"`
	DisplayName string   `json:"display_name"`
	Available   float64  `json:"available"`
	Price       *float64 `json:"price,omitempty"`
	TradeOnly   bool     `json:"trade_only"`
}

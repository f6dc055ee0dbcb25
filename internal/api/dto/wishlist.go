package dto

import "time"

type AddWishlistDTO struct {
	PerfumeID uint64 `json:"perfume_id" validate:"required"`
	IsPublic  bool   `json:"is_public"`
}

type WishlistVisibilityDTO struct {
	IsPublic bool `json:"is_public"`
}

type WishlistItemDTO struct {
	PerfumeID  uint64      `json:"perfume_id"`
	Perfume    *PerfumeDTO `json:"perfume,omitempty"`
	IsPublic   bool        `json:"is_public"`
	NotifiedAt *time.Time  `json:"notified_at,omitempty"`
	Sellers    []SellerDTO `json:"sellers,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

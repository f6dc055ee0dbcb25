package dto

import (
	"Sillage/internal/model"
	"time"
)

type AlertDTO struct {
	ID        uint64              `json:"id"`
	PerfumeID uint64              `json:"perfume_id"`
	Kind      string              `json:"kind"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	Metadata  model.AlertMetadata `json:"metadata"`
	IsRead    bool                `json:"is_read"`
	ReadAt    *time.Time          `json:"read_at,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

type AlertListDTO struct {
	Alerts      []*AlertDTO `json:"alerts"`
	UnreadCount int64       `json:"unread_count"`
}

type AlertPreferencesDTO struct {
	WishlistAlertsEnabled *bool `json:"wishlist_alerts_enabled,omitempty"`
	DecantAlertsEnabled   *bool `json:"decant_alerts_enabled,omitempty"`
	EmailWishlistAlerts   *bool `json:"email_wishlist_alerts,omitempty"`
	EmailDecantAlerts     *bool `json:"email_decant_alerts,omitempty"`
	MaxAlerts             *int  `json:"max_alerts,omitempty" validate:"omitempty,min=1,max=100"`
}

package model

import (
	"database/sql/driver"
	"time"

	"github.com/goccy/go-json"
)

const (
	AlertKindWishlistAvailable = "wishlist_available"
	AlertKindDecantInterest    = "decant_interest"
)

type UserAlert struct {
	ID          uint64        `gorm:"primaryKey" json:"id"`
	UserID      uint64        `gorm:"not null;index:idx_alert_user" json:"userId"`
	PerfumeID   uint64        `gorm:"not null;index" json:"perfumeId"`
	Kind        string        `gorm:"type:varchar(32);not null" json:"kind"` // wishlist_available/decant_interest
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Message     string        `gorm:"type:varchar(500);not null" json:"message"`
	Metadata    AlertMetadata `gorm:"type:json" json:"metadata"`
	IsRead      bool          `gorm:"type:tinyint(1);default:0" json:"isRead"`
	ReadAt      *time.Time    `json:"readAt"`
	IsDismissed bool          `gorm:"type:tinyint(1);default:0;index:idx_alert_user" json:"isDismissed"`
	DismissedAt *time.Time    `json:"dismissedAt"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func (UserAlert) TableName() string {
	return "user_alerts"
}

type SellerInfo struct {
	UserID      uint64  `json:"userId"`
	DisplayName string  `json:"displayName"`
	Price       *float64 `json:"price,omitempty"`
	Available   float64 `json:"available,omitempty"`
}

type AlertMetadata struct {
	Sellers            []SellerInfo `json:"sellers,omitempty"`
	InterestedUserID   uint64       `json:"interestedUserId,omitempty"`
	InterestedUserName string       `json:"interestedUserName,omitempty"`
}

func (m AlertMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *AlertMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = AlertMetadata{}
		return nil
	}
	return scanJSONColumn(value, m)
}

package model

import "time"

const DefaultMaxAlerts = 10

type AlertPreferences struct {
	UserID                uint64 `gorm:"primaryKey" json:"userId"`
	WishlistAlertsEnabled bool   `gorm:"type:tinyint(1);not null" json:"wishlistAlertsEnabled"`
	DecantAlertsEnabled   bool   `gorm:"type:tinyint(1);not null" json:"decantAlertsEnabled"`
	EmailWishlistAlerts   bool   `gorm:"type:tinyint(1);not null" json:"emailWishlistAlerts"`
	EmailDecantAlerts     bool   `gorm:"type:tinyint(1);not null" json:"emailDecantAlerts"`
	MaxAlerts             int    `gorm:"not null" json:"maxAlerts"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

func (AlertPreferences) TableName() string {
	return "alert_preferences"
}

// DefaultAlertPreferences 首次访问时懒创建的默认档
func DefaultAlertPreferences(userID uint64) *AlertPreferences {
	return &AlertPreferences{
		UserID:                userID,
		WishlistAlertsEnabled: true,
		DecantAlertsEnabled:   true,
		EmailWishlistAlerts:   false,
		EmailDecantAlerts:     false,
		MaxAlerts:             DefaultMaxAlerts,
	}
}

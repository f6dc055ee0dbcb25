package model

import (
	"strings"
	"time"
)

type User struct {
	ID        uint64  `gorm:"primaryKey"`
	Username  *string `gorm:"type:varchar(50);uniqueIndex:idx_username"`
	Email     *string `gorm:"type:varchar(120);uniqueIndex:idx_email"`
	FirstName *string `gorm:"type:varchar(50)"`
	LastName  *string `gorm:"type:varchar(50)"`
	Password  *string `gorm:"type:varchar(255)"`
	IsBan     bool    `gorm:"type:tinyint(1);default:0"`
	IsDelete  bool    `gorm:"type:tinyint(1);default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	UserRoles []UserRole `gorm:"foreignKey:UserID;references:ID"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName 对外展示身份的兜底链: username -> 姓名 -> email
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	if u.FirstName != nil && *u.FirstName != "" && u.LastName != nil && *u.LastName != "" {
		return strings.TrimSpace(*u.FirstName + " " + *u.LastName)
	}
	if u.Email != nil && *u.Email != "" {
		return *u.Email
	}
	return "Unknown Trader"
}

package model

import "time"

type Note struct {
	ID          uint64  `gorm:"primaryKey"`
	Name        string  `gorm:"type:varchar(50);not null;uniqueIndex:idx_note_name"`
	Description *string `gorm:"type:varchar(255)"` // 默认可为空
	CreatedAt   time.Time
}

func (Note) TableName() string {
	return "notes"
}

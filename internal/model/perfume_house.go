package model

import "time"

type PerfumeHouse struct {
	ID          uint64  `gorm:"primaryKey"`
	Name        string  `gorm:"type:varchar(120);not null;uniqueIndex:idx_house_name"`
	Slug        string  `gorm:"type:varchar(140);not null;uniqueIndex:idx_house_slug"`
	Description *string `gorm:"type:text"`
	Country     *string `gorm:"type:varchar(80)"`
	FoundedYear *int
	Website     *string `gorm:"type:varchar(255)"`
	ImageURL    *string `gorm:"type:varchar(255)"`
	HouseType   string  `gorm:"type:varchar(20);not null;default:'niche'"` // niche/designer/indie/celebrity
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PerfumeHouse) TableName() string {
	return "perfume_houses"
}

package model

import "time"

type Perfume struct {
	ID          uint64  `gorm:"primaryKey"`
	Name        string  `gorm:"type:varchar(120);not null;uniqueIndex:idx_house_perfume"`
	Slug        string  `gorm:"type:varchar(140);not null;uniqueIndex:idx_perfume_slug"`
	Description *string `gorm:"type:text"`
	ImageURL    *string `gorm:"type:varchar(255)"`
	HouseID     *uint64 `gorm:"uniqueIndex:idx_house_perfume;index:idx_perfume_house"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	House *PerfumeHouse `gorm:"foreignKey:HouseID;references:ID"`
}

func (Perfume) TableName() string {
	return "perfumes"
}

package es

import "time"

// PerfumeES 对应 perfume_index 的文档结构
type PerfumeES struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	HouseID     uint64    `json:"house_id,omitempty"`
	HouseName   string    `json:"house_name,omitempty"`
	HouseType   string    `json:"house_type,omitempty"`
	Notes       []string  `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 命中文档的 sort 值, 用于 search_after 游标
	Sort []interface{} `json:"-"`
}

package dto

import "time"

type CreateHouseDTO struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	Description *string `json:"description,omitempty"`
	Country     *string `json:"country,omitempty" validate:"omitempty,max=80"`
	FoundedYear *int    `json:"founded_year,omitempty" validate:"omitempty,min=1500,max=2100"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url"`
	HouseType   string  `json:"house_type" validate:"required,oneof=niche designer indie celebrity"`
}

type HouseDTO struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	Country     *string `json:"country,omitempty"`
	FoundedYear *int    `json:"founded_year,omitempty"`
	Website     *string `json:"website,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	HouseType   string  `json:"house_type"`
}

type CreatePerfumeDTO struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	Description *string `json:"description,omitempty"`
	HouseID     *uint64 `json:"house_id,omitempty"`
}

type UpdatePerfumeDTO struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description,omitempty"`
	HouseID     *uint64 `json:"house_id,omitempty"`
}

// SetNotesDTO 三层香调, 每层为香调名列表
type SetNotesDTO struct {
	Top    []string `json:"top" validate:"max=20,dive,min=1,max=80"`
	Middle []string `json:"middle" validate:"max=20,dive,min=1,max=80"`
	Base   []string `json:"base" validate:"max=20,dive,min=1,max=80"`
}

type NoteDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Layer string `json:"layer,omitempty"`
}

type PerfumeDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	House       *HouseDTO `json:"house,omitempty"`
	Notes       []NoteDTO `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type SearchPerfumeDTO struct {
	Keyword  string   `form:"keyword" json:"keyword"`
	Notes    []string `form:"notes" json:"notes"`
	Page     int      `form:"page" json:"page" validate:"omitempty,min=1"`
	PageSize int      `form:"page_size" json:"page_size" validate:"omitempty,min=1,max=50"`
}

package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

type ScentProfile struct {
	UserID             uint64        `gorm:"primaryKey" json:"user_id"`
	NoteWeights        NoteWeightMap `gorm:"type:json;not null" json:"note_weights"` // 存储 NoteID:权重 快照
	AvoidNoteIDs       NoteIDList    `gorm:"type:json;not null" json:"avoid_note_ids"`
	PreferredPriceRange PriceRange   `gorm:"column:preferred_price_range;type:json" json:"preferred_price_range"`
	SeasonHint         *string       `gorm:"type:varchar(120)" json:"season_hint"`
	BrowsingStyle      *string       `gorm:"type:varchar(50)" json:"browsing_style"`
	LastQuizAt         *time.Time    `json:"last_quiz_at"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

func (ScentProfile) TableName() string {
	return "scent_profiles"
}

// NoteWeightMap 存储香调得分: map[note_id]weight
type NoteWeightMap map[uint64]int64

func (m NoteWeightMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *NoteWeightMap) Scan(value interface{}) error {
	return scanJSONColumn(value, m)
}

type NoteIDList []uint64

func (l NoteIDList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *NoteIDList) Scan(value interface{}) error {
	return scanJSONColumn(value, l)
}

func (l NoteIDList) Contains(id uint64) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// PriceRange 两端均为空时按未设置处理, 列里存 NULL
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (p PriceRange) IsZero() bool {
	return p.Min == nil && p.Max == nil
}

func (p PriceRange) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *PriceRange) Scan(value interface{}) error {
	if value == nil {
		*p = PriceRange{}
		return nil
	}
	return scanJSONColumn(value, p)
}

// mysql 返回 []byte, sqlite 返回 string
func scanJSONColumn(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSON value:", value))
	}
}

package model

const (
	NoteLayerTop    = 1
	NoteLayerMiddle = 2
	NoteLayerBase   = 3
)

type PerfumeNote struct {
	PerfumeID uint64 `gorm:"primaryKey" json:"perfumeId"`
	NoteID    uint64 `gorm:"primaryKey;index:idx_note_id" json:"noteId"`
	Layer     int8   `gorm:"not null;default:2" json:"layer"` // 1-前调, 2-中调, 3-后调
}

func (PerfumeNote) TableName() string {
	return "perfume_notes"
}

package repository

import (
	"Sillage/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteRepo interface {
	GetOrCreateNote(ctx context.Context, noteName string, description string) (*model.Note, error)
	GetOrCreateNotes(ctx context.Context, noteNames []string) ([]*model.Note, error)
	GetNotesByIds(ctx context.Context, ids []uint64) ([]*model.Note, error)
	GetNotesByPerfume(ctx context.Context, perfumeID uint64) ([]*model.Note, error)
	GetNoteIDsByPerfume(ctx context.Context, perfumeID uint64) ([]uint64, error)
	ReplacePerfumeNotes(ctx context.Context, perfumeID uint64, relations []*model.PerfumeNote) error
}

type noteRepoImpl struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepo {
	return &noteRepoImpl{
		db: db,
	}
}

func (s *noteRepoImpl) GetOrCreateNote(ctx context.Context, noteName string, description string) (*model.Note, error) {
	note := model.Note{
		Name:        noteName,
		Description: &description,
		CreatedAt:   time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&note).Error
	if err != nil {
		return nil, err
	}
	// 如果记录已存在，查询获取完整数据
	var existingNote model.Note
	err = s.db.WithContext(ctx).Where("name = ?", noteName).First(&existingNote).Error
	if err != nil {
		return nil, err
	}
	return &existingNote, nil
}

func (s *noteRepoImpl) GetOrCreateNotes(ctx context.Context, noteNames []string) ([]*model.Note, error) {
	// 创建所有香调，使用 OnConflict DoNothing 避免重复创建
	for _, noteName := range noteNames {
		note := model.Note{
			Name:      noteName,
			CreatedAt: time.Now(),
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&note).Error
		if err != nil {
			return nil, err
		}
	}

	// 查询所有请求的香调
	var notes []*model.Note
	err := s.db.WithContext(ctx).Where("name IN ?", noteNames).Find(&notes).Error
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (s *noteRepoImpl) GetNotesByIds(ctx context.Context, ids []uint64) ([]*model.Note, error) {
	notes := make([]*model.Note, 0)
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *noteRepoImpl) GetNotesByPerfume(ctx context.Context, perfumeID uint64) ([]*model.Note, error) {
	notes := make([]*model.Note, 0)
	err := s.db.WithContext(ctx).
		Model(&model.Note{}).
		Joins("JOIN perfume_notes ON perfume_notes.note_id = notes.id").
		Where("perfume_notes.perfume_id = ?", perfumeID).
		Order("perfume_notes.layer asc, notes.name asc").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *noteRepoImpl) GetNoteIDsByPerfume(ctx context.Context, perfumeID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := s.db.WithContext(ctx).
		Model(&model.PerfumeNote{}).
		Where("perfume_id = ?", perfumeID).
		Pluck("note_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ReplacePerfumeNotes 全量替换一支香水的香调关系
func (s *noteRepoImpl) ReplacePerfumeNotes(ctx context.Context, perfumeID uint64, relations []*model.PerfumeNote) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("perfume_id = ?", perfumeID).Delete(&model.PerfumeNote{}); result.Error != nil {
			return result.Error
		}
		if len(relations) == 0 {
			return nil
		}
		for _, rel := range relations {
			rel.PerfumeID = perfumeID
		}
		return tx.Create(&relations).Error
	})
}

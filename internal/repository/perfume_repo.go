package repository

import (
	"Sillage/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type PerfumeRepo interface {
	GetPerfumeById(ctx context.Context, id uint64) (*model.Perfume, error)
	GetPerfumeBySlug(ctx context.Context, slug string) (*model.Perfume, error)
	GetPerfumesByIds(ctx context.Context, ids []uint64) ([]*model.Perfume, error)
	ListPerfumes(ctx context.Context, houseID uint64, offset, limit int) ([]*model.Perfume, error)
	CreatePerfume(ctx context.Context, perfume *model.Perfume) error
	UpdatePerfume(ctx context.Context, perfume *model.Perfume) error
	TouchPerfume(ctx context.Context, id uint64) error
	DeletePerfume(ctx context.Context, id uint64) error
}

type perfumeRepoImpl struct {
	db *gorm.DB
}

func NewPerfumeRepo(db *gorm.DB) PerfumeRepo {
	return &perfumeRepoImpl{db: db}
}

func (s *perfumeRepoImpl) GetPerfumeById(ctx context.Context, id uint64) (*model.Perfume, error) {
	perfume := &model.Perfume{}
	result := s.db.WithContext(ctx).Preload("House").First(perfume, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return perfume, nil
}

func (s *perfumeRepoImpl) GetPerfumeBySlug(ctx context.Context, slug string) (*model.Perfume, error) {
	perfume := &model.Perfume{}
	result := s.db.WithContext(ctx).Preload("House").Where("slug = ?", slug).First(perfume)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return perfume, nil
}

func (s *perfumeRepoImpl) GetPerfumesByIds(ctx context.Context, ids []uint64) ([]*model.Perfume, error) {
	perfumes := make([]*model.Perfume, 0)
	result := s.db.WithContext(ctx).Preload("House").Where("id IN ?", ids).Find(&perfumes)
	if result.Error != nil {
		return nil, result.Error
	}
	return perfumes, nil
}

func (s *perfumeRepoImpl) ListPerfumes(ctx context.Context, houseID uint64, offset, limit int) ([]*model.Perfume, error) {
	perfumes := make([]*model.Perfume, 0)
	query := s.db.WithContext(ctx).Model(&model.Perfume{}).Preload("House")
	if houseID != 0 {
		query = query.Where("house_id = ?", houseID)
	}
	result := query.Order("name asc").Offset(offset).Limit(limit).Find(&perfumes)
	if result.Error != nil {
		return nil, result.Error
	}
	return perfumes, nil
}

func (s *perfumeRepoImpl) CreatePerfume(ctx context.Context, perfume *model.Perfume) error {
	return s.db.WithContext(ctx).Create(perfume).Error
}

func (s *perfumeRepoImpl) UpdatePerfume(ctx context.Context, perfume *model.Perfume) error {
	return s.db.WithContext(ctx).Model(&model.Perfume{}).Where("id = ?", perfume.ID).Updates(perfume).Error
}

// TouchPerfume 更新 updated_at, 借 canal 触发一次索引重建
func (s *perfumeRepoImpl) TouchPerfume(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.Perfume{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

func (s *perfumeRepoImpl) DeletePerfume(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("perfume_id = ?", id).Delete(&model.PerfumeNote{}); result.Error != nil {
			return result.Error
		}
		return tx.Delete(&model.Perfume{}, id).Error
	})
}

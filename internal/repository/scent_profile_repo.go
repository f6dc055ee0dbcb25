package repository

import (
	"Sillage/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ScentProfileRepo interface {
	GetProfile(ctx context.Context, userID uint64) (*model.ScentProfile, error)
	CreateProfile(ctx context.Context, profile *model.ScentProfile) error
	SaveProfile(ctx context.Context, profile *model.ScentProfile) error
}

type scentProfileRepoImpl struct {
	db *gorm.DB
}

func NewScentProfileRepository(db *gorm.DB) ScentProfileRepo {
	return &scentProfileRepoImpl{db: db}
}

// GetProfile 根据用户 ID 获取其香调画像快照
func (r *scentProfileRepoImpl) GetProfile(ctx context.Context, userID uint64) (*model.ScentProfile, error) {
	var profile model.ScentProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

// CreateProfile 创建空画像, 唯一键冲突交由调用方识别
func (r *scentProfileRepoImpl) CreateProfile(ctx context.Context, profile *model.ScentProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// SaveProfile 整行覆写画像快照
func (r *scentProfileRepoImpl) SaveProfile(ctx context.Context, profile *model.ScentProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

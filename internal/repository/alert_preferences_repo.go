package repository

import (
	"Sillage/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlertPreferencesRepo interface {
	GetByUserId(ctx context.Context, userID uint64) (*model.AlertPreferences, error)
	CreatePreferences(ctx context.Context, prefs *model.AlertPreferences) error
	SavePreferences(ctx context.Context, prefs *model.AlertPreferences) error
}

type alertPreferencesRepoImpl struct {
	db *gorm.DB
}

func NewAlertPreferencesRepository(db *gorm.DB) AlertPreferencesRepo {
	return &alertPreferencesRepoImpl{db: db}
}

func (r *alertPreferencesRepoImpl) GetByUserId(ctx context.Context, userID uint64) (*model.AlertPreferences, error) {
	var prefs model.AlertPreferences
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prefs, nil
}

// CreatePreferences 懒创建默认档, 并发重复创建时保留已有行
func (r *alertPreferencesRepoImpl) CreatePreferences(ctx context.Context, prefs *model.AlertPreferences) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(prefs).Error
}

func (r *alertPreferencesRepoImpl) SavePreferences(ctx context.Context, prefs *model.AlertPreferences) error {
	return r.db.WithContext(ctx).Save(prefs).Error
}

package repository

import (
	"Sillage/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepo interface {
	UpsertUserPerfume(ctx context.Context, item *model.UserPerfume) error
	GetByUserAndPerfume(ctx context.Context, userID, perfumeID uint64) (*model.UserPerfume, error)
	GetUserInventory(ctx context.Context, userID uint64) ([]*model.UserPerfume, error)
	GetAvailableByPerfume(ctx context.Context, perfumeID uint64) ([]*model.UserPerfume, error)
	DeleteUserPerfume(ctx context.Context, userID, perfumeID uint64) (int64, error)
}

type inventoryRepoImpl struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepo {
	return &inventoryRepoImpl{db: db}
}

// UpsertUserPerfume 保存持有条目, 同一 (user, perfume) 只有一条
func (r *inventoryRepoImpl) UpsertUserPerfume(ctx context.Context, item *model.UserPerfume) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "perfume_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "available", "price", "trade_preference", "trade_only", "updated_at"}),
	}).Create(item).Error
}

func (r *inventoryRepoImpl) GetByUserAndPerfume(ctx context.Context, userID, perfumeID uint64) (*model.UserPerfume, error) {
	var item model.UserPerfume
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND perfume_id = ?", userID, perfumeID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepoImpl) GetUserInventory(ctx context.Context, userID uint64) ([]*model.UserPerfume, error) {
	items := make([]*model.UserPerfume, 0)
	err := r.db.WithContext(ctx).
		Preload("Perfume").
		Preload("Perfume.House").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetAvailableByPerfume 某支香水当前所有可分装/可交换的货源
func (r *inventoryRepoImpl) GetAvailableByPerfume(ctx context.Context, perfumeID uint64) ([]*model.UserPerfume, error) {
	items := make([]*model.UserPerfume, 0)
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("perfume_id = ? AND available > 0", perfumeID).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepoImpl) DeleteUserPerfume(ctx context.Context, userID, perfumeID uint64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND perfume_id = ?", userID, perfumeID).
		Delete(&model.UserPerfume{})
	return result.RowsAffected, result.Error
}

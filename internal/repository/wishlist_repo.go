package repository

import (
	"Sillage/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type WishlistRepo interface {
	CreateItem(ctx context.Context, item *model.WishlistItem) error
	DeleteItem(ctx context.Context, userID, perfumeID uint64) (int64, error)
	GetByUserAndPerfume(ctx context.Context, userID, perfumeID uint64) (*model.WishlistItem, error)
	GetUserWishlist(ctx context.Context, userID uint64) ([]*model.WishlistItem, error)
	GetUnnotifiedByPerfume(ctx context.Context, perfumeID uint64) ([]*model.WishlistItem, error)
	GetPendingNotifications(ctx context.Context) ([]*model.WishlistItem, error)
	MarkNotified(ctx context.Context, userID, perfumeID uint64, notifiedAt time.Time) (int64, error)
	UpdateVisibility(ctx context.Context, userID, perfumeID uint64, isPublic bool) (int64, error)
}

type wishlistRepoImpl struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepo {
	return &wishlistRepoImpl{db: db}
}

func (r *wishlistRepoImpl) CreateItem(ctx context.Context, item *model.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *wishlistRepoImpl) DeleteItem(ctx context.Context, userID, perfumeID uint64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND perfume_id = ?", userID, perfumeID).
		Delete(&model.WishlistItem{})
	return result.RowsAffected, result.Error
}

func (r *wishlistRepoImpl) GetByUserAndPerfume(ctx context.Context, userID, perfumeID uint64) (*model.WishlistItem, error) {
	var item model.WishlistItem
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

func (r *wishlistRepoImpl) GetUserWishlist(ctx context.Context, userID uint64) ([]*model.WishlistItem, error) {
	items := make([]*model.WishlistItem, 0)
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

// GetUnnotifiedByPerfume 还没收到过到货通知的心愿单条目
func (r *wishlistRepoImpl) GetUnnotifiedByPerfume(ctx context.Context, perfumeID uint64) ([]*model.WishlistItem, error) {
	items := make([]*model.WishlistItem, 0)
	err := r.db.WithContext(ctx).
		Where("perfume_id = ? AND notified_at IS NULL", perfumeID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetPendingNotifications 一次查出所有 (未通知心愿单 × 有货) 的组合
func (r *wishlistRepoImpl) GetPendingNotifications(ctx context.Context) ([]*model.WishlistItem, error) {
	items := make([]*model.WishlistItem, 0)
	subQuery := r.db.Model(&model.UserPerfume{}).
		Select("perfume_id").
		Where("available > 0")

	err := r.db.WithContext(ctx).
		Preload("Perfume").
		Where("notified_at IS NULL").
		Where("perfume_id IN (?)", subQuery).
		Order("user_id asc, perfume_id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// MarkNotified 只更新仍未通知的行, 返回影响行数供幂等判断
func (r *wishlistRepoImpl) MarkNotified(ctx context.Context, userID, perfumeID uint64, notifiedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.WishlistItem{}).
		Where("user_id = ? AND perfume_id = ? AND notified_at IS NULL", userID, perfumeID).
		Update("notified_at", notifiedAt)
	return result.RowsAffected, result.Error
}

func (r *wishlistRepoImpl) UpdateVisibility(ctx context.Context, userID, perfumeID uint64, isPublic bool) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.WishlistItem{}).
		Where("user_id = ? AND perfume_id = ?", userID, perfumeID).
		Update("is_public", isPublic)
	return result.RowsAffected, result.Error
}

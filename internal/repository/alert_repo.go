package repository

import (
	"Sillage/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type AlertRepo interface {
	CreateAlert(ctx context.Context, alert *model.UserAlert) error
	GetAlertById(ctx context.Context, id uint64) (*model.UserAlert, error)
	GetActiveAlerts(ctx context.Context, userID uint64, offset, limit int) ([]*model.UserAlert, error)
	CountActive(ctx context.Context, userID uint64) (int64, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
	GetRecentActiveByKind(ctx context.Context, userID, perfumeID uint64, kind string, since time.Time) ([]*model.UserAlert, error)
	MarkRead(ctx context.Context, userID, alertID uint64) (int64, error)
	Dismiss(ctx context.Context, userID, alertID uint64) (int64, error)
	DismissAll(ctx context.Context, userID uint64) (int64, error)
	DismissOldest(ctx context.Context, userID uint64, count int) (int64, error)
}

type alertRepoImpl struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepo {
	return &alertRepoImpl{db: db}
}

func (r *alertRepoImpl) CreateAlert(ctx context.Context, alert *model.UserAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepoImpl) GetAlertById(ctx context.Context, id uint64) (*model.UserAlert, error) {
	var alert model.UserAlert
	err := r.db.WithContext(ctx).First(&alert, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

// GetActiveAlerts 未撤销的提醒, 新的在前
func (r *alertRepoImpl) GetActiveAlerts(ctx context.Context, userID uint64, offset, limit int) ([]*model.UserAlert, error) {
	alerts := make([]*model.UserAlert, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_dismissed = ?", userID, false).
		Order("created_at desc, id desc").
		Offset(offset).Limit(limit).
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepoImpl) CountActive(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserAlert{}).
		Where("user_id = ? AND is_dismissed = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *alertRepoImpl) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserAlert{}).
		Where("user_id = ? AND is_dismissed = ? AND is_read = ?", userID, false, false).
		Count(&count).Error
	return count, err
}

// GetRecentActiveByKind 查去重窗口内同类提醒, 供调用方判断是否重复
func (r *alertRepoImpl) GetRecentActiveByKind(ctx context.Context, userID, perfumeID uint64, kind string, since time.Time) ([]*model.UserAlert, error) {
	alerts := make([]*model.UserAlert, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND perfume_id = ? AND kind = ? AND is_dismissed = ? AND created_at >= ?",
			userID, perfumeID, kind, false, since).
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepoImpl) MarkRead(ctx context.Context, userID, alertID uint64) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.UserAlert{}).
		Where("id = ? AND user_id = ? AND is_read = ?", alertID, userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

func (r *alertRepoImpl) Dismiss(ctx context.Context, userID, alertID uint64) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.UserAlert{}).
		Where("id = ? AND user_id = ? AND is_dismissed = ?", alertID, userID, false).
		Updates(map[string]interface{}{"is_dismissed": true, "dismissed_at": now})
	return result.RowsAffected, result.Error
}

func (r *alertRepoImpl) DismissAll(ctx context.Context, userID uint64) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.UserAlert{}).
		Where("user_id = ? AND is_dismissed = ?", userID, false).
		Updates(map[string]interface{}{"is_dismissed": true, "dismissed_at": now})
	return result.RowsAffected, result.Error
}

// DismissOldest 为上限腾位: 先取最旧的若干条 id 再批量撤销
func (r *alertRepoImpl) DismissOldest(ctx context.Context, userID uint64, count int) (int64, error) {
	if count <= 0 {
		return 0, nil
	}

	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&model.UserAlert{}).
		Where("user_id = ? AND is_dismissed = ?", userID, false).
		Order("created_at asc, id asc").
		Limit(count).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.UserAlert{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"is_dismissed": true, "dismissed_at": now})
	return result.RowsAffected, result.Error
}

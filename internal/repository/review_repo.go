package repository

import (
	"Sillage/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ReviewRepo interface {
	CreateReview(ctx context.Context, review *model.Review) error
	GetReviewById(ctx context.Context, id uint64) (*model.Review, error)
	GetPerfumeReviews(ctx context.Context, perfumeID uint64, status int8, offset, limit int) ([]*model.Review, error)
	GetReviewsByStatus(ctx context.Context, status int8, offset, limit int) ([]*model.Review, error)
	UpdateReviewStatus(ctx context.Context, id uint64, status int8) (int64, error)
	DeleteReview(ctx context.Context, id, userID uint64) (int64, error)
}

type reviewRepoImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepo {
	return &reviewRepoImpl{db: db}
}

func (r *reviewRepoImpl) CreateReview(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepoImpl) GetReviewById(ctx context.Context, id uint64) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).First(&review, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepoImpl) GetPerfumeReviews(ctx context.Context, perfumeID uint64, status int8, offset, limit int) ([]*model.Review, error) {
	reviews := make([]*model.Review, 0)
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("perfume_id = ? AND status = ?", perfumeID, status).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepoImpl) GetReviewsByStatus(ctx context.Context, status int8, offset, limit int) ([]*model.Review, error) {
	reviews := make([]*model.Review, 0)
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", status).
		Order("created_at asc").
		Offset(offset).Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepoImpl) UpdateReviewStatus(ctx context.Context, id uint64, status int8) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

func (r *reviewRepoImpl) DeleteReview(ctx context.Context, id, userID uint64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Review{})
	return result.RowsAffected, result.Error
}

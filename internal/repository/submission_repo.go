package repository

import (
	"Sillage/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type SubmissionRepo interface {
	CreateSubmission(ctx context.Context, submission *model.PendingSubmission) error
	GetSubmissionById(ctx context.Context, id uint64) (*model.PendingSubmission, error)
	GetSubmissionsByStatus(ctx context.Context, status int8, offset, limit int) ([]*model.PendingSubmission, error)
	GetUserSubmissions(ctx context.Context, userID uint64, offset, limit int) ([]*model.PendingSubmission, error)
	UpdateSubmissionStatus(ctx context.Context, id uint64, status int8, reviewerID uint64) (int64, error)
}

type submissionRepoImpl struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepo {
	return &submissionRepoImpl{db: db}
}

func (r *submissionRepoImpl) CreateSubmission(ctx context.Context, submission *model.PendingSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepoImpl) GetSubmissionById(ctx context.Context, id uint64) (*model.PendingSubmission, error) {
	var submission model.PendingSubmission
	err := r.db.WithContext(ctx).First(&submission, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepoImpl) GetSubmissionsByStatus(ctx context.Context, status int8, offset, limit int) ([]*model.PendingSubmission, error) {
	submissions := make([]*model.PendingSubmission, 0)
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at asc").
		Offset(offset).Limit(limit).
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepoImpl) GetUserSubmissions(ctx context.Context, userID uint64, offset, limit int) ([]*model.PendingSubmission, error) {
	submissions := make([]*model.PendingSubmission, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// UpdateSubmissionStatus 只允许从待审状态流转, 返回影响行数防止重复审核
func (r *submissionRepoImpl) UpdateSubmissionStatus(ctx context.Context, id uint64, status int8, reviewerID uint64) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.PendingSubmission{}).
		Where("id = ? AND status = ?", id, model.SubmissionStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		})
	return result.RowsAffected, result.Error
}

package repository

import (
	"Sillage/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TraderScore 交易者信誉聚合
type TraderScore struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type FeedbackRepo interface {
	UpsertFeedback(ctx context.Context, feedback *model.TraderFeedback) error
	GetByRaterAndTrader(ctx context.Context, raterID, traderID uint64) (*model.TraderFeedback, error)
	GetTraderFeedbacks(ctx context.Context, traderID uint64, offset, limit int) ([]*model.TraderFeedback, error)
	GetTraderScore(ctx context.Context, traderID uint64) (*TraderScore, error)
}

type feedbackRepoImpl struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepo {
	return &feedbackRepoImpl{db: db}
}

// UpsertFeedback 同一评价人对同一交易者只保留最新一条
func (r *feedbackRepoImpl) UpsertFeedback(ctx context.Context, feedback *model.TraderFeedback) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rater_id"}, {Name: "trader_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(feedback).Error
}

func (r *feedbackRepoImpl) GetByRaterAndTrader(ctx context.Context, raterID, traderID uint64) (*model.TraderFeedback, error) {
	var feedback model.TraderFeedback
	err := r.db.WithContext(ctx).
		Where("rater_id = ? AND trader_id = ?", raterID, traderID).
		First(&feedback).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepoImpl) GetTraderFeedbacks(ctx context.Context, traderID uint64, offset, limit int) ([]*model.TraderFeedback, error) {
	feedbacks := make([]*model.TraderFeedback, 0)
	err := r.db.WithContext(ctx).
		Where("trader_id = ?", traderID).
		Order("updated_at desc").
		Offset(offset).Limit(limit).
		Find(&feedbacks).Error
	if err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (r *feedbackRepoImpl) GetTraderScore(ctx context.Context, traderID uint64) (*TraderScore, error) {
	var score TraderScore
	err := r.db.WithContext(ctx).
		Model(&model.TraderFeedback{}).
		Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as count").
		Where("trader_id = ?", traderID).
		Scan(&score).Error
	if err != nil {
		return nil, err
	}
	return &score, nil
}

package repository

import (
	"Sillage/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingAverages 单支香水的评分聚合
type RatingAverages struct {
	Overall    float64 `json:"overall"`
	Longevity  float64 `json:"longevity"`
	Sillage    float64 `json:"sillage"`
	Gender     float64 `json:"gender"`
	PriceValue float64 `json:"priceValue"`
	Count      int64   `json:"count"`
}

type RatingRepo interface {
	UpsertRating(ctx context.Context, rating *model.Rating) error
	GetByUserAndPerfume(ctx context.Context, userID, perfumeID uint64) (*model.Rating, error)
	GetPerfumeAverages(ctx context.Context, perfumeID uint64) (*RatingAverages, error)
}

type ratingRepoImpl struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepo {
	return &ratingRepoImpl{db: db}
}

func (r *ratingRepoImpl) UpsertRating(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "perfume_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"overall", "longevity", "sillage", "gender", "price_value", "updated_at"}),
	}).Create(rating).Error
}

func (r *ratingRepoImpl) GetByUserAndPerfume(ctx context.Context, userID, perfumeID uint64) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND perfume_id = ?", userID, perfumeID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepoImpl) GetPerfumeAverages(ctx context.Context, perfumeID uint64) (*RatingAverages, error) {
	var avg RatingAverages
	err := r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("COALESCE(AVG(overall), 0) as overall, "+
			"COALESCE(AVG(longevity), 0) as longevity, "+
			"COALESCE(AVG(sillage), 0) as sillage, "+
			"COALESCE(AVG(gender), 0) as gender, "+
			"COALESCE(AVG(price_value), 0) as price_value, "+
			"COUNT(*) as count").
		Where("perfume_id = ?", perfumeID).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return &avg, nil
}

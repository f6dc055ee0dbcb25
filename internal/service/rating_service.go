package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/pkg/redis"
	"Sillage/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

type RatingService interface {
	RatePerfume(ctx context.Context, userID, perfumeID uint64, dto *dto.RateDTO) error
	GetUserRating(ctx context.Context, userID, perfumeID uint64) (*model.Rating, error)
	GetPerfumeRatingSummary(ctx context.Context, perfumeID uint64) (*dto.RatingSummaryDTO, error)
}

type RatingServiceImpl struct {
	ratingRepo     repository.RatingRepo
	perfumeRepo    repository.PerfumeRepo
	profileService ScentProfileService
}

func NewRatingService(
	ratingRepo repository.RatingRepo,
	perfumeRepo repository.PerfumeRepo,
	profileService ScentProfileService,
) RatingService {
	return &RatingServiceImpl{
		ratingRepo:     ratingRepo,
		perfumeRepo:    perfumeRepo,
		profileService: profileService,
	}
}

// RatePerfume 覆盖式评分. 画像打分尽力而为, 失败不影响评分落库
func (s *RatingServiceImpl) RatePerfume(ctx context.Context, userID, perfumeID uint64, rateDTO *dto.RateDTO) error {
	if rateDTO.Overall < 1 || rateDTO.Overall > 5 {
		return ErrRatingInvalid
	}
	perfume, err := s.perfumeRepo.GetPerfumeById(ctx, perfumeID)
	if err != nil {
		return err
	}
	if perfume == nil {
		return ErrPerfumeNotFound
	}

	rating := &model.Rating{
		UserID:     userID,
		PerfumeID:  perfumeID,
		Overall:    rateDTO.Overall,
		Longevity:  rateDTO.Longevity,
		Sillage:    rateDTO.Sillage,
		Gender:     rateDTO.Gender,
		PriceValue: rateDTO.PriceValue,
	}
	err = s.ratingRepo.UpsertRating(ctx, rating)
	if err != nil {
		return err
	}
	_ = redis.DeleteKey(ctx, consts.PerfumeRatingKey+strconv.FormatUint(perfumeID, 10))

	if _, err = s.profileService.ApplyBehaviorEvent(ctx, userID, BehaviorEvent{
		Kind:      consts.BehaviorEventRating,
		PerfumeID: perfumeID,
		Overall:   rateDTO.Overall,
	}); err != nil {
		log.WarnContext(ctx, "评分画像打分失败", "userId", userID, "perfumeId", perfumeID, "err", err)
	}

	return nil
}

func (s *RatingServiceImpl) GetUserRating(ctx context.Context, userID, perfumeID uint64) (*model.Rating, error) {
	return s.ratingRepo.GetByUserAndPerfume(ctx, userID, perfumeID)
}

func (s *RatingServiceImpl) GetPerfumeRatingSummary(ctx context.Context, perfumeID uint64) (*dto.RatingSummaryDTO, error) {
	key := consts.PerfumeRatingKey + strconv.FormatUint(perfumeID, 10)
	value, err := redis.GetValue(ctx, key)
	if err == nil && value != "" {
		var summary *dto.RatingSummaryDTO
		if err = json.Unmarshal([]byte(value), &summary); err == nil {
			return summary, nil
		}
	}

	avg, err := s.ratingRepo.GetPerfumeAverages(ctx, perfumeID)
	if err != nil {
		return nil, err
	}
	summary := &dto.RatingSummaryDTO{
		Overall:    avg.Overall,
		Longevity:  avg.Longevity,
		Sillage:    avg.Sillage,
		Gender:     avg.Gender,
		PriceValue: avg.PriceValue,
		Count:      avg.Count,
	}
	if jsonStr, err := json.Marshal(summary); err == nil {
		_ = redis.SetWithExpiration(ctx, key, string(jsonStr), time.Minute*10)
	}
	return summary, nil
}

package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/pkg/redis"
	"Sillage/internal/repository"
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

type FeedbackService interface {
	SubmitFeedback(ctx context.Context, raterID uint64, dto *dto.FeedbackDTO) error
	GetTraderFeedbacks(ctx context.Context, traderID uint64, page, pageSize int) ([]*dto.TraderFeedbackDTO, error)
	GetTraderScore(ctx context.Context, traderID uint64) (*dto.TraderScoreDTO, error)
}

type FeedbackServiceImpl struct {
	feedbackRepo repository.FeedbackRepo
	userRepo     repository.UserRepo
}

func NewFeedbackService(feedbackRepo repository.FeedbackRepo, userRepo repository.UserRepo) FeedbackService {
	return &FeedbackServiceImpl{
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
	}
}

func (s *FeedbackServiceImpl) SubmitFeedback(ctx context.Context, raterID uint64, feedbackDTO *dto.FeedbackDTO) error {
	if raterID == feedbackDTO.TraderID {
		return ErrFeedbackSelf
	}
	trader, err := s.userRepo.GetUserById(ctx, feedbackDTO.TraderID)
	if err != nil {
		return err
	}
	if trader == nil {
		return ErrUserNotFound
	}

	feedback := &model.TraderFeedback{
		RaterID:  raterID,
		TraderID: feedbackDTO.TraderID,
		Rating:   feedbackDTO.Rating,
		Comment:  feedbackDTO.Comment,
	}
	err = s.feedbackRepo.UpsertFeedback(ctx, feedback)
	if err != nil {
		return err
	}
	_ = redis.DeleteKey(ctx, consts.TraderScoreKey+strconv.FormatUint(feedbackDTO.TraderID, 10))
	return nil
}

func (s *FeedbackServiceImpl) GetTraderFeedbacks(ctx context.Context, traderID uint64, page, pageSize int) ([]*dto.TraderFeedbackDTO, error) {
	offset, limit := normalizePage(page, pageSize)
	feedbacks, err := s.feedbackRepo.GetTraderFeedbacks(ctx, traderID, offset, limit)
	if err != nil {
		return nil, err
	}

	raterIDs := make([]uint64, 0, len(feedbacks))
	for _, feedback := range feedbacks {
		raterIDs = append(raterIDs, feedback.RaterID)
	}
	names := make(map[uint64]string, len(raterIDs))
	if len(raterIDs) > 0 {
		raters, err := s.userRepo.GetUserByIds(ctx, raterIDs)
		if err != nil {
			return nil, err
		}
		for _, rater := range raters {
			names[rater.ID] = rater.DisplayName()
		}
	}

	feedbackDTOs := make([]*dto.TraderFeedbackDTO, 0, len(feedbacks))
	for _, feedback := range feedbacks {
		feedbackDTOs = append(feedbackDTOs, &dto.TraderFeedbackDTO{
			RaterID:     feedback.RaterID,
			DisplayName: names[feedback.RaterID],
			Rating:      feedback.Rating,
			Comment:     feedback.Comment,
			UpdatedAt:   feedback.UpdatedAt,
		})
	}
	return feedbackDTOs, nil
}

func (s *FeedbackServiceImpl) GetTraderScore(ctx context.Context, traderID uint64) (*dto.TraderScoreDTO, error) {
	key := consts.TraderScoreKey + strconv.FormatUint(traderID, 10)
	value, err := redis.GetValue(ctx, key)
	if err == nil && value != "" {
		var scoreDTO *dto.TraderScoreDTO
		if err = json.Unmarshal([]byte(value), &scoreDTO); err == nil {
			return scoreDTO, nil
		}
	}

	score, err := s.feedbackRepo.GetTraderScore(ctx, traderID)
	if err != nil {
		return nil, err
	}
	scoreDTO := &dto.TraderScoreDTO{
		TraderID: traderID,
		Average:  score.Average,
		Count:    score.Count,
	}
	if jsonStr, err := json.Marshal(scoreDTO); err == nil {
		_ = redis.SetWithExpiration(ctx, key, string(jsonStr), time.Minute*10)
	}
	return scoreDTO, nil
}

package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/pkg/llm"
	"Sillage/internal/repository"
	"context"
	log "log/slog"
)

type ReviewService interface {
	CreateReview(ctx context.Context, userID, perfumeID uint64, dto *dto.CreateReviewDTO) (*dto.ReviewDTO, error)
	GetPerfumeReviews(ctx context.Context, perfumeID uint64, page, pageSize int) ([]*dto.ReviewDTO, error)
	GetPendingReviews(ctx context.Context, page, pageSize int) ([]*dto.ReviewDTO, error)
	ModerateReview(ctx context.Context, reviewID uint64, approve bool) error
	DeleteReview(ctx context.Context, userID, reviewID uint64) error
}

type ReviewServiceImpl struct {
	reviewRepo  repository.ReviewRepo
	perfumeRepo repository.PerfumeRepo
}

func NewReviewService(reviewRepo repository.ReviewRepo, perfumeRepo repository.PerfumeRepo) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo:  reviewRepo,
		perfumeRepo: perfumeRepo,
	}
}

// CreateReview 发布评论. 先过一遍模型审核:
// 通过直接上架, 拒绝直接驳回, 拿不准或审核服务不可用则留待人工
func (s *ReviewServiceImpl) CreateReview(ctx context.Context, userID, perfumeID uint64, createDTO *dto.CreateReviewDTO) (*dto.ReviewDTO, error) {
	perfume, err := s.perfumeRepo.GetPerfumeById(ctx, perfumeID)
	if err != nil {
		return nil, err
	}
	if perfume == nil {
		return nil, ErrPerfumeNotFound
	}

	status := int8(consts.ReviewStatusPending)
	verdict, err := llm.ReviewSafe(ctx, createDTO.Content)
	if err != nil {
		log.WarnContext(ctx, "评论模型审核不可用, 转人工", "userId", userID, "err", err)
	} else {
		switch verdict {
		case llm.ReviewSafePass:
			status = consts.ReviewStatusApproved
		case llm.ReviewSafeDeny:
			return nil, ErrReviewSensitive
		}
	}

	review := &model.Review{
		UserID:    userID,
		PerfumeID: perfumeID,
		Content:   createDTO.Content,
		Status:    status,
	}
	err = s.reviewRepo.CreateReview(ctx, review)
	if err != nil {
		return nil, err
	}

	return &dto.ReviewDTO{
		ID:        review.ID,
		PerfumeID: review.PerfumeID,
		UserID:    review.UserID,
		Content:   review.Content,
		Status:    review.Status,
		CreatedAt: review.CreatedAt,
	}, nil
}

func (s *ReviewServiceImpl) GetPerfumeReviews(ctx context.Context, perfumeID uint64, page, pageSize int) ([]*dto.ReviewDTO, error) {
	offset, limit := normalizePage(page, pageSize)
	reviews, err := s.reviewRepo.GetPerfumeReviews(ctx, perfumeID, consts.ReviewStatusApproved, offset, limit)
	if err != nil {
		return nil, err
	}
	return toReviewDTOs(reviews), nil
}

func (s *ReviewServiceImpl) GetPendingReviews(ctx context.Context, page, pageSize int) ([]*dto.ReviewDTO, error) {
	offset, limit := normalizePage(page, pageSize)
	reviews, err := s.reviewRepo.GetReviewsByStatus(ctx, consts.ReviewStatusPending, offset, limit)
	if err != nil {
		return nil, err
	}
	return toReviewDTOs(reviews), nil
}

func (s *ReviewServiceImpl) ModerateReview(ctx context.Context, reviewID uint64, approve bool) error {
	status := int8(consts.ReviewStatusRejected)
	if approve {
		status = consts.ReviewStatusApproved
	}
	affected, err := s.reviewRepo.UpdateReviewStatus(ctx, reviewID, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (s *ReviewServiceImpl) DeleteReview(ctx context.Context, userID, reviewID uint64) error {
	affected, err := s.reviewRepo.DeleteReview(ctx, reviewID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func toReviewDTOs(reviews []*model.Review) []*dto.ReviewDTO {
	reviewDTOs := make([]*dto.ReviewDTO, 0, len(reviews))
	for _, review := range reviews {
		reviewDTOs = append(reviewDTOs, &dto.ReviewDTO{
			ID:          review.ID,
			PerfumeID:   review.PerfumeID,
			UserID:      review.UserID,
			DisplayName: review.User.DisplayName(),
			Content:     review.Content,
			Status:      review.Status,
			CreatedAt:   review.CreatedAt,
		})
	}
	return reviewDTOs
}

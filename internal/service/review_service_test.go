package service

import (
	"Sillage/internal/model"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 发布路径依赖模型审核, 这里只覆盖审核流转与读删
func newReviewTestEnv(t *testing.T) (ReviewService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewReviewService(repository.NewReviewRepository(db), repository.NewPerfumeRepo(db)), db
}

func seedReview(t *testing.T, db *gorm.DB, userID, perfumeID uint64, status int8) *model.Review {
	t.Helper()
	review := &model.Review{
		UserID:    userID,
		PerfumeID: perfumeID,
		Content:   "开瓶是明亮的柑橘, 中段转向皮革",
		Status:    status,
	}
	require.NoError(t, db.Create(review).Error)
	return review
}

func TestGetPerfumeReviews_OnlyApproved(t *testing.T) {
	svc, db := newReviewTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "reviewer")
	perfume := seedPerfume(t, db, "Tygar")
	seedReview(t, db, user.ID, perfume.ID, consts.ReviewStatusApproved)
	seedReview(t, db, user.ID, perfume.ID, consts.ReviewStatusPending)
	seedReview(t, db, user.ID, perfume.ID, consts.ReviewStatusRejected)

	reviews, err := svc.GetPerfumeReviews(ctx, perfume.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.EqualValues(t, consts.ReviewStatusApproved, reviews[0].Status)
	assert.Equal(t, "reviewer", reviews[0].DisplayName)
}

func TestModerateReview(t *testing.T) {
	svc, db := newReviewTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "reviewer")
	perfume := seedPerfume(t, db, "Side Effect")
	pending := seedReview(t, db, user.ID, perfume.ID, consts.ReviewStatusPending)

	queue, err := svc.GetPendingReviews(ctx, 1, 20)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	require.NoError(t, svc.ModerateReview(ctx, pending.ID, true))
	var stored model.Review
	require.NoError(t, db.First(&stored, pending.ID).Error)
	assert.EqualValues(t, consts.ReviewStatusApproved, stored.Status)

	queue, err = svc.GetPendingReviews(ctx, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, queue)

	assert.ErrorIs(t, svc.ModerateReview(ctx, 99999, true), ErrReviewNotFound)
}

func TestDeleteReview_OwnerOnly(t *testing.T) {
	svc, db := newReviewTestEnv(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	perfume := seedPerfume(t, db, "Bal d'Afrique")
	review := seedReview(t, db, owner.ID, perfume.ID, consts.ReviewStatusApproved)

	assert.ErrorIs(t, svc.DeleteReview(ctx, stranger.ID, review.ID), ErrReviewNotFound)
	require.NoError(t, svc.DeleteReview(ctx, owner.ID, review.ID))
	assert.ErrorIs(t, svc.DeleteReview(ctx, owner.ID, review.ID), ErrReviewNotFound)
}

package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFeedbackTestEnv(t *testing.T) (FeedbackService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	newTestRedis(t)
	return NewFeedbackService(repository.NewFeedbackRepository(db), repository.NewUserRepo(db)), db
}

func TestSubmitFeedback(t *testing.T) {
	svc, db := newFeedbackTestEnv(t)
	ctx := context.Background()

	rater := seedUser(t, db, "rater")
	trader := seedUser(t, db, "trader")

	assert.ErrorIs(t, svc.SubmitFeedback(ctx, rater.ID, &dto.FeedbackDTO{TraderID: rater.ID, Rating: 5}), ErrFeedbackSelf)
	assert.ErrorIs(t, svc.SubmitFeedback(ctx, rater.ID, &dto.FeedbackDTO{TraderID: 99999, Rating: 5}), ErrUserNotFound)

	comment := "靠谱卖家, 分装很足"
	require.NoError(t, svc.SubmitFeedback(ctx, rater.ID, &dto.FeedbackDTO{TraderID: trader.ID, Rating: 5, Comment: &comment}))

	// 覆盖式评价: 同一 rater 对同一 trader 只保留最新一条
	require.NoError(t, svc.SubmitFeedback(ctx, rater.ID, &dto.FeedbackDTO{TraderID: trader.ID, Rating: 3}))

	var feedbacks []model.TraderFeedback
	require.NoError(t, db.Where("trader_id = ?", trader.ID).Find(&feedbacks).Error)
	require.Len(t, feedbacks, 1)
	assert.EqualValues(t, 3, feedbacks[0].Rating)
}

func TestGetTraderFeedbacks(t *testing.T) {
	svc, db := newFeedbackTestEnv(t)
	ctx := context.Background()

	rater1 := seedUser(t, db, "rater-one")
	rater2 := seedUser(t, db, "rater-two")
	trader := seedUser(t, db, "trader")

	require.NoError(t, svc.SubmitFeedback(ctx, rater1.ID, &dto.FeedbackDTO{TraderID: trader.ID, Rating: 5}))
	require.NoError(t, svc.SubmitFeedback(ctx, rater2.ID, &dto.FeedbackDTO{TraderID: trader.ID, Rating: 4}))

	feedbacks, err := svc.GetTraderFeedbacks(ctx, trader.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, feedbacks, 2)
	names := map[string]bool{}
	for _, feedback := range feedbacks {
		names[feedback.DisplayName] = true
	}
	assert.True(t, names["rater-one"])
	assert.True(t, names["rater-two"])
}

func TestGetTraderScore(t *testing.T) {
	svc, db := newFeedbackTestEnv(t)
	ctx := context.Background()

	rater1 := seedUser(t, db, "rater-one")
	rater2 := seedUser(t, db, "rater-two")
	trader := seedUser(t, db, "trader")

	score, err := svc.GetTraderScore(ctx, trader.ID)
	require.NoError(t, err)
	assert.Zero(t, score.Count)

	require.NoError(t, svc.SubmitFeedback(ctx, rater1.ID, &dto.FeedbackDTO{TraderID: trader.ID, Rating: 5}))
	require.NoError(t, svc.SubmitFeedback(ctx, rater2.ID, &dto.FeedbackDTO{TraderID: trader.ID, Rating: 2}))

	score, err = svc.GetTraderScore(ctx, trader.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, score.Count)
	assert.InDelta(t, 3.5, score.Average, 0.01)
}

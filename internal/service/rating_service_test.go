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

func newRatingTestEnv(t *testing.T) (RatingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	newTestRedis(t)

	profileSvc := NewScentProfileService(
		repository.NewScentProfileRepository(db),
		repository.NewNoteRepository(db),
	)
	return NewRatingService(repository.NewRatingRepository(db), repository.NewPerfumeRepo(db), profileSvc), db
}

func TestRatePerfume_Validation(t *testing.T) {
	svc, db := newRatingTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "rater")
	perfume := seedPerfume(t, db, "Dior Homme Intense")

	assert.ErrorIs(t, svc.RatePerfume(ctx, user.ID, perfume.ID, &dto.RateDTO{Overall: 0}), ErrRatingInvalid)
	assert.ErrorIs(t, svc.RatePerfume(ctx, user.ID, perfume.ID, &dto.RateDTO{Overall: 6}), ErrRatingInvalid)
	assert.ErrorIs(t, svc.RatePerfume(ctx, user.ID, 99999, &dto.RateDTO{Overall: 4}), ErrPerfumeNotFound)
}

func TestRatePerfume_UpsertOverwrites(t *testing.T) {
	svc, db := newRatingTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "rater")
	perfume := seedPerfume(t, db, "La Nuit de l'Homme")

	require.NoError(t, svc.RatePerfume(ctx, user.ID, perfume.ID, &dto.RateDTO{Overall: 3}))
	longevity := int8(4)
	require.NoError(t, svc.RatePerfume(ctx, user.ID, perfume.ID, &dto.RateDTO{Overall: 5, Longevity: &longevity}))

	rating, err := svc.GetUserRating(ctx, user.ID, perfume.ID)
	require.NoError(t, err)
	require.NotNil(t, rating)
	assert.EqualValues(t, 5, rating.Overall)
	require.NotNil(t, rating.Longevity)
	assert.EqualValues(t, 4, *rating.Longevity)

	var count int64
	require.NoError(t, db.Model(&model.Rating{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRatePerfume_DrivesProfile(t *testing.T) {
	svc, db := newRatingTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "rater")
	perfume := seedPerfume(t, db, "Encre Noire")
	vetiver := seedNote(t, db, "Vetiver")
	linkNotes(t, db, perfume.ID, vetiver.ID)

	require.NoError(t, svc.RatePerfume(ctx, user.ID, perfume.ID, &dto.RateDTO{Overall: 5}))

	var profile model.ScentProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.EqualValues(t, 1, profile.NoteWeights[vetiver.ID])
}

func TestGetPerfumeRatingSummary(t *testing.T) {
	svc, db := newRatingTestEnv(t)
	ctx := context.Background()

	user1 := seedUser(t, db, "rater-one")
	user2 := seedUser(t, db, "rater-two")
	perfume := seedPerfume(t, db, "Terre d'Hermes")

	require.NoError(t, svc.RatePerfume(ctx, user1.ID, perfume.ID, &dto.RateDTO{Overall: 4}))
	require.NoError(t, svc.RatePerfume(ctx, user2.ID, perfume.ID, &dto.RateDTO{Overall: 5}))

	summary, err := svc.GetPerfumeRatingSummary(ctx, perfume.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Count)
	assert.InDelta(t, 4.5, summary.Overall, 0.01)

	// 评分变化后缓存被失效, 汇总跟着变
	require.NoError(t, svc.RatePerfume(ctx, user2.ID, perfume.ID, &dto.RateDTO{Overall: 1}))
	summary, err = svc.GetPerfumeRatingSummary(ctx, perfume.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, summary.Overall, 0.01)
}

func TestGetPerfumeRatingSummary_Empty(t *testing.T) {
	svc, db := newRatingTestEnv(t)
	ctx := context.Background()

	perfume := seedPerfume(t, db, "Unrated")

	summary, err := svc.GetPerfumeRatingSummary(ctx, perfume.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.Overall)
}

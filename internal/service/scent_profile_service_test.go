package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateProfile_Lazy(t *testing.T) {
	db := newTestDB(t)
	svc := NewScentProfileService(repository.NewScentProfileRepository(db), repository.NewNoteRepository(db))
	ctx := context.Background()
	user := seedUser(t, db, "collector")

	profile, err := svc.GetOrCreateProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, user.ID, profile.UserID)
	assert.Empty(t, profile.NoteWeights)
	assert.Empty(t, profile.AvoidNoteIDs)

	// 第二次调用读回同一行
	again, err := svc.GetOrCreateProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.UserID, again.UserID)
}

func TestApplyBehaviorEvent_HighRatingBoostsNotes(t *testing.T) {
	db := newTestDB(t)
	svc := NewScentProfileService(repository.NewScentProfileRepository(db), repository.NewNoteRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, "rater")
	perfume := seedPerfume(t, db, "Iris Nobile")
	bergamot := seedNote(t, db, "Bergamot")
	iris := seedNote(t, db, "Iris")
	linkNotes(t, db, perfume.ID, bergamot.ID, iris.ID)

	profile, err := svc.ApplyBehaviorEvent(ctx, user.ID, BehaviorEvent{
		Kind:      consts.BehaviorEventRating,
		PerfumeID: perfume.ID,
		Overall:   5,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, profile.NoteWeights[bergamot.ID])
	assert.EqualValues(t, 1, profile.NoteWeights[iris.ID])
	assert.Empty(t, profile.AvoidNoteIDs)

	// 再评一次高分, 权重继续累加
	profile, err = svc.ApplyBehaviorEvent(ctx, user.ID, BehaviorEvent{
		Kind:      consts.BehaviorEventRating,
		PerfumeID: perfume.ID,
		Overall:   4,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, profile.NoteWeights[bergamot.ID])
}

func TestApplyBehaviorEvent_LowRatingAddsAvoid(t *testing.T) {
	db := newTestDB(t)
	svc := NewScentProfileService(repository.NewScentProfileRepository(db), repository.NewNoteRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, "skeptic")
	perfume := seedPerfume(t, db, "Oud Royale")
	oud := seedNote(t, db, "Oud")
	linkNotes(t, db, perfume.ID, oud.ID)

	profile, err := svc.ApplyBehaviorEvent(ctx, user.ID, BehaviorEvent{
		Kind:      consts.BehaviorEventRating,
		PerfumeID: perfume.ID,
		Overall:   2,
	})
	require.NoError(t, err)
	assert.True(t, profile.AvoidNoteIDs.Contains(oud.ID))
	assert.Empty(t, profile.NoteWeights)

	// 重复低分不产生重复回避项
	profile, err = svc.ApplyBehaviorEvent(ctx, user.ID, BehaviorEvent{
		Kind:      consts.BehaviorEventRating,
		PerfumeID: perfume.ID,
		Overall:   1,
	})
	require.NoError(t, err)
	assert.Len(t, profile.AvoidNoteIDs, 1)
}

func TestApplyBehaviorEvent_NeutralRatingIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewScentProfileService(repository.NewScentProfileRepository(db), repository.NewNoteRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, "neutral")
	perfume := seedPerfume(t, db, "Eau Fraiche")
	citrus := seedNote(t, db, "Citrus")
	linkNotes(t, db, perfume.ID, citrus.ID)

	profile, err := svc.ApplyBehaviorEvent(ctx, user.ID, BehaviorEvent{
		Kind:      consts.BehaviorEventRating,
		PerfumeID: perfume.ID,
		Overall:   3,
	})
	require.NoError(t, err)
	assert.Empty(t, profile.NoteWeights)
	assert.Empty(t, profile.AvoidNoteIDs)
}

func TestApplyBehaviorEvent_NoNotesIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewScentProfileService(repository.NewScentProfileRepository(db), repository.NewNoteRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, "minimalist")
	perfume := seedPerfume(t, db, "Mystery Blend")

	profile, err := svc.ApplyBehaviorEvent(ctx, user.ID, BehaviorEvent{
		Kind:      consts.BehaviorEventWishlist,
		PerfumeID: perfume.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, profile.NoteWeights)
}

func TestApplyBehaviorEvent_WishlistAndCollection(t *testing.T) {
	db := newTestDB(t)
	svc := NewScentProfileService(repository.NewScentProfileRepository(db), repository.NewNoteRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, "hoarder")
	perfume := seedPerfume(t, db, "Santal 33")
	sandalwood := seedNote(t, db, "Sandalwood")
	linkNotes(t, db, perfume.ID, sandalwood.ID)

	profile, err := svc.ApplyBehaviorEvent(ctx, user.ID, BehaviorEvent{
		Kind:      consts.BehaviorEventWishlist,
		PerfumeID: perfume.ID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, profile.NoteWeights[sandalwood.ID])

	profile, err = svc.ApplyBehaviorEvent(ctx, user.ID, BehaviorEvent{
		Kind:      consts.BehaviorEventCollection,
		PerfumeID: perfume.ID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, profile.NoteWeights[sandalwood.ID])
}

func TestApplyQuiz_MergesAdditively(t *testing.T) {
	db := newTestDB(t)
	svc := NewScentProfileService(repository.NewScentProfileRepository(db), repository.NewNoteRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, "quiztaker")
	rose := seedNote(t, db, "Rose")
	musk := seedNote(t, db, "Musk")

	_, err := svc.ApplyQuiz(ctx, user.ID, &dto.QuizDTO{
		NoteWeights:  map[uint64]int64{rose.ID: 2},
		AvoidNoteIDs: []uint64{musk.ID},
	})
	require.NoError(t, err)

	profile, err := svc.ApplyQuiz(ctx, user.ID, &dto.QuizDTO{
		NoteWeights:  map[uint64]int64{rose.ID: 2},
		AvoidNoteIDs: []uint64{musk.ID},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 4, profile.NoteWeights[rose.ID])
	assert.Len(t, profile.AvoidNoteIDs, 1)
	require.NotNil(t, profile.LastQuizAt)
}

func TestApplyQuiz_ScalarsOnlyWhenAnswered(t *testing.T) {
	db := newTestDB(t)
	svc := NewScentProfileService(repository.NewScentProfileRepository(db), repository.NewNoteRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, "seasonal")
	minPrice, maxPrice := 50.0, 200.0
	seasons := []string{"spring", "autumn"}
	style := "explorer"

	profile, err := svc.ApplyQuiz(ctx, user.ID, &dto.QuizDTO{
		PriceRange:    &dto.PriceRangeDTO{Min: &minPrice, Max: &maxPrice},
		Seasons:       &seasons,
		BrowsingStyle: &style,
	})
	require.NoError(t, err)
	require.NotNil(t, profile.SeasonHint)
	assert.Equal(t, "spring,autumn", *profile.SeasonHint)
	require.NotNil(t, profile.BrowsingStyle)
	assert.Equal(t, "explorer", *profile.BrowsingStyle)
	require.NotNil(t, profile.PreferredPriceRange.Min)
	assert.Equal(t, 50.0, *profile.PreferredPriceRange.Min)

	firstQuizAt := *profile.LastQuizAt

	// 空问卷: 标量保持原值, lastQuizAt 仍然刷新
	profile, err = svc.ApplyQuiz(ctx, user.ID, &dto.QuizDTO{})
	require.NoError(t, err)
	require.NotNil(t, profile.SeasonHint)
	assert.Equal(t, "spring,autumn", *profile.SeasonHint)
	assert.Equal(t, "explorer", *profile.BrowsingStyle)
	assert.False(t, profile.LastQuizAt.Before(firstQuizAt))
}

func TestGetProfileDTO_OmitsZeroPriceRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewScentProfileService(repository.NewScentProfileRepository(db), repository.NewNoteRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, "fresh")

	profileDTO, err := svc.GetProfileDTO(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, profileDTO.PriceRange)

	minPrice := 30.0
	_, err = svc.ApplyQuiz(ctx, user.ID, &dto.QuizDTO{
		PriceRange: &dto.PriceRangeDTO{Min: &minPrice},
	})
	require.NoError(t, err)

	profileDTO, err = svc.GetProfileDTO(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, profileDTO.PriceRange)
	assert.Equal(t, 30.0, *profileDTO.PriceRange.Min)
}

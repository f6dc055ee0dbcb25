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

func newWishlistTestEnv(t *testing.T) (WishlistService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	newTestRedis(t)

	wishlistRepo := repository.NewWishlistRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	perfumeRepo := repository.NewPerfumeRepo(db)
	alertSvc := NewAlertService(
		repository.NewAlertRepository(db),
		repository.NewAlertPreferencesRepository(db),
		wishlistRepo,
		inventoryRepo,
		perfumeRepo,
		repository.NewUserRepo(db),
	)
	profileSvc := NewScentProfileService(
		repository.NewScentProfileRepository(db),
		repository.NewNoteRepository(db),
	)
	return NewWishlistService(wishlistRepo, inventoryRepo, perfumeRepo, alertSvc, profileSvc), db
}

func TestAddToWishlist(t *testing.T) {
	svc, db := newWishlistTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "wisher")
	perfume := seedPerfume(t, db, "Green Irish Tweed")
	vetiver := seedNote(t, db, "Vetiver")
	linkNotes(t, db, perfume.ID, vetiver.ID)

	err := svc.AddToWishlist(ctx, user.ID, &dto.AddWishlistDTO{PerfumeID: perfume.ID, IsPublic: true})
	require.NoError(t, err)

	// 重复加入
	err = svc.AddToWishlist(ctx, user.ID, &dto.AddWishlistDTO{PerfumeID: perfume.ID})
	assert.ErrorIs(t, err, ErrWishlistExist)

	// 不存在的香水
	err = svc.AddToWishlist(ctx, user.ID, &dto.AddWishlistDTO{PerfumeID: 99999})
	assert.ErrorIs(t, err, ErrPerfumeNotFound)

	// 画像被同步打分
	var profile model.ScentProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.EqualValues(t, 1, profile.NoteWeights[vetiver.ID])
}

func TestAddToWishlist_TriggersDecantAlerts(t *testing.T) {
	svc, db := newWishlistTestEnv(t)
	ctx := context.Background()

	wisher := seedUser(t, db, "wisher")
	seller := seedUser(t, db, "seller")
	perfume := seedPerfume(t, db, "Tuscan Leather")
	seedListing(t, db, seller.ID, perfume.ID, 5)

	require.NoError(t, svc.AddToWishlist(ctx, wisher.ID, &dto.AddWishlistDTO{PerfumeID: perfume.ID}))

	var alerts []model.UserAlert
	require.NoError(t, db.Where("user_id = ? AND kind = ?", seller.ID, model.AlertKindDecantInterest).Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, wisher.ID, alerts[0].Metadata.InterestedUserID)
}

func TestRemoveFromWishlist(t *testing.T) {
	svc, db := newWishlistTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "wisher")
	perfume := seedPerfume(t, db, "Fleeting Love")
	seedWishlistItem(t, db, user.ID, perfume.ID)

	require.NoError(t, svc.RemoveFromWishlist(ctx, user.ID, perfume.ID))
	assert.ErrorIs(t, svc.RemoveFromWishlist(ctx, user.ID, perfume.ID), ErrWishlistNotFound)
}

func TestSetVisibility(t *testing.T) {
	svc, db := newWishlistTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "wisher")
	perfume := seedPerfume(t, db, "Secret Garden")
	seedWishlistItem(t, db, user.ID, perfume.ID)

	require.NoError(t, svc.SetVisibility(ctx, user.ID, perfume.ID, false))
	var item model.WishlistItem
	require.NoError(t, db.Where("user_id = ? AND perfume_id = ?", user.ID, perfume.ID).First(&item).Error)
	assert.False(t, item.IsPublic)

	assert.ErrorIs(t, svc.SetVisibility(ctx, user.ID, 99999, true), ErrWishlistNotFound)
}

func TestGetWishlist_ListsSellersExcludingSelf(t *testing.T) {
	svc, db := newWishlistTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "wisher")
	seller := seedUser(t, db, "seller")
	perfume := seedPerfume(t, db, "Another 13")
	seedWishlistItem(t, db, user.ID, perfume.ID)
	seedListing(t, db, seller.ID, perfume.ID, 4)
	seedListing(t, db, user.ID, perfume.ID, 2)

	items, err := svc.GetWishlist(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, perfume.ID, items[0].PerfumeID)
	require.NotNil(t, items[0].Perfume)
	assert.Equal(t, "Another 13", items[0].Perfume.Name)
	require.Len(t, items[0].Sellers, 1)
	assert.Equal(t, seller.ID, items[0].Sellers[0].UserID)
}

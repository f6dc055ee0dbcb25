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

func newInventoryTestEnv(t *testing.T) (InventoryService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	newTestRedis(t)

	inventoryRepo := repository.NewInventoryRepository(db)
	perfumeRepo := repository.NewPerfumeRepo(db)
	alertSvc := NewAlertService(
		repository.NewAlertRepository(db),
		repository.NewAlertPreferencesRepository(db),
		repository.NewWishlistRepository(db),
		inventoryRepo,
		perfumeRepo,
		repository.NewUserRepo(db),
	)
	profileSvc := NewScentProfileService(
		repository.NewScentProfileRepository(db),
		repository.NewNoteRepository(db),
	)
	return NewInventoryService(inventoryRepo, perfumeRepo, alertSvc, profileSvc), db
}

func TestUpsertListing_Validation(t *testing.T) {
	svc, db := newInventoryTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "seller")
	perfume := seedPerfume(t, db, "Musc Ravageur")

	// 可出量不能超过持有量
	err := svc.UpsertListing(ctx, user.ID, &dto.UpsertListingDTO{
		PerfumeID: perfume.ID, Amount: 10, Available: 15, TradePreference: model.TradePreferenceCash,
	})
	assert.ErrorIs(t, err, ErrListingInvalid)

	err = svc.UpsertListing(ctx, user.ID, &dto.UpsertListingDTO{
		PerfumeID: 99999, Amount: 10, Available: 5, TradePreference: model.TradePreferenceCash,
	})
	assert.ErrorIs(t, err, ErrPerfumeNotFound)
}

func TestUpsertListing_Overwrite(t *testing.T) {
	svc, db := newInventoryTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "seller")
	perfume := seedPerfume(t, db, "Bois d'Argent")

	require.NoError(t, svc.UpsertListing(ctx, user.ID, &dto.UpsertListingDTO{
		PerfumeID: perfume.ID, Amount: 100, Available: 50, TradePreference: model.TradePreferenceBoth,
	}))
	price := 3.5
	require.NoError(t, svc.UpsertListing(ctx, user.ID, &dto.UpsertListingDTO{
		PerfumeID: perfume.ID, Amount: 100, Available: 30, Price: &price, TradePreference: model.TradePreferenceDecant,
	}))

	var items []model.UserPerfume
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 30.0, items[0].Available)
	assert.Equal(t, model.TradePreferenceDecant, items[0].TradePreference)
	require.NotNil(t, items[0].Price)
	assert.Equal(t, 3.5, *items[0].Price)
}

func TestUpsertListing_FirstInsertDrivesProfile(t *testing.T) {
	svc, db := newInventoryTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "seller")
	perfume := seedPerfume(t, db, "Ambre Sultan")
	amber := seedNote(t, db, "Amber")
	linkNotes(t, db, perfume.ID, amber.ID)

	require.NoError(t, svc.UpsertListing(ctx, user.ID, &dto.UpsertListingDTO{
		PerfumeID: perfume.ID, Amount: 50, Available: 0, TradePreference: model.TradePreferenceCash,
	}))

	var profile model.ScentProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.EqualValues(t, 1, profile.NoteWeights[amber.ID])

	// 更新同一条目不再计作收藏事件
	require.NoError(t, svc.UpsertListing(ctx, user.ID, &dto.UpsertListingDTO{
		PerfumeID: perfume.ID, Amount: 50, Available: 10, TradePreference: model.TradePreferenceCash,
	}))
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.EqualValues(t, 1, profile.NoteWeights[amber.ID])
}

func TestUpsertListing_TriggersWishlistAlerts(t *testing.T) {
	svc, db := newInventoryTestEnv(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "buyer")
	seller := seedUser(t, db, "seller")
	perfume := seedPerfume(t, db, "Chergui")
	seedWishlistItem(t, db, buyer.ID, perfume.ID)

	// 可出量为零不触发到货提醒
	require.NoError(t, svc.UpsertListing(ctx, seller.ID, &dto.UpsertListingDTO{
		PerfumeID: perfume.ID, Amount: 20, Available: 0, TradePreference: model.TradePreferenceBoth,
	}))
	var count int64
	require.NoError(t, db.Model(&model.UserAlert{}).Where("user_id = ?", buyer.ID).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, svc.UpsertListing(ctx, seller.ID, &dto.UpsertListingDTO{
		PerfumeID: perfume.ID, Amount: 20, Available: 10, TradePreference: model.TradePreferenceBoth,
	}))
	var alerts []model.UserAlert
	require.NoError(t, db.Where("user_id = ?", buyer.ID).Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertKindWishlistAvailable, alerts[0].Kind)
}

func TestRemoveListing(t *testing.T) {
	svc, db := newInventoryTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "seller")
	perfume := seedPerfume(t, db, "Fumerie Turque")
	seedListing(t, db, user.ID, perfume.ID, 5)

	require.NoError(t, svc.RemoveListing(ctx, user.ID, perfume.ID))
	assert.ErrorIs(t, svc.RemoveListing(ctx, user.ID, perfume.ID), ErrListingNotFound)
}

func TestGetPerfumeSellers(t *testing.T) {
	svc, db := newInventoryTestEnv(t)
	ctx := context.Background()

	seller1 := seedUser(t, db, "seller-one")
	seller2 := seedUser(t, db, "seller-two")
	drained := seedUser(t, db, "drained")
	perfume := seedPerfume(t, db, "Black Afgano")
	seedListing(t, db, seller1.ID, perfume.ID, 5)
	seedListing(t, db, seller2.ID, perfume.ID, 3)
	seedListing(t, db, drained.ID, perfume.ID, 0)

	sellers, err := svc.GetPerfumeSellers(ctx, perfume.ID)
	require.NoError(t, err)
	require.Len(t, sellers, 2)
	assert.Equal(t, "seller-one", sellers[0].DisplayName)
}

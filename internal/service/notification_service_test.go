package service

import (
	"Sillage/internal/model"
	"Sillage/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newNotificationTestEnv(t *testing.T) (NotificationService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	newTestRedis(t)

	wishlistRepo := repository.NewWishlistRepository(db)
	perfumeRepo := repository.NewPerfumeRepo(db)
	alertSvc := NewAlertService(
		repository.NewAlertRepository(db),
		repository.NewAlertPreferencesRepository(db),
		wishlistRepo,
		repository.NewInventoryRepository(db),
		perfumeRepo,
		repository.NewUserRepo(db),
	)
	return NewNotificationService(wishlistRepo, perfumeRepo, alertSvc), db
}

func TestProcessWishlistNotifications_EndToEnd(t *testing.T) {
	svc, db := newNotificationTestEnv(t)
	ctx := context.Background()

	buyer1 := seedUser(t, db, "buyer-one")
	buyer2 := seedUser(t, db, "buyer-two")
	seller := seedUser(t, db, "seller")

	stocked := seedPerfume(t, db, "Herod")
	outOfStock := seedPerfume(t, db, "Unicorn Juice")

	seedWishlistItem(t, db, buyer1.ID, stocked.ID)
	seedWishlistItem(t, db, buyer2.ID, stocked.ID)
	seedWishlistItem(t, db, buyer1.ID, outOfStock.ID)
	seedListing(t, db, seller.ID, stocked.ID, 15)

	results, err := svc.ProcessWishlistNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)

	notified := map[uint64]bool{}
	for _, result := range results {
		notified[result.UserID] = true
		assert.Equal(t, stocked.ID, result.PerfumeID)
		assert.Equal(t, "Herod", result.PerfumeName)
		require.Len(t, result.Sellers, 1)
		assert.Equal(t, seller.ID, result.Sellers[0].UserID)
	}
	assert.True(t, notified[buyer1.ID])
	assert.True(t, notified[buyer2.ID])

	// 无货的条目保持待通知
	var item model.WishlistItem
	require.NoError(t, db.Where("user_id = ? AND perfume_id = ?", buyer1.ID, outOfStock.ID).First(&item).Error)
	assert.Nil(t, item.NotifiedAt)
}

func TestProcessWishlistNotifications_SecondRunEmpty(t *testing.T) {
	svc, db := newNotificationTestEnv(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "buyer")
	seller := seedUser(t, db, "seller")
	perfume := seedPerfume(t, db, "Oud Satin Mood")
	seedWishlistItem(t, db, buyer.ID, perfume.ID)
	seedListing(t, db, seller.ID, perfume.ID, 7)

	first, err := svc.ProcessWishlistNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.ProcessWishlistNotifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestProcessWishlistNotifications_NoPending(t *testing.T) {
	svc, _ := newNotificationTestEnv(t)

	results, err := svc.ProcessWishlistNotifications(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}

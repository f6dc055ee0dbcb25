package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type alertTestEnv struct {
	db           *gorm.DB
	alertRepo    repository.AlertRepo
	prefsRepo    repository.AlertPreferencesRepo
	wishlistRepo repository.WishlistRepo
	svc          AlertService
}

func newAlertTestEnv(t *testing.T) *alertTestEnv {
	t.Helper()
	db := newTestDB(t)
	newTestRedis(t)

	env := &alertTestEnv{
		db:           db,
		alertRepo:    repository.NewAlertRepository(db),
		prefsRepo:    repository.NewAlertPreferencesRepository(db),
		wishlistRepo: repository.NewWishlistRepository(db),
	}
	env.svc = NewAlertService(
		env.alertRepo,
		env.prefsRepo,
		env.wishlistRepo,
		repository.NewInventoryRepository(db),
		repository.NewPerfumeRepo(db),
		repository.NewUserRepo(db),
	)
	return env
}

func TestCheckWishlistAvailabilityAlerts_CreatesAndMarksNotified(t *testing.T) {
	env := newAlertTestEnv(t)
	ctx := context.Background()

	buyer := seedUser(t, env.db, "buyer")
	seller := seedUser(t, env.db, "seller")
	perfume := seedPerfume(t, env.db, "Tobacco Vanille")
	seedWishlistItem(t, env.db, buyer.ID, perfume.ID)
	seedListing(t, env.db, seller.ID, perfume.ID, 10)

	alerts, err := env.svc.CheckWishlistAvailabilityAlerts(ctx, perfume.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, buyer.ID, alerts[0].UserID)
	assert.Equal(t, model.AlertKindWishlistAvailable, alerts[0].Kind)
	require.Len(t, alerts[0].Metadata.Sellers, 1)
	assert.Equal(t, seller.ID, alerts[0].Metadata.Sellers[0].UserID)

	// 心愿单条目已落 notified_at
	var item model.WishlistItem
	require.NoError(t, env.db.Where("user_id = ? AND perfume_id = ?", buyer.ID, perfume.ID).First(&item).Error)
	assert.NotNil(t, item.NotifiedAt)
}

func TestCheckWishlistAvailabilityAlerts_SecondRunIsNoop(t *testing.T) {
	env := newAlertTestEnv(t)
	ctx := context.Background()

	buyer := seedUser(t, env.db, "buyer")
	seller := seedUser(t, env.db, "seller")
	perfume := seedPerfume(t, env.db, "Aventus")
	seedWishlistItem(t, env.db, buyer.ID, perfume.ID)
	seedListing(t, env.db, seller.ID, perfume.ID, 5)

	first, err := env.svc.CheckWishlistAvailabilityAlerts(ctx, perfume.ID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := env.svc.CheckWishlistAvailabilityAlerts(ctx, perfume.ID)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestCheckWishlistAvailabilityAlerts_SkipsSelfSeller(t *testing.T) {
	env := newAlertTestEnv(t)
	ctx := context.Background()

	collector := seedUser(t, env.db, "collector")
	perfume := seedPerfume(t, env.db, "Baccarat Rouge")
	seedWishlistItem(t, env.db, collector.ID, perfume.ID)
	// 自己就是唯一卖家
	seedListing(t, env.db, collector.ID, perfume.ID, 8)

	alerts, err := env.svc.CheckWishlistAvailabilityAlerts(ctx, perfume.ID)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	// 未被标记通知, 其他卖家出现时仍可提醒
	var item model.WishlistItem
	require.NoError(t, env.db.Where("user_id = ? AND perfume_id = ?", collector.ID, perfume.ID).First(&item).Error)
	assert.Nil(t, item.NotifiedAt)
}

func TestCheckWishlistAvailabilityAlerts_NoListings(t *testing.T) {
	env := newAlertTestEnv(t)
	ctx := context.Background()

	buyer := seedUser(t, env.db, "buyer")
	perfume := seedPerfume(t, env.db, "Ghost Perfume")
	seedWishlistItem(t, env.db, buyer.ID, perfume.ID)

	alerts, err := env.svc.CheckWishlistAvailabilityAlerts(ctx, perfume.ID)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestCheckWishlistAvailabilityAlerts_DisabledPreferenceStillMarks(t *testing.T) {
	env := newAlertTestEnv(t)
	ctx := context.Background()

	buyer := seedUser(t, env.db, "quiet")
	seller := seedUser(t, env.db, "seller")
	perfume := seedPerfume(t, env.db, "Portrait of a Lady")
	seedWishlistItem(t, env.db, buyer.ID, perfume.ID)
	seedListing(t, env.db, seller.ID, perfume.ID, 3)

	prefs := model.DefaultAlertPreferences(buyer.ID)
	prefs.WishlistAlertsEnabled = false
	require.NoError(t, env.db.Create(prefs).Error)

	alerts, err := env.svc.CheckWishlistAvailabilityAlerts(ctx, perfume.ID)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	// 即使没发提醒, 条目也算处理过, 避免每轮重扫
	var item model.WishlistItem
	require.NoError(t, env.db.Where("user_id = ? AND perfume_id = ?", buyer.ID, perfume.ID).First(&item).Error)
	assert.NotNil(t, item.NotifiedAt)
}

func TestCheckWishlistAvailabilityAlerts_DedupWindow(t *testing.T) {
	env := newAlertTestEnv(t)
	ctx := context.Background()

	buyer := seedUser(t, env.db, "buyer")
	seller := seedUser(t, env.db, "seller")
	perfume := seedPerfume(t, env.db, "Layton")
	seedWishlistItem(t, env.db, buyer.ID, perfume.ID)
	seedListing(t, env.db, seller.ID, perfume.ID, 2)

	// 窗口期内已有同类活跃提醒
	require.NoError(t, env.db.Create(&model.UserAlert{
		UserID:    buyer.ID,
		PerfumeID: perfume.ID,
		Kind:      model.AlertKindWishlistAvailable,
		Title:     "心愿单香水有货了",
		Message:   "earlier alert",
	}).Error)

	alerts, err := env.svc.CheckWishlistAvailabilityAlerts(ctx, perfume.ID)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestMakeRoomForAlert_DismissesOldest(t *testing.T) {
	env := newAlertTestEnv(t)
	ctx := context.Background()

	buyer := seedUser(t, env.db, "buyer")
	seller := seedUser(t, env.db, "seller")

	prefs := model.DefaultAlertPreferences(buyer.ID)
	prefs.MaxAlerts = 2
	require.NoError(t, env.db.Create(prefs).Error)

	// 先填满提醒位
	other1 := seedPerfume(t, env.db, "Filler One")
	other2 := seedPerfume(t, env.db, "Filler Two")
	require.NoError(t, env.db.Create(&model.UserAlert{
		UserID: buyer.ID, PerfumeID: other1.ID,
		Kind: model.AlertKindWishlistAvailable, Title: "t", Message: "m",
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}).Error)
	require.NoError(t, env.db.Create(&model.UserAlert{
		UserID: buyer.ID, PerfumeID: other2.ID,
		Kind: model.AlertKindWishlistAvailable, Title: "t", Message: "m",
		CreatedAt: time.Now().Add(-time.Hour),
	}).Error)

	perfume := seedPerfume(t, env.db, "New Arrival")
	seedWishlistItem(t, env.db, buyer.ID, perfume.ID)
	seedListing(t, env.db, seller.ID, perfume.ID, 1)

	alerts, err := env.svc.CheckWishlistAvailabilityAlerts(ctx, perfume.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	var active int64
	require.NoError(t, env.db.Model(&model.UserAlert{}).
		Where("user_id = ? AND is_dismissed = ?", buyer.ID, false).Count(&active).Error)
	assert.EqualValues(t, 2, active)

	// 被挤掉的是最旧那条
	var oldest model.UserAlert
	require.NoError(t, env.db.Where("user_id = ? AND perfume_id = ?", buyer.ID, other1.ID).First(&oldest).Error)
	assert.True(t, oldest.IsDismissed)
}

func TestCheckDecantInterestAlerts_NotifiesSellers(t *testing.T) {
	env := newAlertTestEnv(t)
	ctx := context.Background()

	wisher := seedUser(t, env.db, "wisher")
	seller1 := seedUser(t, env.db, "seller-one")
	seller2 := seedUser(t, env.db, "seller-two")
	perfume := seedPerfume(t, env.db, "Interlude Man")
	seedListing(t, env.db, seller1.ID, perfume.ID, 4)
	seedListing(t, env.db, seller2.ID, perfume.ID, 6)

	alerts, err := env.svc.CheckDecantInterestAlerts(ctx, perfume.ID, wisher.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	for _, alert := range alerts {
		assert.Equal(t, model.AlertKindDecantInterest, alert.Kind)
		assert.Equal(t, wisher.ID, alert.Metadata.InterestedUserID)
	}

	// 同一求购者窗口期内不再重复提醒
	again, err := env.svc.CheckDecantInterestAlerts(ctx, perfume.ID, wisher.ID)
	require.NoError(t, err)
	assert.Empty(t, again)

	// 不同求购者各自提醒
	another := seedUser(t, env.db, "another-wisher")
	more, err := env.svc.CheckDecantInterestAlerts(ctx, perfume.ID, another.ID)
	require.NoError(t, err)
	assert.Len(t, more, 2)
}

func TestCheckDecantInterestAlerts_SkipsSelf(t *testing.T) {
	env := newAlertTestEnv(t)
	ctx := context.Background()

	seller := seedUser(t, env.db, "self-seller")
	perfume := seedPerfume(t, env.db, "Reflection Man")
	seedListing(t, env.db, seller.ID, perfume.ID, 2)

	alerts, err := env.svc.CheckDecantInterestAlerts(ctx, perfume.ID, seller.ID)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestMarkReadAndDismiss(t *testing.T) {
	env := newAlertTestEnv(t)
	ctx := context.Background()

	owner := seedUser(t, env.db, "owner")
	stranger := seedUser(t, env.db, "stranger")
	perfume := seedPerfume(t, env.db, "Jubilation XXV")

	alert := &model.UserAlert{
		UserID: owner.ID, PerfumeID: perfume.ID,
		Kind: model.AlertKindWishlistAvailable, Title: "t", Message: "m",
	}
	require.NoError(t, env.db.Create(alert).Error)

	// 他人操作报未找到
	assert.ErrorIs(t, env.svc.MarkRead(ctx, stranger.ID, alert.ID), ErrAlertNotFound)

	require.NoError(t, env.svc.MarkRead(ctx, owner.ID, alert.ID))
	var stored model.UserAlert
	require.NoError(t, env.db.First(&stored, alert.ID).Error)
	assert.True(t, stored.IsRead)
	assert.NotNil(t, stored.ReadAt)

	// 重复已读幂等
	require.NoError(t, env.svc.MarkRead(ctx, owner.ID, alert.ID))

	require.NoError(t, env.svc.Dismiss(ctx, owner.ID, alert.ID))
	require.NoError(t, env.db.First(&stored, alert.ID).Error)
	assert.True(t, stored.IsDismissed)

	assert.ErrorIs(t, env.svc.MarkRead(ctx, owner.ID, 99999), ErrAlertNotFound)
}

func TestGetUnreadCountAndDismissAll(t *testing.T) {
	env := newAlertTestEnv(t)
	ctx := context.Background()

	owner := seedUser(t, env.db, "owner")
	perfume := seedPerfume(t, env.db, "Epic Woman")
	for i := 0; i < 3; i++ {
		require.NoError(t, env.db.Create(&model.UserAlert{
			UserID: owner.ID, PerfumeID: perfume.ID,
			Kind: model.AlertKindWishlistAvailable, Title: "t", Message: "m",
		}).Error)
	}

	count, err := env.svc.GetUnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	require.NoError(t, env.svc.DismissAll(ctx, owner.ID))
	count, err = env.svc.GetUnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdatePreferences_PartialPatch(t *testing.T) {
	env := newAlertTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, env.db, "tuner")

	prefs, err := env.svc.GetPreferences(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, prefs.WishlistAlertsEnabled)
	assert.Equal(t, model.DefaultMaxAlerts, prefs.MaxAlerts)

	disabled := false
	maxAlerts := 5
	prefs, err = env.svc.UpdatePreferences(ctx, user.ID, &dto.AlertPreferencesDTO{
		WishlistAlertsEnabled: &disabled,
		MaxAlerts:             &maxAlerts,
	})
	require.NoError(t, err)
	assert.False(t, prefs.WishlistAlertsEnabled)
	assert.True(t, prefs.DecantAlertsEnabled)
	assert.Equal(t, 5, prefs.MaxAlerts)
}

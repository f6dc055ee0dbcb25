package service

import (
	"Sillage/internal/api/config"
	"Sillage/internal/model"
	cache "Sillage/internal/pkg/redis"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.UserRole{},
		&model.PerfumeHouse{},
		&model.Perfume{},
		&model.Note{},
		&model.PerfumeNote{},
		&model.UserPerfume{},
		&model.WishlistItem{},
		&model.Rating{},
		&model.Review{},
		&model.ScentProfile{},
		&model.UserAlert{},
		&model.AlertPreferences{},
		&model.TraderFeedback{},
		&model.PendingSubmission{},
	))
	return db
}

// newTestRedis 把全局 Redis 客户端指向进程内的 miniredis
func newTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	cache.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	if config.Cfg == nil {
		config.Cfg = &config.Config{
			JWT: config.JWTConfig{Secret: "unit-test-secret", ExpireHours: 1},
		}
	}
	return mr
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	email := username + "@example.com"
	user := &model.User{Username: &username, Email: &email}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPerfume(t *testing.T, db *gorm.DB, name string) *model.Perfume {
	t.Helper()
	perfume := &model.Perfume{Name: name, Slug: name + "-" + uuid.NewString()[:8]}
	require.NoError(t, db.Create(perfume).Error)
	return perfume
}

func seedNote(t *testing.T, db *gorm.DB, name string) *model.Note {
	t.Helper()
	note := &model.Note{Name: name}
	require.NoError(t, db.Create(note).Error)
	return note
}

func linkNotes(t *testing.T, db *gorm.DB, perfumeID uint64, noteIDs ...uint64) {
	t.Helper()
	for _, noteID := range noteIDs {
		require.NoError(t, db.Create(&model.PerfumeNote{
			PerfumeID: perfumeID,
			NoteID:    noteID,
			Layer:     model.NoteLayerMiddle,
		}).Error)
	}
}

func seedListing(t *testing.T, db *gorm.DB, userID, perfumeID uint64, available float64) *model.UserPerfume {
	t.Helper()
	item := &model.UserPerfume{
		UserID:          userID,
		PerfumeID:       perfumeID,
		Amount:          available,
		Available:       available,
		TradePreference: model.TradePreferenceBoth,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func seedWishlistItem(t *testing.T, db *gorm.DB, userID, perfumeID uint64) *model.WishlistItem {
	t.Helper()
	item := &model.WishlistItem{UserID: userID, PerfumeID: perfumeID, IsPublic: true}
	require.NoError(t, db.Create(item).Error)
	return item
}

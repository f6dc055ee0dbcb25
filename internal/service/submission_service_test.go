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

func newSubmissionTestEnv(t *testing.T) (SubmissionService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	newTestRedis(t)

	return NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewHouseRepo(db),
		repository.NewPerfumeRepo(db),
		repository.NewNoteRepository(db),
	), db
}

func TestCreateSubmissionAndList(t *testing.T) {
	svc, db := newSubmissionTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "contributor")

	created, err := svc.CreateSubmission(ctx, user.ID, &dto.CreateSubmissionDTO{
		Name:      "Megamare",
		HouseName: "Orto Parisi",
		Notes:     "Ambergris, Sea Notes",
	})
	require.NoError(t, err)
	assert.EqualValues(t, model.SubmissionStatusPending, created.Status)

	mine, err := svc.GetUserSubmissions(ctx, user.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Megamare", mine[0].Name)

	pending, err := svc.GetPendingSubmissions(ctx, 1, 20)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestReviewSubmission_ApproveCreatesCatalogEntries(t *testing.T) {
	svc, db := newSubmissionTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "contributor")
	admin := seedUser(t, db, "admin")

	created, err := svc.CreateSubmission(ctx, user.ID, &dto.CreateSubmissionDTO{
		Name:      "Naxos",
		HouseName: "Xerjoff",
		Notes:     "Honey, Tobacco, Lavender",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ReviewSubmission(ctx, admin.ID, created.ID, true))

	var house model.PerfumeHouse
	require.NoError(t, db.Where("name = ?", "Xerjoff").First(&house).Error)

	var perfume model.Perfume
	require.NoError(t, db.Where("name = ?", "Naxos").First(&perfume).Error)
	require.NotNil(t, perfume.HouseID)
	assert.Equal(t, house.ID, *perfume.HouseID)

	var relations []model.PerfumeNote
	require.NoError(t, db.Where("perfume_id = ?", perfume.ID).Find(&relations).Error)
	assert.Len(t, relations, 3)

	var submission model.PendingSubmission
	require.NoError(t, db.First(&submission, created.ID).Error)
	assert.EqualValues(t, model.SubmissionStatusApproved, submission.Status)
	require.NotNil(t, submission.ReviewedBy)
	assert.Equal(t, admin.ID, *submission.ReviewedBy)
}

func TestReviewSubmission_ApproveReusesExistingHouse(t *testing.T) {
	svc, db := newSubmissionTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "contributor")
	admin := seedUser(t, db, "admin")
	require.NoError(t, db.Create(&model.PerfumeHouse{Name: "Amouage", Slug: "amouage"}).Error)

	created, err := svc.CreateSubmission(ctx, user.ID, &dto.CreateSubmissionDTO{
		Name:      "Enclave",
		HouseName: "Amouage",
	})
	require.NoError(t, err)
	require.NoError(t, svc.ReviewSubmission(ctx, admin.ID, created.ID, true))

	var houseCount int64
	require.NoError(t, db.Model(&model.PerfumeHouse{}).Where("name = ?", "Amouage").Count(&houseCount).Error)
	assert.EqualValues(t, 1, houseCount)
}

func TestReviewSubmission_Reject(t *testing.T) {
	svc, db := newSubmissionTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "contributor")
	admin := seedUser(t, db, "admin")

	created, err := svc.CreateSubmission(ctx, user.ID, &dto.CreateSubmissionDTO{
		Name:      "Fake Juice",
		HouseName: "Unknown House",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ReviewSubmission(ctx, admin.ID, created.ID, false))

	var submission model.PendingSubmission
	require.NoError(t, db.First(&submission, created.ID).Error)
	assert.EqualValues(t, model.SubmissionStatusRejected, submission.Status)

	// 拒绝不入库
	var perfumeCount int64
	require.NoError(t, db.Model(&model.Perfume{}).Count(&perfumeCount).Error)
	assert.Zero(t, perfumeCount)
}

func TestReviewSubmission_AlreadyReviewed(t *testing.T) {
	svc, db := newSubmissionTestEnv(t)
	ctx := context.Background()

	user := seedUser(t, db, "contributor")
	admin := seedUser(t, db, "admin")

	created, err := svc.CreateSubmission(ctx, user.ID, &dto.CreateSubmissionDTO{
		Name:      "Dubbel Keur",
		HouseName: "Some House",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ReviewSubmission(ctx, admin.ID, created.ID, false))
	assert.ErrorIs(t, svc.ReviewSubmission(ctx, admin.ID, created.ID, true), ErrSubmissionReviewed)

	assert.ErrorIs(t, svc.ReviewSubmission(ctx, admin.ID, 99999, true), ErrSubmissionNotFound)
}

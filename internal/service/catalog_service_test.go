package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 搜索路径依赖 ES, 这里只覆盖走数据库的分支
func newCatalogTestEnv(t *testing.T) (CatalogService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	newTestRedis(t)

	return NewCatalogService(
		repository.NewHouseRepo(db),
		repository.NewPerfumeRepo(db),
		repository.NewNoteRepository(db),
		nil,
	), db
}

func TestCreateHouse(t *testing.T) {
	svc, _ := newCatalogTestEnv(t)
	ctx := context.Background()

	house, err := svc.CreateHouse(ctx, &dto.CreateHouseDTO{
		Name:      "Maison Francis Kurkdjian",
		HouseType: consts.HouseTypeNiche,
	})
	require.NoError(t, err)
	assert.Equal(t, "maison-francis-kurkdjian", house.Slug)

	_, err = svc.CreateHouse(ctx, &dto.CreateHouseDTO{
		Name:      "Maison Francis Kurkdjian",
		HouseType: consts.HouseTypeNiche,
	})
	assert.ErrorIs(t, err, ErrHouseExist)
}

func TestGetHouseAndList(t *testing.T) {
	svc, _ := newCatalogTestEnv(t)
	ctx := context.Background()

	created, err := svc.CreateHouse(ctx, &dto.CreateHouseDTO{Name: "Roja Parfums", HouseType: consts.HouseTypeNiche})
	require.NoError(t, err)
	_, err = svc.CreateHouse(ctx, &dto.CreateHouseDTO{Name: "Chanel", HouseType: "designer"})
	require.NoError(t, err)

	house, err := svc.GetHouse(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roja Parfums", house.Name)

	// 第二次读命中缓存
	house, err = svc.GetHouse(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roja Parfums", house.Name)

	_, err = svc.GetHouse(ctx, 99999)
	assert.ErrorIs(t, err, ErrHouseNotFound)

	niche, err := svc.ListHouses(ctx, consts.HouseTypeNiche, 1, 20)
	require.NoError(t, err)
	require.Len(t, niche, 1)
	assert.Equal(t, "Roja Parfums", niche[0].Name)

	all, err := svc.ListHouses(ctx, "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreatePerfume(t *testing.T) {
	svc, _ := newCatalogTestEnv(t)
	ctx := context.Background()

	house, err := svc.CreateHouse(ctx, &dto.CreateHouseDTO{Name: "Parfums de Marly", HouseType: consts.HouseTypeNiche})
	require.NoError(t, err)

	perfume, err := svc.CreatePerfume(ctx, &dto.CreatePerfumeDTO{Name: "Percival", HouseID: &house.ID})
	require.NoError(t, err)
	assert.Equal(t, "percival", perfume.Slug)
	require.NotNil(t, perfume.House)
	assert.Equal(t, house.ID, perfume.House.ID)

	_, err = svc.CreatePerfume(ctx, &dto.CreatePerfumeDTO{Name: "Percival", HouseID: &house.ID})
	assert.ErrorIs(t, err, ErrPerfumeExist)

	missing := uint64(99999)
	_, err = svc.CreatePerfume(ctx, &dto.CreatePerfumeDTO{Name: "Orphan", HouseID: &missing})
	assert.ErrorIs(t, err, ErrHouseNotFound)
}

func TestGetPerfumeBySlugAndNotes(t *testing.T) {
	svc, _ := newCatalogTestEnv(t)
	ctx := context.Background()

	created, err := svc.CreatePerfume(ctx, &dto.CreatePerfumeDTO{Name: "Delina"})
	require.NoError(t, err)

	require.NoError(t, svc.SetPerfumeNotes(ctx, created.ID, &dto.SetNotesDTO{
		Top:    []string{"Litchi", "Rhubarb"},
		Middle: []string{"Turkish Rose"},
		Base:   []string{"Musk", "Cashmeran"},
	}))

	perfume, err := svc.GetPerfumeBySlug(ctx, "delina")
	require.NoError(t, err)
	assert.Equal(t, created.ID, perfume.ID)
	assert.Len(t, perfume.Notes, 5)

	_, err = svc.GetPerfumeBySlug(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrPerfumeNotFound)
}

func TestSetPerfumeNotes_ReplacesAndDedups(t *testing.T) {
	svc, db := newCatalogTestEnv(t)
	ctx := context.Background()

	created, err := svc.CreatePerfume(ctx, &dto.CreatePerfumeDTO{Name: "Lost Cherry"})
	require.NoError(t, err)

	require.NoError(t, svc.SetPerfumeNotes(ctx, created.ID, &dto.SetNotesDTO{
		Top: []string{"Cherry"}, Base: []string{"Tonka"},
	}))
	// 同名香调跨层只保留首次出现的层
	require.NoError(t, svc.SetPerfumeNotes(ctx, created.ID, &dto.SetNotesDTO{
		Top: []string{"Cherry"}, Middle: []string{"Cherry", "Almond"},
	}))

	var relations []model.PerfumeNote
	require.NoError(t, db.Where("perfume_id = ?", created.ID).Find(&relations).Error)
	assert.Len(t, relations, 2)

	// 香调不会重复建档
	var noteCount int64
	require.NoError(t, db.Model(&model.Note{}).Where("name = ?", "Cherry").Count(&noteCount).Error)
	assert.EqualValues(t, 1, noteCount)
}

func TestUpdateAndDeletePerfume(t *testing.T) {
	svc, _ := newCatalogTestEnv(t)
	ctx := context.Background()

	created, err := svc.CreatePerfume(ctx, &dto.CreatePerfumeDTO{Name: "Old Name"})
	require.NoError(t, err)

	newName := "New Name"
	require.NoError(t, svc.UpdatePerfume(ctx, created.ID, &dto.UpdatePerfumeDTO{Name: &newName}))

	perfume, err := svc.GetPerfumeBySlug(ctx, "new-name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", perfume.Name)

	require.NoError(t, svc.DeletePerfume(ctx, created.ID))
	err = svc.DeletePerfume(ctx, created.ID)
	assert.ErrorIs(t, err, ErrPerfumeNotFound)
}

func TestListPerfumesByHouse(t *testing.T) {
	svc, _ := newCatalogTestEnv(t)
	ctx := context.Background()

	house, err := svc.CreateHouse(ctx, &dto.CreateHouseDTO{Name: "Initio", HouseType: consts.HouseTypeNiche})
	require.NoError(t, err)
	_, err = svc.CreatePerfume(ctx, &dto.CreatePerfumeDTO{Name: "Oud for Greatness", HouseID: &house.ID})
	require.NoError(t, err)
	_, err = svc.CreatePerfume(ctx, &dto.CreatePerfumeDTO{Name: "Homeless Perfume"})
	require.NoError(t, err)

	byHouse, err := svc.ListPerfumes(ctx, house.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, byHouse, 1)
	assert.Equal(t, "Oud for Greatness", byHouse[0].Name)

	all, err := svc.ListPerfumes(ctx, 0, 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetLatestFeed_BadCursor(t *testing.T) {
	svc, _ := newCatalogTestEnv(t)

	_, _, err := svc.GetLatestFeed(context.Background(), "not base64!!", 20)
	assert.ErrorIs(t, err, ErrParamInvalid)
}

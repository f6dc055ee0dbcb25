package repository

import (
	"Sillage/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type HouseRepo interface {
	GetHouseById(ctx context.Context, id uint64) (*model.PerfumeHouse, error)
	GetHouseBySlug(ctx context.Context, slug string) (*model.PerfumeHouse, error)
	GetHouseByName(ctx context.Context, name string) (*model.PerfumeHouse, error)
	ListHouses(ctx context.Context, houseType string, offset, limit int) ([]*model.PerfumeHouse, error)
	CreateHouse(ctx context.Context, house *model.PerfumeHouse) error
	UpdateHouse(ctx context.Context, house *model.PerfumeHouse) error
}

type houseRepoImpl struct {
	db *gorm.DB
}

func NewHouseRepo(db *gorm.DB) HouseRepo {
	return &houseRepoImpl{db: db}
}

func (s *houseRepoImpl) GetHouseById(ctx context.Context, id uint64) (*model.PerfumeHouse, error) {
	house := &model.PerfumeHouse{}
	result := s.db.WithContext(ctx).First(house, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return house, nil
}

func (s *houseRepoImpl) GetHouseBySlug(ctx context.Context, slug string) (*model.PerfumeHouse, error) {
	house := &model.PerfumeHouse{}
	result := s.db.WithContext(ctx).Where("slug = ?", slug).First(house)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return house, nil
}

func (s *houseRepoImpl) GetHouseByName(ctx context.Context, name string) (*model.PerfumeHouse, error) {
	house := &model.PerfumeHouse{}
	result := s.db.WithContext(ctx).Where("name = ?", name).First(house)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return house, nil
}

func (s *houseRepoImpl) ListHouses(ctx context.Context, houseType string, offset, limit int) ([]*model.PerfumeHouse, error) {
	houses := make([]*model.PerfumeHouse, 0)
	query := s.db.WithContext(ctx).Model(&model.PerfumeHouse{})
	if houseType != "" {
		query = query.Where("house_type = ?", houseType)
	}
	result := query.Order("name asc").Offset(offset).Limit(limit).Find(&houses)
	if result.Error != nil {
		return nil, result.Error
	}
	return houses, nil
}

func (s *houseRepoImpl) CreateHouse(ctx context.Context, house *model.PerfumeHouse) error {
	return s.db.WithContext(ctx).Create(house).Error
}

func (s *houseRepoImpl) UpdateHouse(ctx context.Context, house *model.PerfumeHouse) error {
	return s.db.WithContext(ctx).Model(&model.PerfumeHouse{}).Where("id = ?", house.ID).Updates(house).Error
}

package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/repository"
	"context"
	log "log/slog"
)

type InventoryService interface {
	UpsertListing(ctx context.Context, userID uint64, dto *dto.UpsertListingDTO) error
	RemoveListing(ctx context.Context, userID, perfumeID uint64) error
	GetUserInventory(ctx context.Context, userID uint64) ([]*dto.ListingDTO, error)
	GetPerfumeSellers(ctx context.Context, perfumeID uint64) ([]*dto.SellerDTO, error)
}

type InventoryServiceImpl struct {
	inventoryRepo  repository.InventoryRepo
	perfumeRepo    repository.PerfumeRepo
	alertService   AlertService
	profileService ScentProfileService
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepo,
	perfumeRepo repository.PerfumeRepo,
	alertService AlertService,
	profileService ScentProfileService,
) InventoryService {
	return &InventoryServiceImpl{
		inventoryRepo:  inventoryRepo,
		perfumeRepo:    perfumeRepo,
		alertService:   alertService,
		profileService: profileService,
	}
}

// UpsertListing 保存持有条目. 首次入柜视作收藏事件驱动画像,
// 出现可出量时内联触发心愿单到货匹配
func (s *InventoryServiceImpl) UpsertListing(ctx context.Context, userID uint64, listingDTO *dto.UpsertListingDTO) error {
	if listingDTO.Available > listingDTO.Amount {
		return ErrListingInvalid
	}
	perfume, err := s.perfumeRepo.GetPerfumeById(ctx, listingDTO.PerfumeID)
	if err != nil {
		return err
	}
	if perfume == nil {
		return ErrPerfumeNotFound
	}

	existing, err := s.inventoryRepo.GetByUserAndPerfume(ctx, userID, listingDTO.PerfumeID)
	if err != nil {
		return err
	}

	item := &model.UserPerfume{
		UserID:          userID,
		PerfumeID:       listingDTO.PerfumeID,
		Amount:          listingDTO.Amount,
		Available:       listingDTO.Available,
		Price:           listingDTO.Price,
		TradePreference: listingDTO.TradePreference,
		TradeOnly:       listingDTO.TradeOnly,
	}
	err = s.inventoryRepo.UpsertUserPerfume(ctx, item)
	if err != nil {
		return err
	}

	if existing == nil {
		if _, err = s.profileService.ApplyBehaviorEvent(ctx, userID, BehaviorEvent{
			Kind:      consts.BehaviorEventCollection,
			PerfumeID: listingDTO.PerfumeID,
		}); err != nil {
			log.WarnContext(ctx, "收藏画像打分失败", "userId", userID, "perfumeId", listingDTO.PerfumeID, "err", err)
		}
	}

	if listingDTO.Available > 0 {
		if _, err = s.alertService.CheckWishlistAvailabilityAlerts(ctx, listingDTO.PerfumeID); err != nil {
			log.WarnContext(ctx, "到货提醒触发失败", "perfumeId", listingDTO.PerfumeID, "err", err)
		}
	}

	return nil
}

func (s *InventoryServiceImpl) RemoveListing(ctx context.Context, userID, perfumeID uint64) error {
	affected, err := s.inventoryRepo.DeleteUserPerfume(ctx, userID, perfumeID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrListingNotFound
	}
	return nil
}

func (s *InventoryServiceImpl) GetUserInventory(ctx context.Context, userID uint64) ([]*dto.ListingDTO, error) {
	items, err := s.inventoryRepo.GetUserInventory(ctx, userID)
	if err != nil {
		return nil, err
	}
	listingDTOs := make([]*dto.ListingDTO, 0, len(items))
	for _, item := range items {
		listingDTO := &dto.ListingDTO{
			PerfumeID:       item.PerfumeID,
			Amount:          item.Amount,
			Available:       item.Available,
			Price:           item.Price,
			TradePreference: item.TradePreference,
			TradeOnly:       item.TradeOnly,
			UpdatedAt:       item.UpdatedAt,
		}
		listingDTO.Perfume = &dto.PerfumeDTO{
			ID:        item.Perfume.ID,
			Name:      item.Perfume.Name,
			Slug:      item.Perfume.Slug,
			CreatedAt: item.Perfume.CreatedAt,
		}
		if item.Perfume.House != nil {
			listingDTO.Perfume.House = toHouseDTO(item.Perfume.House)
		}
		listingDTOs = append(listingDTOs, listingDTO)
	}
	return listingDTOs, nil
}

func (s *InventoryServiceImpl) GetPerfumeSellers(ctx context.Context, perfumeID uint64) ([]*dto.SellerDTO, error) {
	listings, err := s.inventoryRepo.GetAvailableByPerfume(ctx, perfumeID)
	if err != nil {
		return nil, err
	}
	sellers := make([]*dto.SellerDTO, 0, len(listings))
	for _, listing := range listings {
		sellers = append(sellers, &dto.SellerDTO{
			UserID:      listing.UserID,
			DisplayName: listing.User.DisplayName(),
			Available:   listing.Available,
			Price:       listing.Price,
			TradeOnly:   listing.TradeOnly,
		})
	}
	return sellers, nil
}

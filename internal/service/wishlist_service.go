package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/repository"
	"context"
	log "log/slog"
)

type WishlistService interface {
	AddToWishlist(ctx context.Context, userID uint64, dto *dto.AddWishlistDTO) error
	RemoveFromWishlist(ctx context.Context, userID, perfumeID uint64) error
	SetVisibility(ctx context.Context, userID, perfumeID uint64, isPublic bool) error
	GetWishlist(ctx context.Context, userID uint64) ([]*dto.WishlistItemDTO, error)
}

type WishlistServiceImpl struct {
	wishlistRepo  repository.WishlistRepo
	inventoryRepo repository.InventoryRepo
	perfumeRepo   repository.PerfumeRepo
	alertService  AlertService
	profileService ScentProfileService
}

func NewWishlistService(
	wishlistRepo repository.WishlistRepo,
	inventoryRepo repository.InventoryRepo,
	perfumeRepo repository.PerfumeRepo,
	alertService AlertService,
	profileService ScentProfileService,
) WishlistService {
	return &WishlistServiceImpl{
		wishlistRepo:   wishlistRepo,
		inventoryRepo:  inventoryRepo,
		perfumeRepo:    perfumeRepo,
		alertService:   alertService,
		profileService: profileService,
	}
}

// AddToWishlist 加入心愿单, 并内联触发求购提醒与画像打分.
// 两个副作用都是尽力而为, 失败不影响主操作
func (s *WishlistServiceImpl) AddToWishlist(ctx context.Context, userID uint64, addDTO *dto.AddWishlistDTO) error {
	perfume, err := s.perfumeRepo.GetPerfumeById(ctx, addDTO.PerfumeID)
	if err != nil {
		return err
	}
	if perfume == nil {
		return ErrPerfumeNotFound
	}

	item := &model.WishlistItem{
		UserID:    userID,
		PerfumeID: addDTO.PerfumeID,
		IsPublic:  addDTO.IsPublic,
	}
	err = s.wishlistRepo.CreateItem(ctx, item)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return ErrWishlistExist
		}
		return err
	}

	if _, err = s.alertService.CheckDecantInterestAlerts(ctx, addDTO.PerfumeID, userID); err != nil {
		log.WarnContext(ctx, "求购提醒触发失败", "userId", userID, "perfumeId", addDTO.PerfumeID, "err", err)
	}

	if _, err = s.profileService.ApplyBehaviorEvent(ctx, userID, BehaviorEvent{
		Kind:      consts.BehaviorEventWishlist,
		PerfumeID: addDTO.PerfumeID,
	}); err != nil {
		log.WarnContext(ctx, "心愿单画像打分失败", "userId", userID, "perfumeId", addDTO.PerfumeID, "err", err)
	}

	return nil
}

func (s *WishlistServiceImpl) RemoveFromWishlist(ctx context.Context, userID, perfumeID uint64) error {
	affected, err := s.wishlistRepo.DeleteItem(ctx, userID, perfumeID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWishlistNotFound
	}
	return nil
}

func (s *WishlistServiceImpl) SetVisibility(ctx context.Context, userID, perfumeID uint64, isPublic bool) error {
	affected, err := s.wishlistRepo.UpdateVisibility(ctx, userID, perfumeID, isPublic)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWishlistNotFound
	}
	return nil
}

// GetWishlist 心愿单列表, 顺带标出每支香水当前的货源
func (s *WishlistServiceImpl) GetWishlist(ctx context.Context, userID uint64) ([]*dto.WishlistItemDTO, error) {
	items, err := s.wishlistRepo.GetUserWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	itemDTOs := make([]*dto.WishlistItemDTO, 0, len(items))
	for _, item := range items {
		itemDTO := &dto.WishlistItemDTO{
			PerfumeID:  item.PerfumeID,
			IsPublic:   item.IsPublic,
			NotifiedAt: item.NotifiedAt,
			CreatedAt:  item.CreatedAt,
		}
		itemDTO.Perfume = &dto.PerfumeDTO{
			ID:        item.Perfume.ID,
			Name:      item.Perfume.Name,
			Slug:      item.Perfume.Slug,
			CreatedAt: item.Perfume.CreatedAt,
		}
		if item.Perfume.House != nil {
			itemDTO.Perfume.House = toHouseDTO(item.Perfume.House)
		}

		listings, err := s.inventoryRepo.GetAvailableByPerfume(ctx, item.PerfumeID)
		if err != nil {
			return nil, err
		}
		sellers := make([]dto.SellerDTO, 0, len(listings))
		for _, listing := range listings {
			if listing.UserID == userID {
				continue
			}
			sellers = append(sellers, dto.SellerDTO{
				UserID:      listing.UserID,
				DisplayName: listing.User.DisplayName(),
				Available:   listing.Available,
				Price:       listing.Price,
				TradeOnly:   listing.TradeOnly,
			})
		}
		itemDTO.Sellers = sellers
		itemDTOs = append(itemDTOs, itemDTO)
	}
	return itemDTOs, nil
}

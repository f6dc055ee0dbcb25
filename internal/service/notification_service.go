package service

import (
	"Sillage/internal/model"
	"Sillage/internal/repository"
	"context"
	log "log/slog"
)

// NotificationResult 批处理确认送达的一条通知
type NotificationResult struct {
	UserID      uint64             `json:"user_id"`
	PerfumeID   uint64             `json:"perfume_id"`
	PerfumeName string             `json:"perfume_name"`
	Sellers     []model.SellerInfo `json:"sellers"`
}

type NotificationService interface {
	ProcessWishlistNotifications(ctx context.Context) ([]*NotificationResult, error)
}

type NotificationServiceImpl struct {
	wishlistRepo repository.WishlistRepo
	perfumeRepo  repository.PerfumeRepo
	alertService AlertService
}

func NewNotificationService(
	wishlistRepo repository.WishlistRepo,
	perfumeRepo repository.PerfumeRepo,
	alertService AlertService,
) NotificationService {
	return &NotificationServiceImpl{
		wishlistRepo: wishlistRepo,
		perfumeRepo:  perfumeRepo,
		alertService: alertService,
	}
}

// ProcessWishlistNotifications 全量扫描 (未通知心愿单 × 有货) 组合,
// 按香水复用在线匹配逻辑. 单条失败只记日志不中断整轮
func (s *NotificationServiceImpl) ProcessWishlistNotifications(ctx context.Context) ([]*NotificationResult, error) {
	pending, err := s.wishlistRepo.GetPendingNotifications(ctx)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return []*NotificationResult{}, nil
	}

	// 去重出待处理的香水集合, 每支只匹配一次
	perfumeIDs := make([]uint64, 0)
	perfumeNames := make(map[uint64]string)
	for _, entry := range pending {
		if _, ok := perfumeNames[entry.PerfumeID]; ok {
			continue
		}
		perfumeIDs = append(perfumeIDs, entry.PerfumeID)
		perfumeNames[entry.PerfumeID] = entry.Perfume.Name
	}

	results := make([]*NotificationResult, 0, len(pending))
	for _, perfumeID := range perfumeIDs {
		alerts, err := s.alertService.CheckWishlistAvailabilityAlerts(ctx, perfumeID)
		if err != nil {
			log.ErrorContext(ctx, "心愿单批量通知单支香水处理失败",
				"perfumeId", perfumeID, "err", err)
			continue
		}
		for _, alert := range alerts {
			results = append(results, &NotificationResult{
				UserID:      alert.UserID,
				PerfumeID:   alert.PerfumeID,
				PerfumeName: perfumeNames[alert.PerfumeID],
				Sellers:     alert.Metadata.Sellers,
			})
		}
	}

	log.InfoContext(ctx, "心愿单批量通知完成",
		"pendingPairs", len(pending), "perfumes", len(perfumeIDs), "notified", len(results))
	return results, nil
}

package job

import (
	"Sillage/internal/pkg/consts"
	"Sillage/internal/pkg/logger"
	"Sillage/internal/pkg/redis"
	"Sillage/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// WishlistNotificationJob 周期性扫描 (未通知心愿单 × 有货) 组合并发提醒.
// 分布式锁保证同一时刻只有一个实例在跑, 抢不到锁直接放弃本轮
type WishlistNotificationJob struct {
	notificationSvc service.NotificationService
}

func NewWishlistNotificationJob(notificationSvc service.NotificationService) *WishlistNotificationJob {
	return &WishlistNotificationJob{
		notificationSvc: notificationSvc,
	}
}

func (s *WishlistNotificationJob) Run() {
	traceID := "job-wishlist-notification-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	lockVal := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.WishlistNotificationLock, lockVal, time.Minute*5, 0)
	if err != nil {
		log.ErrorContext(ctx, "wishlist notification lock error", "err", err)
		return
	}
	if !locked {
		return
	}
	defer redis.UnLock(ctx, consts.WishlistNotificationLock, lockVal)

	results, err := s.notificationSvc.ProcessWishlistNotifications(ctx)
	if err != nil {
		log.ErrorContext(ctx, "process wishlist notifications error", "err", err)
		return
	}

	log.InfoContext(ctx, "wishlist notification batch done", "notified", len(results))
}

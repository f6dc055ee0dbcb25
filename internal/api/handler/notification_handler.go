package handler

import (
	"Sillage/internal/pkg/consts"
	"Sillage/internal/pkg/redis"
	"Sillage/internal/pkg/response"
	"Sillage/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// TriggerWishlistBatch 手动触发一轮心愿单到货批处理, 与定时任务抢同一把锁.
// 同步执行并返回本轮产生的提醒明细
func (s *NotificationHandler) TriggerWishlistBatch(c *gin.Context) {
	ctx := c.Request.Context()

	lockVal := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.WishlistNotificationLock, lockVal, time.Minute*5, 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !locked {
		response.Fail(c, response.BadRequest, "上一轮批处理尚未结束")
		return
	}
	defer redis.UnLock(ctx, consts.WishlistNotificationLock, lockVal)

	results, err := s.notificationSvc.ProcessWishlistNotifications(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, map[string]interface{}{
		"notified": len(results),
		"results":  results,
	})
}

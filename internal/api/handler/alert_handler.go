package handler

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/pkg/response"
	"Sillage/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	alertSvc service.AlertService
}

func NewAlertHandler(alertSvc service.AlertService) *AlertHandler {
	return &AlertHandler{alertSvc: alertSvc}
}

func (s *AlertHandler) GetAlerts(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	res, err := s.alertSvc.GetAlerts(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *AlertHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")
	count, err := s.alertSvc.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{
		"unread_count": count,
	})
}

func (s *AlertHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	alertID, err := strconv.ParseUint(c.Param("alert_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.alertSvc.MarkRead(c.Request.Context(), userID, alertID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AlertHandler) Dismiss(c *gin.Context) {
	userID := c.GetUint64("user_id")
	alertID, err := strconv.ParseUint(c.Param("alert_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.alertSvc.Dismiss(c.Request.Context(), userID, alertID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AlertHandler) DismissAll(c *gin.Context) {
	userID := c.GetUint64("user_id")
	err := s.alertSvc.DismissAll(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AlertHandler) GetPreferences(c *gin.Context) {
	userID := c.GetUint64("user_id")
	prefs, err := s.alertSvc.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, prefs)
}

// UpdatePreferences 部分更新, 只覆盖请求里出现的开关
func (s *AlertHandler) UpdatePreferences(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var prefsDTO dto.AlertPreferencesDTO
	err := c.ShouldBind(&prefsDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	prefs, err := s.alertSvc.UpdatePreferences(c.Request.Context(), userID, &prefsDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, prefs)
}

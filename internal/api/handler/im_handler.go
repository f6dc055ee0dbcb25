package handler

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/pkg/response"
	"Sillage/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type IMHandler struct {
	imService service.IMService
}

func NewIMHandler(imService service.IMService) *IMHandler {
	return &IMHandler{imService: imService}
}

// CreateConversation 围绕某支香水和卖家开启会话, 已存在则复用
func (s *IMHandler) CreateConversation(c *gin.Context) {
	userID := c.GetUint64("user_id")
	targetUserID, _ := strconv.ParseUint(c.Query("target_user_id"), 10, 64)
	perfumeID, _ := strconv.ParseUint(c.Query("perfume_id"), 10, 64)
	if targetUserID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	convID, err := s.imService.GetOrCreateConversation(c.Request.Context(), userID, targetUserID, perfumeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]uint64{
		"conversation_id": convID,
	})
}

// SendMessage 发送消息接口
func (s *IMHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	senderID := c.GetUint64("user_id")

	res, err := s.imService.SendMessage(c.Request.Context(), senderID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// MarkAsRead 标记已读接口
func (s *IMHandler) MarkAsRead(c *gin.Context) {
	var req dto.MarkAsReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	err := s.imService.MarkAsRead(c.Request.Context(), userID, req.ConversationID, req.Sequence)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// GetChatHistory 获取历史消息
func (s *IMHandler) GetChatHistory(c *gin.Context) {
	userID := c.GetUint64("user_id")
	convID, _ := strconv.ParseUint(c.Query("conversation_id"), 10, 64)
	lastSeq, _ := strconv.ParseUint(c.Query("last_seq"), 10, 64)
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	res, err := s.imService.GetChatHistory(c.Request.Context(), userID, convID, lastSeq, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetConversationList 获取会话列表
func (s *IMHandler) GetConversationList(c *gin.Context) {
	userID := c.GetUint64("user_id")
	res, err := s.imService.GetConversationList(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

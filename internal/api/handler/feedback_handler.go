package handler

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/pkg/response"
	"Sillage/internal/pkg/util"
	"Sillage/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackSvc service.FeedbackService
}

func NewFeedbackHandler(feedbackSvc service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackSvc: feedbackSvc}
}

// SubmitFeedback 对交易对手评分, 同一对 (评价人, 被评人) 重复提交为覆盖
func (s *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	raterID := c.GetUint64("user_id")
	var feedbackDTO dto.FeedbackDTO
	err := c.ShouldBind(&feedbackDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = util.ValidateDTO(&feedbackDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.feedbackSvc.SubmitFeedback(c.Request.Context(), raterID, &feedbackDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *FeedbackHandler) GetTraderFeedbacks(c *gin.Context) {
	traderID, err := strconv.ParseUint(c.Param("trader_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	res, err := s.feedbackSvc.GetTraderFeedbacks(c.Request.Context(), traderID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *FeedbackHandler) GetTraderScore(c *gin.Context) {
	traderID, err := strconv.ParseUint(c.Param("trader_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	res, err := s.feedbackSvc.GetTraderScore(c.Request.Context(), traderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

package handler

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/pkg/response"
	"Sillage/internal/pkg/util"
	"Sillage/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewSvc service.ReviewService
}

func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

func (s *ReviewHandler) CreateReview(c *gin.Context) {
	userID := c.GetUint64("user_id")
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var reviewDTO dto.CreateReviewDTO
	if err = c.ShouldBind(&reviewDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&reviewDTO); err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.reviewSvc.CreateReview(c.Request.Context(), userID, perfumeID, &reviewDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ReviewHandler) GetPerfumeReviews(c *gin.Context) {
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	res, err := s.reviewSvc.GetPerfumeReviews(c.Request.Context(), perfumeID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetPendingReviews 待人工复核队列, 按提交时间先进先出
func (s *ReviewHandler) GetPendingReviews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	res, err := s.reviewSvc.GetPendingReviews(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ReviewHandler) ModerateReview(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("review_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var moderateDTO dto.ModerateReviewDTO
	if err = c.ShouldBind(&moderateDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.reviewSvc.ModerateReview(c.Request.Context(), reviewID, moderateDTO.Approve)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ReviewHandler) DeleteReview(c *gin.Context) {
	userID := c.GetUint64("user_id")
	reviewID, err := strconv.ParseUint(c.Param("review_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.reviewSvc.DeleteReview(c.Request.Context(), userID, reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

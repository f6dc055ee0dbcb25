package handler

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/pkg/response"
	"Sillage/internal/pkg/util"
	"Sillage/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingSvc service.RatingService
}

func NewRatingHandler(ratingSvc service.RatingService) *RatingHandler {
	return &RatingHandler{ratingSvc: ratingSvc}
}

func (s *RatingHandler) RatePerfume(c *gin.Context) {
	userID := c.GetUint64("user_id")
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var rateDTO dto.RateDTO
	if err = c.ShouldBind(&rateDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&rateDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.ratingSvc.RatePerfume(c.Request.Context(), userID, perfumeID, &rateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *RatingHandler) GetMyRating(c *gin.Context) {
	userID := c.GetUint64("user_id")
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	rating, err := s.ratingSvc.GetUserRating(c.Request.Context(), userID, perfumeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rating)
}

// GetPerfumeRatingSummary 聚合均分, 无人评分时各维度为 0
func (s *RatingHandler) GetPerfumeRatingSummary(c *gin.Context) {
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	res, err := s.ratingSvc.GetPerfumeRatingSummary(c.Request.Context(), perfumeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

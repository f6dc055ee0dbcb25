package handler

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/pkg/response"
	"Sillage/internal/pkg/util"
	"Sillage/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type WishlistHandler struct {
	wishlistSvc service.WishlistService
}

func NewWishlistHandler(wishlistSvc service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistSvc: wishlistSvc}
}

func (s *WishlistHandler) AddToWishlist(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var addDTO dto.AddWishlistDTO
	err := c.ShouldBind(&addDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = util.ValidateDTO(&addDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.wishlistSvc.AddToWishlist(c.Request.Context(), userID, &addDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	userID := c.GetUint64("user_id")
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.wishlistSvc.RemoveFromWishlist(c.Request.Context(), userID, perfumeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *WishlistHandler) SetVisibility(c *gin.Context) {
	userID := c.GetUint64("user_id")
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var visibilityDTO dto.WishlistVisibilityDTO
	if err = c.ShouldBind(&visibilityDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.wishlistSvc.SetVisibility(c.Request.Context(), userID, perfumeID, visibilityDTO.IsPublic)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *WishlistHandler) GetWishlist(c *gin.Context) {
	userID := c.GetUint64("user_id")
	res, err := s.wishlistSvc.GetWishlist(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

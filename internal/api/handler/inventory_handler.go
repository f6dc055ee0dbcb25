package handler

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/pkg/response"
	"Sillage/internal/pkg/util"
	"Sillage/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventorySvc service.InventoryService
}

func NewInventoryHandler(inventorySvc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventorySvc: inventorySvc}
}

// UpsertListing 新建或覆盖一条持有记录
func (s *InventoryHandler) UpsertListing(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var listingDTO dto.UpsertListingDTO
	err := c.ShouldBind(&listingDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = util.ValidateDTO(&listingDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.inventorySvc.UpsertListing(c.Request.Context(), userID, &listingDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *InventoryHandler) RemoveListing(c *gin.Context) {
	userID := c.GetUint64("user_id")
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.inventorySvc.RemoveListing(c.Request.Context(), userID, perfumeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *InventoryHandler) GetMyInventory(c *gin.Context) {
	userID := c.GetUint64("user_id")
	res, err := s.inventorySvc.GetUserInventory(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetPerfumeSellers 某支香水当前有货的卖家
func (s *InventoryHandler) GetPerfumeSellers(c *gin.Context) {
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	res, err := s.inventorySvc.GetPerfumeSellers(c.Request.Context(), perfumeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

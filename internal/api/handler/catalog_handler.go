package handler

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/pkg/response"
	"Sillage/internal/pkg/util"
	"Sillage/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogSvc service.CatalogService
}

func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

func (s *CatalogHandler) CreateHouse(c *gin.Context) {
	var houseDTO dto.CreateHouseDTO
	err := c.ShouldBind(&houseDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = util.ValidateDTO(&houseDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.catalogSvc.CreateHouse(c.Request.Context(), &houseDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CatalogHandler) GetHouse(c *gin.Context) {
	houseID, err := strconv.ParseUint(c.Param("house_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	res, err := s.catalogSvc.GetHouse(c.Request.Context(), houseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CatalogHandler) ListHouses(c *gin.Context) {
	houseType := c.Query("type")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	res, err := s.catalogSvc.ListHouses(c.Request.Context(), houseType, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CatalogHandler) CreatePerfume(c *gin.Context) {
	var perfumeDTO dto.CreatePerfumeDTO
	err := c.ShouldBind(&perfumeDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = util.ValidateDTO(&perfumeDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.catalogSvc.CreatePerfume(c.Request.Context(), &perfumeDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CatalogHandler) GetPerfume(c *gin.Context) {
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	res, err := s.catalogSvc.GetPerfume(c.Request.Context(), perfumeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CatalogHandler) GetPerfumeBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	res, err := s.catalogSvc.GetPerfumeBySlug(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CatalogHandler) ListPerfumes(c *gin.Context) {
	houseID, _ := strconv.ParseUint(c.Query("house_id"), 10, 64)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	res, err := s.catalogSvc.ListPerfumes(c.Request.Context(), houseID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CatalogHandler) UpdatePerfume(c *gin.Context) {
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var updateDTO dto.UpdatePerfumeDTO
	if err = c.ShouldBind(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.catalogSvc.UpdatePerfume(c.Request.Context(), perfumeID, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SetPerfumeNotes 整体替换三层香调
func (s *CatalogHandler) SetPerfumeNotes(c *gin.Context) {
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var notesDTO dto.SetNotesDTO
	if err = c.ShouldBind(&notesDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.catalogSvc.SetPerfumeNotes(c.Request.Context(), perfumeID, &notesDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CatalogHandler) DeletePerfume(c *gin.Context) {
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.catalogSvc.DeletePerfume(c.Request.Context(), perfumeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CatalogHandler) SearchPerfumes(c *gin.Context) {
	var searchDTO dto.SearchPerfumeDTO
	if err := c.ShouldBindQuery(&searchDTO); err != nil {
		response.Error(c, err)
		return
	}
	if searchDTO.Keyword == "" && len(searchDTO.Notes) == 0 {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	res, err := s.catalogSvc.SearchPerfumes(c.Request.Context(), &searchDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CatalogHandler) GetSuggestions(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	res, err := s.catalogSvc.GetSuggestions(c.Request.Context(), keyword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CatalogHandler) GetLatestPerfumes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	res, err := s.catalogSvc.GetLatestPerfumes(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetLatestFeed 游标分页的新品流
func (s *CatalogHandler) GetLatestFeed(c *gin.Context) {
	cursor := c.Query("cursor")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	res, nextCursor, err := s.catalogSvc.GetLatestFeed(c.Request.Context(), cursor, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]interface{}{
		"perfumes":    res,
		"next_cursor": nextCursor,
	})
}

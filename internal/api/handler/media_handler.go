package handler

import (
	"Sillage/internal/pkg/consts"
	"Sillage/internal/pkg/minio"
	"Sillage/internal/pkg/response"
	"Sillage/internal/pkg/util"
	"Sillage/internal/service"
	log "log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MediaHandler struct {
	catalogSvc service.CatalogService
}

func NewMediaHandler(catalogSvc service.CatalogService) *MediaHandler {
	return &MediaHandler{catalogSvc: catalogSvc}
}

// UploadPerfumeImage 上传香水主图, 以文件头嗅探校验类型后入 MinIO
func (s *MediaHandler) UploadPerfumeImage(c *gin.Context) {
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}

	file, err := c.FormFile("file")
	if err != nil || file == nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() {
		_ = reader.Close()
	}()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	ext := path.Ext(file.Filename)
	objectName := "perfumes/" + time.Now().Format("2006/01/02/") + uuid.NewString() + ext

	fileKey, err := minio.UploadFile(c.Request.Context(), objectName, reader, file.Size, contentType)
	if err != nil {
		log.ErrorContext(c, "MinIO upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	err = s.catalogSvc.UpdatePerfumeImage(c.Request.Context(), perfumeID, fileKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, map[string]string{
		"url": minio.GetPublicURL(fileKey),
	})
}

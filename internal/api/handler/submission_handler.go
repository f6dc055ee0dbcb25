package handler

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/pkg/response"
	"Sillage/internal/pkg/util"
	"Sillage/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// CreateSubmission 用户投稿缺失的香水条目
func (s *SubmissionHandler) CreateSubmission(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var submissionDTO dto.CreateSubmissionDTO
	err := c.ShouldBind(&submissionDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = util.ValidateDTO(&submissionDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.submissionSvc.CreateSubmission(c.Request.Context(), userID, &submissionDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *SubmissionHandler) GetMySubmissions(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	res, err := s.submissionSvc.GetUserSubmissions(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *SubmissionHandler) GetPendingSubmissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	res, err := s.submissionSvc.GetPendingSubmissions(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ReviewSubmission 管理员审核, 通过后自动落正式条目
func (s *SubmissionHandler) ReviewSubmission(c *gin.Context) {
	reviewerID := c.GetUint64("user_id")
	submissionID, err := strconv.ParseUint(c.Param("submission_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var reviewDTO dto.ReviewSubmissionDTO
	if err = c.ShouldBind(&reviewDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.submissionSvc.ReviewSubmission(c.Request.Context(), reviewerID, submissionID, reviewDTO.Approve)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

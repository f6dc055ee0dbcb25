package handler

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/pkg/response"
	"Sillage/internal/pkg/util"
	"Sillage/internal/service"

	"github.com/gin-gonic/gin"
)

type ScentProfileHandler struct {
	profileSvc service.ScentProfileService
}

func NewScentProfileHandler(profileSvc service.ScentProfileService) *ScentProfileHandler {
	return &ScentProfileHandler{profileSvc: profileSvc}
}

func (s *ScentProfileHandler) GetMyProfile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	res, err := s.profileSvc.GetProfileDTO(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SubmitQuiz 偏好问卷, 未作答的题目保持画像原值
func (s *ScentProfileHandler) SubmitQuiz(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var quizDTO dto.QuizDTO
	err := c.ShouldBind(&quizDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = util.ValidateDTO(&quizDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err = s.profileSvc.ApplyQuiz(c.Request.Context(), userID, &quizDTO); err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.profileSvc.GetProfileDTO(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

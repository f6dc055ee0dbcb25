package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/pkg/redis"
	"Sillage/internal/pkg/util"
	"Sillage/internal/repository"
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type SubmissionService interface {
	CreateSubmission(ctx context.Context, userID uint64, dto *dto.CreateSubmissionDTO) (*dto.SubmissionDTO, error)
	GetUserSubmissions(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.SubmissionDTO, error)
	GetPendingSubmissions(ctx context.Context, page, pageSize int) ([]*dto.SubmissionDTO, error)
	ReviewSubmission(ctx context.Context, reviewerID, submissionID uint64, approve bool) error
}

type SubmissionServiceImpl struct {
	submissionRepo repository.SubmissionRepo
	houseRepo      repository.HouseRepo
	perfumeRepo    repository.PerfumeRepo
	noteRepo       repository.NoteRepo
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepo,
	houseRepo repository.HouseRepo,
	perfumeRepo repository.PerfumeRepo,
	noteRepo repository.NoteRepo,
) SubmissionService {
	return &SubmissionServiceImpl{
		submissionRepo: submissionRepo,
		houseRepo:      houseRepo,
		perfumeRepo:    perfumeRepo,
		noteRepo:       noteRepo,
	}
}

func (s *SubmissionServiceImpl) CreateSubmission(ctx context.Context, userID uint64, createDTO *dto.CreateSubmissionDTO) (*dto.SubmissionDTO, error) {
	submission := &model.PendingSubmission{
		UserID:      userID,
		Name:        createDTO.Name,
		HouseName:   createDTO.HouseName,
		Description: createDTO.Description,
		Notes:       createDTO.Notes,
		Status:      model.SubmissionStatusPending,
	}
	err := s.submissionRepo.CreateSubmission(ctx, submission)
	if err != nil {
		return nil, err
	}
	return toSubmissionDTO(submission), nil
}

func (s *SubmissionServiceImpl) GetUserSubmissions(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.SubmissionDTO, error) {
	offset, limit := normalizePage(page, pageSize)
	submissions, err := s.submissionRepo.GetUserSubmissions(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return toSubmissionDTOs(submissions), nil
}

func (s *SubmissionServiceImpl) GetPendingSubmissions(ctx context.Context, page, pageSize int) ([]*dto.SubmissionDTO, error) {
	offset, limit := normalizePage(page, pageSize)
	submissions, err := s.submissionRepo.GetSubmissionsByStatus(ctx, model.SubmissionStatusPending, offset, limit)
	if err != nil {
		return nil, err
	}
	return toSubmissionDTOs(submissions), nil
}

// ReviewSubmission 审核提报. 通过时品牌按名取或建, 香水入库并挂香调.
// 加分布式锁防止两个管理员同时通过同一条提报
func (s *SubmissionServiceImpl) ReviewSubmission(ctx context.Context, reviewerID, submissionID uint64, approve bool) error {
	lockKey := consts.SubmissionApproveLock + strconv.FormatUint(submissionID, 10)
	lockVal := uuid.NewString()
	locked, err := redis.TryLock(ctx, lockKey, lockVal, time.Second*10, 3)
	if err != nil {
		return err
	}
	if !locked {
		return UnExpectedError
	}
	defer redis.UnLock(ctx, lockKey, lockVal)

	submission, err := s.submissionRepo.GetSubmissionById(ctx, submissionID)
	if err != nil {
		return err
	}
	if submission == nil {
		return ErrSubmissionNotFound
	}
	if submission.Status != model.SubmissionStatusPending {
		return ErrSubmissionReviewed
	}

	if !approve {
		affected, err := s.submissionRepo.UpdateSubmissionStatus(ctx, submissionID, model.SubmissionStatusRejected, reviewerID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrSubmissionReviewed
		}
		return nil
	}

	house, err := s.houseRepo.GetHouseByName(ctx, submission.HouseName)
	if err != nil {
		return err
	}
	if house == nil {
		house = &model.PerfumeHouse{
			Name:      submission.HouseName,
			Slug:      util.Slugify(submission.HouseName),
			HouseType: consts.HouseTypeNiche,
		}
		err = s.houseRepo.CreateHouse(ctx, house)
		if err != nil {
			if !repository.IsDuplicateKey(err) {
				return err
			}
			house, err = s.houseRepo.GetHouseByName(ctx, submission.HouseName)
			if err != nil {
				return err
			}
		}
	}

	perfume := &model.Perfume{
		Name:        submission.Name,
		Slug:        util.Slugify(submission.Name),
		Description: submission.Description,
		HouseID:     &house.ID,
	}
	err = s.perfumeRepo.CreatePerfume(ctx, perfume)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return ErrPerfumeExist
		}
		return err
	}

	noteNames := util.SplitNoteNames(submission.Notes)
	if len(noteNames) > 0 {
		notes, err := s.noteRepo.GetOrCreateNotes(ctx, noteNames)
		if err != nil {
			return err
		}
		relations := make([]*model.PerfumeNote, 0, len(notes))
		for _, note := range notes {
			relations = append(relations, &model.PerfumeNote{
				NoteID: note.ID,
				Layer:  model.NoteLayerMiddle,
			})
		}
		if err = s.noteRepo.ReplacePerfumeNotes(ctx, perfume.ID, relations); err != nil {
			return err
		}
		_ = s.perfumeRepo.TouchPerfume(ctx, perfume.ID)
	}

	affected, err := s.submissionRepo.UpdateSubmissionStatus(ctx, submissionID, model.SubmissionStatusApproved, reviewerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSubmissionReviewed
	}
	return nil
}

func toSubmissionDTO(submission *model.PendingSubmission) *dto.SubmissionDTO {
	return &dto.SubmissionDTO{
		ID:          submission.ID,
		UserID:      submission.UserID,
		Name:        submission.Name,
		HouseName:   submission.HouseName,
		Description: submission.Description,
		Notes:       submission.Notes,
		Status:      submission.Status,
		ReviewedBy:  submission.ReviewedBy,
		ReviewedAt:  submission.ReviewedAt,
		CreatedAt:   submission.CreatedAt,
	}
}

func toSubmissionDTOs(submissions []*model.PendingSubmission) []*dto.SubmissionDTO {
	submissionDTOs := make([]*dto.SubmissionDTO, 0, len(submissions))
	for _, submission := range submissions {
		submissionDTOs = append(submissionDTOs, toSubmissionDTO(submission))
	}
	return submissionDTOs
}

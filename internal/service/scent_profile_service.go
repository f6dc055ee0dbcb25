package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/repository"
	"context"
	"strings"
	"time"
)

// 单次行为事件对香调权重的固定增量
const noteWeightDelta = 1

// BehaviorEvent 一次性消费的行为信号, 不落库
type BehaviorEvent struct {
	Kind      string // consts.BehaviorEventRating / Wishlist / Collection
	PerfumeID uint64
	Overall   int8 // 仅 rating 事件有效
}

type ScentProfileService interface {
	GetOrCreateProfile(ctx context.Context, userID uint64) (*model.ScentProfile, error)
	ApplyBehaviorEvent(ctx context.Context, userID uint64, event BehaviorEvent) (*model.ScentProfile, error)
	ApplyQuiz(ctx context.Context, userID uint64, quiz *dto.QuizDTO) (*model.ScentProfile, error)
	GetProfileDTO(ctx context.Context, userID uint64) (*dto.ScentProfileDTO, error)
}

type ScentProfileServiceImpl struct {
	profileRepo repository.ScentProfileRepo
	noteRepo    repository.NoteRepo
}

func NewScentProfileService(profileRepo repository.ScentProfileRepo, noteRepo repository.NoteRepo) ScentProfileService {
	return &ScentProfileServiceImpl{
		profileRepo: profileRepo,
		noteRepo:    noteRepo,
	}
}

// GetOrCreateProfile 懒创建空画像. 并发重复创建时读回已有行
func (s *ScentProfileServiceImpl) GetOrCreateProfile(ctx context.Context, userID uint64) (*model.ScentProfile, error) {
	profile, err := s.profileRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	profile = &model.ScentProfile{
		UserID:       userID,
		NoteWeights:  model.NoteWeightMap{},
		AvoidNoteIDs: model.NoteIDList{},
	}
	err = s.profileRepo.CreateProfile(ctx, profile)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return s.profileRepo.GetProfile(ctx, userID)
		}
		return nil, err
	}
	return profile, nil
}

// ApplyBehaviorEvent 按事件类型调整香调权重或回避集.
// 读-改-写, 不加锁, 并发丢更新按后写覆盖接受.
func (s *ScentProfileServiceImpl) ApplyBehaviorEvent(ctx context.Context, userID uint64, event BehaviorEvent) (*model.ScentProfile, error) {
	profile, err := s.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	noteIDs, err := s.noteRepo.GetNoteIDsByPerfume(ctx, event.PerfumeID)
	if err != nil {
		return nil, err
	}
	// 无香调的香水: 合法的空操作
	if len(noteIDs) == 0 {
		return profile, nil
	}

	changed := false
	switch event.Kind {
	case consts.BehaviorEventRating:
		switch {
		case event.Overall >= 4:
			for _, id := range noteIDs {
				profile.NoteWeights[id] += noteWeightDelta
			}
			changed = true
		case event.Overall <= 2:
			for _, id := range noteIDs {
				if !profile.AvoidNoteIDs.Contains(id) {
					profile.AvoidNoteIDs = append(profile.AvoidNoteIDs, id)
					changed = true
				}
			}
		// 3 分属于中立带, 不产生任何影响
		}
	case consts.BehaviorEventWishlist, consts.BehaviorEventCollection:
		for _, id := range noteIDs {
			profile.NoteWeights[id] += noteWeightDelta
		}
		changed = true
	}

	if !changed {
		return profile, nil
	}

	err = s.profileRepo.SaveProfile(ctx, profile)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ApplyQuiz 问卷结果合并进画像: 权重做加法, 回避集做并集,
// 标量偏好仅在显式作答时覆盖, lastQuizAt 无条件刷新
func (s *ScentProfileServiceImpl) ApplyQuiz(ctx context.Context, userID uint64, quiz *dto.QuizDTO) (*model.ScentProfile, error) {
	profile, err := s.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	for id, weight := range quiz.NoteWeights {
		profile.NoteWeights[id] += weight
	}
	for _, id := range quiz.AvoidNoteIDs {
		if !profile.AvoidNoteIDs.Contains(id) {
			profile.AvoidNoteIDs = append(profile.AvoidNoteIDs, id)
		}
	}

	if quiz.PriceRange != nil {
		profile.PreferredPriceRange = model.PriceRange{
			Min: quiz.PriceRange.Min,
			Max: quiz.PriceRange.Max,
		}
	}
	if quiz.Seasons != nil {
		hint := strings.Join(*quiz.Seasons, ",")
		profile.SeasonHint = &hint
	}
	if quiz.BrowsingStyle != nil {
		profile.BrowsingStyle = quiz.BrowsingStyle
	}

	now := time.Now()
	profile.LastQuizAt = &now

	err = s.profileRepo.SaveProfile(ctx, profile)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ScentProfileServiceImpl) GetProfileDTO(ctx context.Context, userID uint64) (*dto.ScentProfileDTO, error) {
	profile, err := s.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	profileDTO := &dto.ScentProfileDTO{
		UserID:        profile.UserID,
		NoteWeights:   profile.NoteWeights,
		AvoidNoteIDs:  profile.AvoidNoteIDs,
		SeasonHint:    profile.SeasonHint,
		BrowsingStyle: profile.BrowsingStyle,
		LastQuizAt:    profile.LastQuizAt,
		UpdatedAt:     profile.UpdatedAt,
	}
	if !profile.PreferredPriceRange.IsZero() {
		profileDTO.PriceRange = &dto.PriceRangeDTO{
			Min: profile.PreferredPriceRange.Min,
			Max: profile.PreferredPriceRange.Max,
		}
	}
	return profileDTO, nil
}

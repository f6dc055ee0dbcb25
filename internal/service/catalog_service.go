package service

import (
	"Sillage/internal/api/dto"
	"Sillage/internal/model"
	"Sillage/internal/pkg/consts"
	"Sillage/internal/pkg/es"
	"Sillage/internal/pkg/minio"
	"Sillage/internal/pkg/redis"
	"Sillage/internal/pkg/util"
	"Sillage/internal/repository"
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

type CatalogService interface {
	CreateHouse(ctx context.Context, dto *dto.CreateHouseDTO) (*dto.HouseDTO, error)
	GetHouse(ctx context.Context, id uint64) (*dto.HouseDTO, error)
	ListHouses(ctx context.Context, houseType string, page, pageSize int) ([]*dto.HouseDTO, error)

	CreatePerfume(ctx context.Context, dto *dto.CreatePerfumeDTO) (*dto.PerfumeDTO, error)
	GetPerfume(ctx context.Context, id uint64) (*dto.PerfumeDTO, error)
	GetPerfumeBySlug(ctx context.Context, slug string) (*dto.PerfumeDTO, error)
	ListPerfumes(ctx context.Context, houseID uint64, page, pageSize int) ([]*dto.PerfumeDTO, error)
	UpdatePerfume(ctx context.Context, id uint64, dto *dto.UpdatePerfumeDTO) error
	SetPerfumeNotes(ctx context.Context, perfumeID uint64, dto *dto.SetNotesDTO) error
	UpdatePerfumeImage(ctx context.Context, id uint64, objectName string) error
	DeletePerfume(ctx context.Context, id uint64) error

	SearchPerfumes(ctx context.Context, dto *dto.SearchPerfumeDTO) ([]*dto.PerfumeDTO, error)
	GetSuggestions(ctx context.Context, keyword string) ([]string, error)
	GetLatestPerfumes(ctx context.Context, page, pageSize int) ([]*dto.PerfumeDTO, error)
	GetLatestFeed(ctx context.Context, cursor string, size int) ([]*dto.PerfumeDTO, string, error)
}

type CatalogServiceImpl struct {
	houseRepo   repository.HouseRepo
	perfumeRepo repository.PerfumeRepo
	noteRepo    repository.NoteRepo
	perfumeES   es.PerfumeRepo
}

func NewCatalogService(
	houseRepo repository.HouseRepo,
	perfumeRepo repository.PerfumeRepo,
	noteRepo repository.NoteRepo,
	perfumeES es.PerfumeRepo,
) CatalogService {
	return &CatalogServiceImpl{
		houseRepo:   houseRepo,
		perfumeRepo: perfumeRepo,
		noteRepo:    noteRepo,
		perfumeES:   perfumeES,
	}
}

func (s *CatalogServiceImpl) CreateHouse(ctx context.Context, createDTO *dto.CreateHouseDTO) (*dto.HouseDTO, error) {
	existing, err := s.houseRepo.GetHouseByName(ctx, createDTO.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrHouseExist
	}

	house := &model.PerfumeHouse{}
	err = copier.Copy(house, createDTO)
	if err != nil {
		return nil, err
	}
	house.Slug = util.Slugify(createDTO.Name)

	err = s.houseRepo.CreateHouse(ctx, house)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrHouseExist
		}
		return nil, err
	}
	_ = redis.DeleteKey(ctx, consts.HouseListKey)
	return toHouseDTO(house), nil
}

func (s *CatalogServiceImpl) GetHouse(ctx context.Context, id uint64) (*dto.HouseDTO, error) {
	key := consts.HouseDetailKey + strconv.FormatUint(id, 10)
	value, err := redis.GetValue(ctx, key)
	if err == nil && value != "" {
		var houseDTO *dto.HouseDTO
		if err = json.Unmarshal([]byte(value), &houseDTO); err == nil {
			return houseDTO, nil
		}
	}

	house, err := s.houseRepo.GetHouseById(ctx, id)
	if err != nil {
		return nil, err
	}
	if house == nil {
		return nil, ErrHouseNotFound
	}

	houseDTO := toHouseDTO(house)
	if jsonStr, err := json.Marshal(houseDTO); err == nil {
		_ = redis.SetWithExpiration(ctx, key, string(jsonStr), time.Hour*1)
	}
	return houseDTO, nil
}

func (s *CatalogServiceImpl) ListHouses(ctx context.Context, houseType string, page, pageSize int) ([]*dto.HouseDTO, error) {
	offset, limit := normalizePage(page, pageSize)
	houses, err := s.houseRepo.ListHouses(ctx, houseType, offset, limit)
	if err != nil {
		return nil, err
	}
	houseDTOs := make([]*dto.HouseDTO, 0, len(houses))
	for _, house := range houses {
		houseDTOs = append(houseDTOs, toHouseDTO(house))
	}
	return houseDTOs, nil
}

func (s *CatalogServiceImpl) CreatePerfume(ctx context.Context, createDTO *dto.CreatePerfumeDTO) (*dto.PerfumeDTO, error) {
	if createDTO.HouseID != nil {
		house, err := s.houseRepo.GetHouseById(ctx, *createDTO.HouseID)
		if err != nil {
			return nil, err
		}
		if house == nil {
			return nil, ErrHouseNotFound
		}
	}

	perfume := &model.Perfume{
		Name:        createDTO.Name,
		Slug:        util.Slugify(createDTO.Name),
		Description: createDTO.Description,
		HouseID:     createDTO.HouseID,
	}

	err := s.perfumeRepo.CreatePerfume(ctx, perfume)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrPerfumeExist
		}
		return nil, err
	}

	full, err := s.perfumeRepo.GetPerfumeById(ctx, perfume.ID)
	if err != nil {
		return nil, err
	}
	return s.toPerfumeDTO(ctx, full, false)
}

func (s *CatalogServiceImpl) GetPerfume(ctx context.Context, id uint64) (*dto.PerfumeDTO, error) {
	key := consts.PerfumeDetailKey + strconv.FormatUint(id, 10)
	value, err := redis.GetValue(ctx, key)
	if err == nil && value != "" {
		var perfumeDTO *dto.PerfumeDTO
		if err = json.Unmarshal([]byte(value), &perfumeDTO); err == nil {
			return perfumeDTO, nil
		}
	}

	perfume, err := s.perfumeRepo.GetPerfumeById(ctx, id)
	if err != nil {
		return nil, err
	}
	if perfume == nil {
		return nil, ErrPerfumeNotFound
	}

	perfumeDTO, err := s.toPerfumeDTO(ctx, perfume, true)
	if err != nil {
		return nil, err
	}
	if jsonStr, err := json.Marshal(perfumeDTO); err == nil {
		_ = redis.SetWithExpiration(ctx, key, string(jsonStr), time.Hour*1)
	}
	return perfumeDTO, nil
}

func (s *CatalogServiceImpl) GetPerfumeBySlug(ctx context.Context, slug string) (*dto.PerfumeDTO, error) {
	perfume, err := s.perfumeRepo.GetPerfumeBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if perfume == nil {
		return nil, ErrPerfumeNotFound
	}
	return s.toPerfumeDTO(ctx, perfume, true)
}

func (s *CatalogServiceImpl) ListPerfumes(ctx context.Context, houseID uint64, page, pageSize int) ([]*dto.PerfumeDTO, error) {
	offset, limit := normalizePage(page, pageSize)
	perfumes, err := s.perfumeRepo.ListPerfumes(ctx, houseID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.toPerfumeDTOs(ctx, perfumes)
}

func (s *CatalogServiceImpl) UpdatePerfume(ctx context.Context, id uint64, updateDTO *dto.UpdatePerfumeDTO) error {
	perfume, err := s.perfumeRepo.GetPerfumeById(ctx, id)
	if err != nil {
		return err
	}
	if perfume == nil {
		return ErrPerfumeNotFound
	}
	if updateDTO.HouseID != nil {
		house, err := s.houseRepo.GetHouseById(ctx, *updateDTO.HouseID)
		if err != nil {
			return err
		}
		if house == nil {
			return ErrHouseNotFound
		}
		perfume.HouseID = updateDTO.HouseID
	}
	if updateDTO.Name != nil {
		perfume.Name = *updateDTO.Name
		perfume.Slug = util.Slugify(*updateDTO.Name)
	}
	if updateDTO.Description != nil {
		perfume.Description = updateDTO.Description
	}

	err = s.perfumeRepo.UpdatePerfume(ctx, perfume)
	if err != nil {
		return err
	}
	_ = redis.DeleteKey(ctx, consts.PerfumeDetailKey+strconv.FormatUint(id, 10))
	return nil
}

// SetPerfumeNotes 全量替换三层香调, 缺失的香调名自动建档
func (s *CatalogServiceImpl) SetPerfumeNotes(ctx context.Context, perfumeID uint64, notesDTO *dto.SetNotesDTO) error {
	perfume, err := s.perfumeRepo.GetPerfumeById(ctx, perfumeID)
	if err != nil {
		return err
	}
	if perfume == nil {
		return ErrPerfumeNotFound
	}

	relations := make([]*model.PerfumeNote, 0)
	layers := []struct {
		names []string
		layer int8
	}{
		{notesDTO.Top, model.NoteLayerTop},
		{notesDTO.Middle, model.NoteLayerMiddle},
		{notesDTO.Base, model.NoteLayerBase},
	}

	seen := make(map[uint64]struct{})
	for _, l := range layers {
		if len(l.names) == 0 {
			continue
		}
		notes, err := s.noteRepo.GetOrCreateNotes(ctx, l.names)
		if err != nil {
			return err
		}
		for _, note := range notes {
			if _, ok := seen[note.ID]; ok {
				continue
			}
			seen[note.ID] = struct{}{}
			relations = append(relations, &model.PerfumeNote{
				NoteID: note.ID,
				Layer:  l.layer,
			})
		}
	}

	err = s.noteRepo.ReplacePerfumeNotes(ctx, perfumeID, relations)
	if err != nil {
		return err
	}

	// 触发一次 canal 同步, 把新香调带进搜索索引
	_ = s.perfumeRepo.TouchPerfume(ctx, perfumeID)
	_ = redis.DeleteKey(ctx, consts.PerfumeDetailKey+strconv.FormatUint(perfumeID, 10))
	return nil
}

func (s *CatalogServiceImpl) UpdatePerfumeImage(ctx context.Context, id uint64, objectName string) error {
	perfume, err := s.perfumeRepo.GetPerfumeById(ctx, id)
	if err != nil {
		return err
	}
	if perfume == nil {
		return ErrPerfumeNotFound
	}
	perfume.ImageURL = &objectName
	err = s.perfumeRepo.UpdatePerfume(ctx, perfume)
	if err != nil {
		return err
	}
	_ = redis.DeleteKey(ctx, consts.PerfumeDetailKey+strconv.FormatUint(id, 10))
	return nil
}

func (s *CatalogServiceImpl) DeletePerfume(ctx context.Context, id uint64) error {
	perfume, err := s.perfumeRepo.GetPerfumeById(ctx, id)
	if err != nil {
		return err
	}
	if perfume == nil {
		return ErrPerfumeNotFound
	}
	err = s.perfumeRepo.DeletePerfume(ctx, id)
	if err != nil {
		return err
	}
	_ = redis.DeleteKey(ctx, consts.PerfumeDetailKey+strconv.FormatUint(id, 10))
	return nil
}

func (s *CatalogServiceImpl) SearchPerfumes(ctx context.Context, searchDTO *dto.SearchPerfumeDTO) ([]*dto.PerfumeDTO, error) {
	offset, limit := normalizePage(searchDTO.Page, searchDTO.PageSize)

	var hits []*es.PerfumeES
	var err error
	if len(searchDTO.Notes) > 0 {
		hits, err = s.perfumeES.SearchByNotes(ctx, searchDTO.Notes, offset, limit)
	} else {
		hits, err = s.perfumeES.SearchPerfumes(ctx, searchDTO.Keyword, "", offset, limit)
	}
	if err != nil {
		return nil, err
	}
	return s.hydrateFromES(ctx, hits)
}

func (s *CatalogServiceImpl) GetSuggestions(ctx context.Context, keyword string) ([]string, error) {
	return s.perfumeES.GetSuggestions(ctx, keyword)
}

func (s *CatalogServiceImpl) GetLatestPerfumes(ctx context.Context, page, pageSize int) ([]*dto.PerfumeDTO, error) {
	offset, limit := normalizePage(page, pageSize)
	hits, err := s.perfumeES.GetLatestPerfumes(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.hydrateFromES(ctx, hits)
}

// GetLatestFeed 游标式新品流, 避免深分页时 from+size 的开销
func (s *CatalogServiceImpl) GetLatestFeed(ctx context.Context, cursor string, size int) ([]*dto.PerfumeDTO, string, error) {
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}

	sortValues, err := util.DecodeCursor(cursor)
	if err != nil {
		return nil, "", ErrParamInvalid
	}

	hits, err := s.perfumeES.GetLatestPerfumesByCursor(ctx, sortValues, size)
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(hits) == size {
		nextCursor = util.EncodeCursor(hits[len(hits)-1].Sort)
	}

	perfumeDTOs, err := s.hydrateFromES(ctx, hits)
	if err != nil {
		return nil, "", err
	}
	return perfumeDTOs, nextCursor, nil
}

// hydrateFromES 用 ES 命中的 id 回表取权威数据
func (s *CatalogServiceImpl) hydrateFromES(ctx context.Context, hits []*es.PerfumeES) ([]*dto.PerfumeDTO, error) {
	if len(hits) == 0 {
		return []*dto.PerfumeDTO{}, nil
	}
	ids := make([]uint64, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ID)
	}
	perfumes, err := s.perfumeRepo.GetPerfumesByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Perfume, len(perfumes))
	for _, p := range perfumes {
		byID[p.ID] = p
	}
	// 保持 ES 的相关度顺序
	ordered := make([]*model.Perfume, 0, len(hits))
	for _, hit := range hits {
		if p, ok := byID[hit.ID]; ok {
			ordered = append(ordered, p)
		}
	}
	return s.toPerfumeDTOs(ctx, ordered)
}

func (s *CatalogServiceImpl) toPerfumeDTOs(ctx context.Context, perfumes []*model.Perfume) ([]*dto.PerfumeDTO, error) {
	perfumeDTOs := make([]*dto.PerfumeDTO, 0, len(perfumes))
	for _, perfume := range perfumes {
		perfumeDTO, err := s.toPerfumeDTO(ctx, perfume, false)
		if err != nil {
			return nil, err
		}
		perfumeDTOs = append(perfumeDTOs, perfumeDTO)
	}
	return perfumeDTOs, nil
}

func (s *CatalogServiceImpl) toPerfumeDTO(ctx context.Context, perfume *model.Perfume, withNotes bool) (*dto.PerfumeDTO, error) {
	perfumeDTO := &dto.PerfumeDTO{
		ID:          perfume.ID,
		Name:        perfume.Name,
		Slug:        perfume.Slug,
		Description: perfume.Description,
		CreatedAt:   perfume.CreatedAt,
	}
	if perfume.ImageURL != nil {
		url := minio.GetPublicURL(*perfume.ImageURL)
		perfumeDTO.ImageURL = &url
	}
	if perfume.House != nil {
		perfumeDTO.House = toHouseDTO(perfume.House)
	}
	if withNotes {
		notes, err := s.noteRepo.GetNotesByPerfume(ctx, perfume.ID)
		if err != nil {
			return nil, err
		}
		noteDTOs := make([]dto.NoteDTO, 0, len(notes))
		for _, note := range notes {
			noteDTOs = append(noteDTOs, dto.NoteDTO{ID: note.ID, Name: note.Name})
		}
		perfumeDTO.Notes = noteDTOs
	}
	return perfumeDTO, nil
}

func toHouseDTO(house *model.PerfumeHouse) *dto.HouseDTO {
	houseDTO := &dto.HouseDTO{
		ID:          house.ID,
		Name:        house.Name,
		Slug:        house.Slug,
		Description: house.Description,
		Country:     house.Country,
		FoundedYear: house.FoundedYear,
		Website:     house.Website,
		HouseType:   house.HouseType,
	}
	if house.ImageURL != nil {
		url := minio.GetPublicURL(*house.ImageURL)
		houseDTO.ImageURL = &url
	}
	return houseDTO
}

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

func normalizePage(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return (page - 1) * pageSize, pageSize
}

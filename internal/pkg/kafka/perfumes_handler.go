package kafka

import (
	"Sillage/internal/pkg/consts"
	"Sillage/internal/pkg/es"
	"Sillage/internal/pkg/redis"
	"Sillage/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// PerfumesHandler 消费 perfumes 表的 canal 变更, 同步检索索引并失效缓存
type PerfumesHandler struct {
	houseDBRepo   repository.HouseRepo
	noteDBRepo    repository.NoteRepo
	perfumeESRepo es.PerfumeRepo
}

func NewPerfumesHandler(houseDBRepo repository.HouseRepo, noteDBRepo repository.NoteRepo, perfumeESRepo es.PerfumeRepo) *PerfumesHandler {
	return &PerfumesHandler{
		houseDBRepo:   houseDBRepo,
		noteDBRepo:    noteDBRepo,
		perfumeESRepo: perfumeESRepo,
	}
}

func (s *PerfumesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("perfume consumer setup")
	return nil
}

func (s *PerfumesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("perfume consumer cleanup")
	return nil
}

func (s *PerfumesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-perfume consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-perfume process batch error", "err", err)
		return err
	}
	log.Info("topic-perfume consume claim end")
	return nil
}

func (s *PerfumesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "perfumes")
	if err != nil {
		return err
	}

	row := canalMsg.Data[0]
	perfumeID := StrToUint64(row["id"])
	slug := StrToString(row["slug"])

	s.invalidateCache(ctx, slug)

	if canalMsg.Type == DELETE {
		return s.perfumeESRepo.DeletePerfume(ctx, perfumeID)
	}

	doc, err := s.toESModel(ctx, canalMsg)
	if err != nil {
		return err
	}

	return s.perfumeESRepo.IndexPerfume(ctx, doc, canalMsg.TS)
}

// toESModel 组装文档, 品牌与香调是冗余字段, 从 DB 取当前快照
func (s *PerfumesHandler) toESModel(ctx context.Context, message *CanalMessage) (*es.PerfumeES, error) {
	row := message.Data[0]

	doc := &es.PerfumeES{
		ID:          StrToUint64(row["id"]),
		Name:        StrToString(row["name"]),
		Slug:        StrToString(row["slug"]),
		Description: StrToString(row["description"]),
		CreatedAt:   StrToDateTime(row["created_at"]),
		UpdatedAt:   StrToDateTime(row["updated_at"]),
	}

	if houseID := StrToUint64(row["house_id"]); houseID != 0 {
		house, err := s.houseDBRepo.GetHouseById(ctx, houseID)
		if err != nil {
			return nil, err
		}
		if house == nil {
			return nil, errors.Errorf("house %d not found for perfume %d", houseID, doc.ID)
		}
		doc.HouseID = house.ID
		doc.HouseName = house.Name
		doc.HouseType = house.HouseType
	}

	notes, err := s.noteDBRepo.GetNotesByPerfume(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Notes = make([]string, 0, len(notes))
	for _, n := range notes {
		doc.Notes = append(doc.Notes, n.Name)
	}

	return doc, nil
}

func (s *PerfumesHandler) invalidateCache(ctx context.Context, slug string) {
	if slug == "" {
		return
	}
	if err := redis.DeleteKey(ctx, consts.PerfumeDetailKey+slug); err != nil {
		log.WarnContext(ctx, "failed to invalidate perfume cache", "slug", slug, "err", err)
	}
}

package kafka

import (
	"Sillage/internal/pkg/consts"
	"Sillage/internal/pkg/es"
	"Sillage/internal/pkg/redis"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// HousesHandler 消费 perfume_houses 表的 canal 变更
// 品牌改名时修正香水文档上的冗余 house_name
type HousesHandler struct {
	perfumeESRepo es.PerfumeRepo
}

func NewHousesHandler(perfumeESRepo es.PerfumeRepo) *HousesHandler {
	return &HousesHandler{perfumeESRepo: perfumeESRepo}
}

func (s *HousesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("house consumer setup")
	return nil
}

func (s *HousesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("house consumer cleanup")
	return nil
}

func (s *HousesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-house consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-house process batch error", "err", err)
		return err
	}
	log.Info("topic-house consume claim end")
	return nil
}

func (s *HousesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "perfume_houses")
	if err != nil {
		return err
	}

	row := canalMsg.Data[0]
	houseID := StrToUint64(row["id"])
	slug := StrToString(row["slug"])

	s.invalidateCache(ctx, slug)

	if canalMsg.Type != UPDATE || len(canalMsg.Old) == 0 {
		return nil
	}

	// 只有 name 变更才需要回刷香水文档
	if _, nameChanged := canalMsg.Old[0]["name"]; !nameChanged {
		return nil
	}

	return s.perfumeESRepo.UpdateHouseName(ctx, houseID, StrToString(row["name"]))
}

func (s *HousesHandler) invalidateCache(ctx context.Context, slug string) {
	if err := redis.DeleteKey(ctx, consts.HouseListKey); err != nil {
		log.WarnContext(ctx, "failed to invalidate house list cache", "err", err)
	}
	if slug == "" {
		return
	}
	if err := redis.DeleteKey(ctx, consts.HouseDetailKey+slug); err != nil {
		log.WarnContext(ctx, "failed to invalidate house cache", "slug", slug, "err", err)
	}
}

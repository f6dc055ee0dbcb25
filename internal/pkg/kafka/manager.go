package kafka

import (
	"Sillage/internal/api/config"
	"Sillage/internal/pkg/es"
	"Sillage/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	perfumeConsumer sarama.ConsumerGroup
	perfumeHandler  sarama.ConsumerGroupHandler

	houseConsumer sarama.ConsumerGroup
	houseHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	houseDBRepo repository.HouseRepo,
	noteDBRepo repository.NoteRepo,
	perfumeESRepo es.PerfumeRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	perfumeConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaPerfumeConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	perfumeHandler := NewPerfumesHandler(houseDBRepo, noteDBRepo, perfumeESRepo)

	houseConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaHouseConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	houseHandler := NewHousesHandler(perfumeESRepo)

	return &ConsumerManager{
		perfumeConsumer: perfumeConsumer,
		perfumeHandler:  perfumeHandler,
		houseConsumer:   houseConsumer,
		houseHandler:    houseHandler,
	}, nil
}

// Start 启动所有消费者
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	// 启动 Perfume Consumer
	go func() {
		topic := cfg.KafkaPerfumeConsumer.Topic
		log.Info("Perfume consumer started", "topic", topic)
		for {
			if err := m.perfumeConsumer.Consume(ctx, []string{topic}, m.perfumeHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 House Consumer
	go func() {
		topic := cfg.KafkaHouseConsumer.Topic
		log.Info("House consumer started", "topic", topic)
		for {
			if err := m.houseConsumer.Consume(ctx, []string{topic}, m.houseHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.perfumeConsumer.Close(); err != nil {
		log.Error("Failed to close perfume consumer", "err", err)
	}
	if err := m.houseConsumer.Close(); err != nil {
		log.Error("Failed to close house consumer", "err", err)
	}

	return nil
}

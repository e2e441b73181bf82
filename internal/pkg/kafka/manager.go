package kafka

import (
	"Inkwell/internal/api/config"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	screeningConsumer sarama.ConsumerGroup
	screeningHandler  sarama.ConsumerGroupHandler
	screeningTopic    string
}

func NewConsumerManager(cfg *config.Config, screener Screener, settled SettledFunc) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	screeningConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaTopics.ScreeningGroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		screeningConsumer: screeningConsumer,
		screeningHandler:  NewScreeningHandler(screener, settled),
		screeningTopic:    cfg.KafkaTopics.Submitted,
	}, nil
}

// Start 阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.screeningConsumer.Errors() {
			log.Error("screening consumer error", "err", err)
		}
	}()

	go func() {
		log.Info("Screening consumer started", "topic", m.screeningTopic)
		for {
			if err := m.screeningConsumer.Consume(ctx, []string{m.screeningTopic}, m.screeningHandler); err != nil {
				log.Error("Error from consumer", "err", err)
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.screeningConsumer.Close(); err != nil {
		log.Error("Failed to close screening consumer", "err", err)
		return err
	}
	return nil
}

package kafka

import (
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// Screener AI 预审的后台调用方
type Screener interface {
	Screen(ctx context.Context, recordID uint64) error
}

// SettledFunc 判断错误是否无需重新消费
type SettledFunc func(err error) bool

// ScreeningHandler 消费提交事件并执行 AI 预审
type ScreeningHandler struct {
	screener Screener
	settled  SettledFunc
}

func NewScreeningHandler(screener Screener, settled SettledFunc) *ScreeningHandler {
	return &ScreeningHandler{screener: screener, settled: settled}
}

func (s *ScreeningHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("screening consumer setup")
	return nil
}

func (s *ScreeningHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("screening consumer cleanup")
	return nil
}

func (s *ScreeningHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, s.logic)
}

func (s *ScreeningHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event ScreeningEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.ErrorContext(ctx, "invalid screening event, skipped", "offset", msg.Offset, "err", err)
		return nil
	}

	err := s.screener.Screen(ctx, event.RecordID)
	if err == nil {
		return nil
	}
	if s.settled != nil && s.settled(err) {
		log.InfoContext(ctx, "screening event settled without verdict", "record_id", event.RecordID, "err", err)
		return nil
	}
	return err
}

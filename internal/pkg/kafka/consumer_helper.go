package kafka

import (
	"Inkwell/internal/pkg/logger"
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

const (
	batchSize        = 32
	batchTimeout     = 1 * time.Second
	maxRetryInterval = 5 * time.Second
)

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 攒批后并发处理，超时也会刷出
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 每条消息失败后退避重试，只提交连续处理成功的位点
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup
	done := make([]bool, len(messages))

	for i, msg := range messages {
		wg.Add(1)

		go func(i int, m *sarama.ConsumerMessage) {
			defer wg.Done()
			ctx := messageContext(session.Context(), m)
			retryInterval := 100 * time.Millisecond

			for {
				err := logic(ctx, m)
				if err == nil {
					done[i] = true
					return
				}
				log.ErrorContext(ctx, "process message error", "topic", m.Topic, "offset", m.Offset, "err", err)

				select {
				case <-session.Context().Done():
					return
				case <-time.After(retryInterval):
				}

				retryInterval *= 2
				if retryInterval > maxRetryInterval {
					retryInterval = maxRetryInterval
				}
			}
		}(i, msg)
	}

	wg.Wait()
	markDone(session, messages, done)
}

// markDone 位点按分区累积提交，遇到第一条未完成的消息后该分区不再前移
func markDone(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, done []bool) {
	type partitionKey struct {
		topic     string
		partition int32
	}
	blocked := make(map[partitionKey]bool)
	for i, m := range messages {
		key := partitionKey{m.Topic, m.Partition}
		if blocked[key] {
			continue
		}
		if !done[i] {
			blocked[key] = true
			log.WarnContext(session.Context(), "message left unmarked", "topic", m.Topic, "partition", m.Partition, "offset", m.Offset)
			continue
		}
		session.MarkMessage(m, "")
	}
}

// messageContext 沿用生产端的 trace id
func messageContext(ctx context.Context, msg *sarama.ConsumerMessage) context.Context {
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == traceHeader && len(h.Value) > 0 {
			return logger.WithTraceID(ctx, string(h.Value))
		}
	}
	return logger.NewTraceContext(ctx, "consumer")
}

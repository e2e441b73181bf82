package kafka

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/logger"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Producer 审核引擎的事件出口
type Producer struct {
	producer sarama.SyncProducer
	topics   config.KafkaTopicsConfig
}

func NewProducer(cfg *config.Config) (*Producer, error) {
	p, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, errors.Wrap(err, "create kafka producer")
	}
	return NewProducerWith(p, cfg.KafkaTopics), nil
}

func NewProducerWith(p sarama.SyncProducer, topics config.KafkaTopicsConfig) *Producer {
	return &Producer{producer: p, topics: topics}
}

// Publish 序列化后同步写入，trace id 放在消息头
func (s *Producer) Publish(ctx context.Context, topic string, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal kafka payload")
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	}
	if traceID := logger.TraceID(ctx); traceID != "" {
		msg.Headers = []sarama.RecordHeader{{Key: []byte(traceHeader), Value: []byte(traceID)}}
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return errors.Wrapf(err, "send to %s", topic)
	}
	log.DebugContext(ctx, "kafka message sent", "topic", topic, "partition", partition, "offset", offset)
	return nil
}

// DispatchScreening 投递 AI 预审任务
func (s *Producer) DispatchScreening(ctx context.Context, record *model.ReviewRecord) error {
	return s.Publish(ctx, s.topics.Submitted, strconv.FormatUint(record.ID, 10), &ScreeningEvent{
		RecordID:    record.ID,
		TargetKind:  string(record.TargetKind),
		TargetID:    record.TargetID,
		AuthorID:    record.AuthorID,
		SubmittedAt: record.CreatedAt,
	})
}

// PublishContentPublished 按作者分区，保证同一作者事件有序
func (s *Producer) PublishContentPublished(ctx context.Context, item model.ContentItem, publishedAt time.Time) error {
	event := &PublishedEvent{
		Kind:        string(item.Kind()),
		ID:          item.GetID(),
		StoryID:     item.GetID(),
		AuthorID:    item.GetAuthorID(),
		Title:       item.GetTitle(),
		PublishedAt: publishedAt,
	}
	if chapter, ok := item.(*model.Chapter); ok {
		event.StoryID = chapter.StoryID
	}
	return s.Publish(ctx, s.topics.Published, strconv.FormatUint(event.AuthorID, 10), event)
}

func (s *Producer) PublishLifecycle(ctx context.Context, kind model.TargetKind, id uint64, authorID uint64, event string, note string) error {
	return s.Publish(ctx, s.topics.Lifecycle, string(kind)+":"+strconv.FormatUint(id, 10), &LifecycleEvent{
		Kind:     string(kind),
		ID:       id,
		AuthorID: authorID,
		Event:    event,
		Note:     note,
		At:       time.Now(),
	})
}

func (s *Producer) Close() error {
	return s.producer.Close()
}

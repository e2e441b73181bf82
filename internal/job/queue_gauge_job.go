package job

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/metrics"
	"Inkwell/internal/pkg/redis"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const queueSizeTTL = 5 * time.Minute

// QueueSizer 各类型人工队列的积压数
type QueueSizer interface {
	QueueSizes(ctx context.Context) (map[model.TargetKind]int64, error)
}

type QueueGaugeJob struct {
	sizer QueueSizer
	cache func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

func NewQueueGaugeJob(sizer QueueSizer) *QueueGaugeJob {
	return &QueueGaugeJob{
		sizer: sizer,
		cache: redis.SetWithExpiration,
	}
}

func (s *QueueGaugeJob) Run() {
	ctx := logger.NewTraceContext(context.Background(), "job-queue-gauge")
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	lockID := uuid.NewString()
	ok, err := redis.TryLock(ctx, consts.QueueGaugeJobLock, lockID, time.Minute, 0)
	if err != nil || !ok {
		return
	}
	defer redis.UnLock(ctx, consts.QueueGaugeJobLock, lockID)

	if err := s.process(ctx); err != nil {
		log.ErrorContext(ctx, "QueueGaugeJob 执行失败", "err", err)
	}
}

// process 刷新 Prometheus 指标，并缓存到 Redis 供后台首页读取
func (s *QueueGaugeJob) process(ctx context.Context) error {
	sizes, err := s.sizer.QueueSizes(ctx)
	if err != nil {
		return err
	}
	for kind, n := range sizes {
		metrics.SetQueueSize(string(kind), n)
		if err := s.cache(ctx, consts.ModerationQueueKey+string(kind), strconv.FormatInt(n, 10), queueSizeTTL); err != nil {
			log.WarnContext(ctx, "缓存队列积压数失败", "kind", kind, "err", err)
		}
	}
	return nil
}

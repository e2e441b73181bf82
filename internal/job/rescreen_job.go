package job

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// Rescreener 补评未拿到 AI 分数的审核记录
type Rescreener interface {
	RescreenStale(ctx context.Context) (int, error)
}

type RescreenJob struct {
	rescreener Rescreener
	timeout    time.Duration
}

func NewRescreenJob(rescreener Rescreener, timeout time.Duration) *RescreenJob {
	return &RescreenJob{
		rescreener: rescreener,
		timeout:    timeout,
	}
}

// Run 多实例部署时只有拿到锁的实例执行
func (s *RescreenJob) Run() {
	ctx := logger.NewTraceContext(context.Background(), "job-rescreen")
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	lockID := uuid.NewString()
	ok, err := redis.TryLock(ctx, consts.RescreenJobLock, lockID, s.timeout, 0)
	if err != nil || !ok {
		log.InfoContext(ctx, "RescreenJob 未获取到锁，跳过", "err", err)
		return
	}
	defer redis.UnLock(ctx, consts.RescreenJobLock, lockID)

	s.process(ctx)
}

func (s *RescreenJob) process(ctx context.Context) int {
	start := time.Now()
	n, err := s.rescreener.RescreenStale(ctx)
	if err != nil {
		log.ErrorContext(ctx, "RescreenJob 执行失败", "done", n, "err", err)
		return n
	}
	log.InfoContext(ctx, "RescreenJob 执行完成", "done", n, "cost", time.Since(start))
	return n
}

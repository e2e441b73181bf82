package cron

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/job"
	"context"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine        *cron.Cron
	specs         config.ModerationJobsCron
	rescreenJob   *job.RescreenJob
	queueGaugeJob *job.QueueGaugeJob
}

func NewCronManager(specs config.ModerationJobsCron, rescreenJob *job.RescreenJob, queueGaugeJob *job.QueueGaugeJob) *Manager {
	return &Manager{
		engine:        cron.New(cron.WithSeconds()),
		specs:         specs,
		rescreenJob:   rescreenJob,
		queueGaugeJob: queueGaugeJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.specs.Rescreen, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(s.rescreenJob)); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(s.specs.QueueGauge, s.queueGaugeJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 不再调度新任务，返回的 ctx 在正在执行的任务结束后关闭
func (s *Manager) Stop() context.Context {
	log.Info("Cron 定时任务引擎停止")
	return s.engine.Stop()
}

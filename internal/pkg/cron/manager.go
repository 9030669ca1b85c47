package cron

import (
	"Limelight/internal/api/config"
	"Limelight/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine          *cron.Cron
	publishSweepJob *job.PublishSweepJob
	autoReplyJob    *job.AutoReplyJob
	trendJob        *job.TrendJob
	contentJob      *job.ContentJob
}

func NewCronManager(
	publishSweepJob *job.PublishSweepJob,
	autoReplyJob *job.AutoReplyJob,
	trendJob *job.TrendJob,
	contentJob *job.ContentJob,
) *Manager {
	return &Manager{
		engine:          cron.New(cron.WithSeconds()),
		publishSweepJob: publishSweepJob,
		autoReplyJob:    autoReplyJob,
		trendJob:        trendJob,
		contentJob:      contentJob,
	}
}

// RegisterJobs 注册定时任务，调度表达式来自配置，缺省给保守值
func (s *Manager) RegisterJobs() error {
	cfg := config.Cfg.Workflow

	if _, err := s.engine.AddJob(cronOrDefault(cfg.PublishCron, "0 */5 * * * *"), s.publishSweepJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(cronOrDefault(cfg.ReplyCron, "0 */10 * * * *"), s.autoReplyJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(cronOrDefault(cfg.TrendCron, "0 0 */6 * * *"), s.trendJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(cronOrDefault(cfg.ContentCron, "0 30 */6 * * *"), s.contentJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}

func cronOrDefault(expr string, fallback string) string {
	if expr == "" {
		return fallback
	}
	return expr
}

package job

import (
	"Limelight/internal/pkg/consts"
	"Limelight/internal/pkg/logger"
	"Limelight/internal/pkg/redis"
	"Limelight/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// PublishSweepJob 定时捞出到期的已审批帖子并发布。
// 即时发布路径可能同时在跑，落库用条件更新兜底，这里的锁只是减少无谓的重复扫描。
type PublishSweepJob struct {
	publishService service.PublishService
}

func NewPublishSweepJob(publishService service.PublishService) *PublishSweepJob {
	return &PublishSweepJob{
		publishService: publishService,
	}
}

func (s *PublishSweepJob) Run() {
	traceID := "job-publish-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	locked, err := redis.TryLock(ctx, consts.PublishSweepLock, traceID, 2*time.Minute, 1)
	if err != nil {
		log.ErrorContext(ctx, "获取发布扫描锁失败", "err", err)
		return
	}
	if !locked {
		log.InfoContext(ctx, "发布扫描已有实例在跑，本轮跳过")
		return
	}
	defer redis.UnLock(ctx, consts.PublishSweepLock, traceID)

	result, err := s.publishService.PublishDue(ctx)
	if err != nil {
		log.ErrorContext(ctx, "发布扫描执行失败", "err", err)
		return
	}
	if result.ConfigSkip {
		log.WarnContext(ctx, "发布扫描跳过", "warning", result.Warning)
	}
}

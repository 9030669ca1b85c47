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

// AutoReplyJob 定时扫描待回复互动并自动回复
type AutoReplyJob struct {
	interactionService service.InteractionService
}

func NewAutoReplyJob(interactionService service.InteractionService) *AutoReplyJob {
	return &AutoReplyJob{
		interactionService: interactionService,
	}
}

func (s *AutoReplyJob) Run() {
	traceID := "job-reply-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	locked, err := redis.TryLock(ctx, consts.ReplySweepLock, traceID, 2*time.Minute, 1)
	if err != nil {
		log.ErrorContext(ctx, "获取自动回复锁失败", "err", err)
		return
	}
	if !locked {
		log.InfoContext(ctx, "自动回复已有实例在跑，本轮跳过")
		return
	}
	defer redis.UnLock(ctx, consts.ReplySweepLock, traceID)

	result := s.interactionService.ReplyPending(ctx)
	if result.ConfigSkip {
		log.WarnContext(ctx, "自动回复扫描跳过", "warning", result.Warning)
	}
}

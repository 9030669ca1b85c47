package job

import (
	"Limelight/internal/pkg/consts"
	"Limelight/internal/pkg/logger"
	"Limelight/internal/pkg/redis"
	"Limelight/internal/service"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// ContentJob 定时消费趋势池生成新内容，产出进入待审队列。
// 媒体生成链路较长，锁的有效期放宽到十分钟。
type ContentJob struct {
	contentService service.ContentService
}

func NewContentJob(contentService service.ContentService) *ContentJob {
	return &ContentJob{
		contentService: contentService,
	}
}

func (s *ContentJob) Run() {
	traceID := "job-content-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	locked, err := redis.TryLock(ctx, consts.ContentGenLock, traceID, 10*time.Minute, 1)
	if err != nil {
		log.ErrorContext(ctx, "获取内容生成锁失败", "err", err)
		return
	}
	if !locked {
		log.InfoContext(ctx, "内容生成已有实例在跑，本轮跳过")
		return
	}
	defer redis.UnLock(ctx, consts.ContentGenLock, traceID)

	post, err := s.contentService.GenerateFromTrend(ctx)
	if errors.Is(err, service.ErrNoTrendAvailable) {
		log.InfoContext(ctx, "趋势池为空，本轮不生成内容")
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "内容生成执行失败", "err", err)
		return
	}

	log.InfoContext(ctx, "内容生成任务完成", "post_id", post.ID)
}

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

// TrendJob 定时抓取趋势来源，补充趋势池
type TrendJob struct {
	trendService service.TrendService
}

func NewTrendJob(trendService service.TrendService) *TrendJob {
	return &TrendJob{
		trendService: trendService,
	}
}

func (s *TrendJob) Run() {
	traceID := "job-trend-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	locked, err := redis.TryLock(ctx, consts.TrendSweepLock, traceID, 5*time.Minute, 1)
	if err != nil {
		log.ErrorContext(ctx, "获取趋势采集锁失败", "err", err)
		return
	}
	if !locked {
		log.InfoContext(ctx, "趋势采集已有实例在跑，本轮跳过")
		return
	}
	defer redis.UnLock(ctx, consts.TrendSweepLock, traceID)

	if _, err := s.trendService.RefreshTrends(ctx); err != nil {
		log.ErrorContext(ctx, "趋势采集执行失败", "err", err)
	}
}

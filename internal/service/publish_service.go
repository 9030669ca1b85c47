package service

import (
	"Limelight/internal/model"
	"Limelight/internal/pkg/mongo"
	"Limelight/internal/pkg/publisher"
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"
)

// PublishOutcome PublishOne 的分类结果
type PublishOutcome struct {
	Posted    bool // 至少一个平台成功且状态已置为 posted
	Skipped   bool // 条件更新未命中，说明其他路径已经发布过
	Platforms map[string]model.PlatformResult
	Errors    []string
}

// SweepResult 一轮发布扫描的汇总
type SweepResult struct {
	Scanned    int
	Posted     int
	Partial    int
	Failed     int
	ConfigSkip bool
	Warning    string
}

// ImmediatePublisher 审批通过后的即时发布入口。
// 由装配层注入到审批服务，避免审批与发布两个模块互相引用。
type ImmediatePublisher interface {
	PublishImmediately(ctx context.Context, post *model.Post) *PublishOutcome
}

type PublishService interface {
	ImmediatePublisher
	IsConfigured() bool
	PublishOne(ctx context.Context, post *model.Post) (*PublishOutcome, error)
	PublishDue(ctx context.Context) (*SweepResult, error)
}

type publishServiceImpl struct {
	postRepo  mongo.PostRepo
	auditRepo mongo.AuditRepo
	adapters  []publisher.Adapter
	batchSize int64
	now       func() time.Time
}

func NewPublishService(postRepo mongo.PostRepo, auditRepo mongo.AuditRepo, adapters []publisher.Adapter, batchSize int64) PublishService {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &publishServiceImpl{
		postRepo:  postRepo,
		auditRepo: auditRepo,
		adapters:  adapters,
		batchSize: batchSize,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// IsConfigured 至少有一个平台适配器可用
func (s *publishServiceImpl) IsConfigured() bool {
	for _, adapter := range s.adapters {
		if adapter.IsConfigured() {
			return true
		}
	}
	return false
}

// PublishOne 把一条已审批帖子分发到所有已配置平台。
// 单个平台失败不影响其余平台；只要有一个平台成功，帖子即视为已发布，
// 失败平台记入 posting_errors。全部失败时帖子保持 approved，等待下轮扫描重试。
func (s *publishServiceImpl) PublishOne(ctx context.Context, post *model.Post) (*PublishOutcome, error) {
	outcome := &PublishOutcome{
		Platforms: make(map[string]model.PlatformResult),
	}

	req := &publisher.PublishRequest{
		MediaURL:     post.MediaURL,
		ThumbnailURL: post.ThumbnailURL,
		Caption:      post.FullPost,
		MediaType:    post.Type,
	}

	for _, adapter := range s.adapters {
		if !adapter.IsConfigured() {
			continue
		}

		res, err := adapter.Publish(ctx, req)
		if err != nil {
			log.ErrorContext(ctx, "平台发布失败", "platform", adapter.Platform(), "post_id", post.ID.Hex(), "err", err)
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: %v", adapter.Platform(), err))
			continue
		}

		outcome.Platforms[adapter.Platform()] = model.PlatformResult{
			PostID:   res.PlatformPostID,
			PostedAt: s.now(),
		}
	}

	if len(outcome.Platforms) == 0 {
		// 全部失败，帖子保持 approved，由扫描重试
		s.audit(ctx, "publish_failed", post, outcome)
		return outcome, nil
	}

	matched, err := s.postRepo.MarkPosted(ctx, post.ID.Hex(), outcome.Platforms, outcome.Errors, s.now())
	if err != nil {
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("store: %v", err))
		return outcome, err
	}
	if !matched {
		// 条件更新未命中：即时发布与定时扫描赛跑时另一方已经发布，静默跳过
		outcome.Skipped = true
		log.WarnContext(ctx, "帖子已被其他路径发布，跳过落库", "post_id", post.ID.Hex())
		return outcome, nil
	}

	outcome.Posted = true
	if len(outcome.Errors) > 0 {
		s.audit(ctx, "publish_partial", post, outcome)
	} else {
		s.audit(ctx, "publish_success", post, outcome)
	}
	return outcome, nil
}

// PublishImmediately 即时发布路径：任何失败都不外抛，换成"稍后重试"的结果。
// 审批操作绝不能因为发布失败而失败。
func (s *publishServiceImpl) PublishImmediately(ctx context.Context, post *model.Post) *PublishOutcome {
	if !s.IsConfigured() {
		return &PublishOutcome{Errors: []string{"发布渠道未配置"}}
	}

	outcome, err := s.PublishOne(ctx, post)
	if err != nil {
		log.ErrorContext(ctx, "即时发布失败，等待扫描重试", "post_id", post.ID.Hex(), "err", err)
	}
	return outcome
}

// PublishDue 周期扫描：捞出所有到期的已审批帖子逐条发布。
// 单条失败只记数，不中断批次。
func (s *publishServiceImpl) PublishDue(ctx context.Context) (*SweepResult, error) {
	result := &SweepResult{}

	if !s.IsConfigured() {
		result.ConfigSkip = true
		result.Warning = "发布渠道未配置，本轮扫描跳过"
		log.WarnContext(ctx, result.Warning)
		return result, nil
	}

	posts, err := s.postRepo.FindDueApproved(ctx, s.now(), s.batchSize)
	if err != nil {
		return nil, err
	}
	result.Scanned = len(posts)

	for _, post := range posts {
		outcome, err := s.PublishOne(ctx, post)
		if err != nil {
			log.ErrorContext(ctx, "扫描发布单条失败", "post_id", post.ID.Hex(), "err", err)
			result.Failed++
			continue
		}

		switch {
		case outcome.Posted && len(outcome.Errors) > 0:
			result.Partial++
		case outcome.Posted || outcome.Skipped:
			result.Posted++
		default:
			result.Failed++
		}
	}

	log.InfoContext(ctx, "发布扫描完成",
		"scanned", result.Scanned,
		"posted", result.Posted,
		"partial", result.Partial,
		"failed", result.Failed)
	return result, nil
}

func (s *publishServiceImpl) audit(ctx context.Context, logType string, post *model.Post, outcome *PublishOutcome) {
	platforms := make([]string, 0, len(outcome.Platforms))
	for name := range outcome.Platforms {
		platforms = append(platforms, name)
	}

	err := s.auditRepo.Append(ctx, logType, map[string]any{
		"post_id":   post.ID.Hex(),
		"type":      post.Type,
		"platforms": strings.Join(platforms, ","),
		"errors":    outcome.Errors,
	})
	if err != nil {
		log.ErrorContext(ctx, "审计日志写入失败", "type", logType, "err", err)
	}
}

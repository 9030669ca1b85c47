package service

import (
	"Limelight/internal/api/dto"
	"Limelight/internal/model"
	"Limelight/internal/pkg/llm"
	"Limelight/internal/pkg/mongo"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

type ApprovalService interface {
	Approve(ctx context.Context, id string, actor string, scheduledTime *time.Time) (*dto.ApprovalResultDTO, error)
	Reject(ctx context.Context, id string, actor string, reason string) (*dto.PostDTO, error)
	Edit(ctx context.Context, id string, actor string, updates map[string]any) (*dto.ApprovalResultDTO, error)
	GetApprovalHistory(ctx context.Context, id string) (*dto.ApprovalHistoryDTO, error)
	GetPendingPosts(ctx context.Context) ([]*dto.PostDTO, error)
	GetApprovedPosts(ctx context.Context, before *time.Time) ([]*dto.PostDTO, error)
	GetPostStatistics(ctx context.Context) (*dto.PostStatisticsDTO, error)
}

type approvalServiceImpl struct {
	postRepo    mongo.PostRepo
	auditRepo   mongo.AuditRepo
	publisher   ImmediatePublisher
	publishHour int
	listLimit   int64
	now         func() time.Time
}

func NewApprovalService(postRepo mongo.PostRepo, auditRepo mongo.AuditRepo, publisher ImmediatePublisher, publishHour int) ApprovalService {
	return &approvalServiceImpl{
		postRepo:    postRepo,
		auditRepo:   auditRepo,
		publisher:   publisher,
		publishHour: publishHour,
		listLimit:   100,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Approve 审批通过一条待审帖子，并当场尝试发布。
// 发布失败不会让审批失败：帖子保持 approved，结果里带上 postingError，
// 由周期扫描在计划时间后重试。
func (s *approvalServiceImpl) Approve(ctx context.Context, id string, actor string, scheduledTime *time.Time) (*dto.ApprovalResultDTO, error) {
	post, err := s.loadMutablePost(ctx, id)
	if err != nil {
		return nil, err
	}

	if !model.CanTransition(post.Status, model.PostStatusApproved) {
		return nil, ErrStatusNotAllowed
	}

	tr := &mongo.PostTransition{
		Status: model.PostStatusApproved,
		ApprovalEntry: &model.ApprovalEntry{
			Action:         model.ApprovalActionApproved,
			Actor:          actor,
			PreviousStatus: post.Status,
			Timestamp:      s.now(),
		},
	}
	tr.ScheduledPostTime = s.resolveSchedule(post, scheduledTime)

	if err := s.applyTransition(ctx, id, tr); err != nil {
		return nil, err
	}

	s.auditTransition(ctx, "post_approved", id, actor, post.Status)

	return s.publishAfterApproval(ctx, id)
}

// Reject 驳回一条帖子，原因必填。已发布的帖子是终态，不可驳回。
func (s *approvalServiceImpl) Reject(ctx context.Context, id string, actor string, reason string) (*dto.PostDTO, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	post, err := s.loadMutablePost(ctx, id)
	if err != nil {
		return nil, err
	}

	tr := &mongo.PostTransition{
		Status:          model.PostStatusRejected,
		RejectionReason: reason,
		ApprovalEntry: &model.ApprovalEntry{
			Action:         model.ApprovalActionRejected,
			Actor:          actor,
			PreviousStatus: post.Status,
			Extra:          reason,
			Timestamp:      s.now(),
		},
	}

	if err := s.applyTransition(ctx, id, tr); err != nil {
		return nil, err
	}

	s.auditTransition(ctx, "post_rejected", id, actor, post.Status)

	updated, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPostDTO(updated), nil
}

// Edit 编辑等价于"驳回 AI 草稿的措辞、换上人工措辞并一步审批通过"，
// 避免出现"已编辑未审批"的中间态。只记录真正发生变化的字段。
func (s *approvalServiceImpl) Edit(ctx context.Context, id string, actor string, updates map[string]any) (*dto.ApprovalResultDTO, error) {
	if len(updates) == 0 {
		return nil, ErrEmptyUpdates
	}

	post, err := s.loadMutablePost(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, editEntries, err := s.diffUpdates(post, actor, updates)
	if err != nil {
		return nil, err
	}

	tr := &mongo.PostTransition{
		Status:      model.PostStatusApproved,
		Fields:      fields,
		EditEntries: editEntries,
		ApprovalEntry: &model.ApprovalEntry{
			Action:         model.ApprovalActionEditedAndApproved,
			Actor:          actor,
			PreviousStatus: post.Status,
			Timestamp:      s.now(),
		},
	}
	tr.ScheduledPostTime = s.resolveSchedule(post, nil)

	if err := s.applyTransition(ctx, id, tr); err != nil {
		return nil, err
	}

	s.auditTransition(ctx, "post_edited_and_approved", id, actor, post.Status)

	return s.publishAfterApproval(ctx, id)
}

func (s *approvalServiceImpl) GetApprovalHistory(ctx context.Context, id string) (*dto.ApprovalHistoryDTO, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	return &dto.ApprovalHistoryDTO{
		ApprovalHistory: post.ApprovalHistory,
		EditHistory:     post.EditHistory,
		RejectionReason: post.RejectionReason,
	}, nil
}

func (s *approvalServiceImpl) GetPendingPosts(ctx context.Context) ([]*dto.PostDTO, error) {
	posts, err := s.postRepo.FindByStatus(ctx, model.PostStatusPending, s.listLimit)
	if err != nil {
		return nil, err
	}
	return toPostDTOs(posts), nil
}

func (s *approvalServiceImpl) GetApprovedPosts(ctx context.Context, before *time.Time) ([]*dto.PostDTO, error) {
	if before == nil {
		posts, err := s.postRepo.FindByStatus(ctx, model.PostStatusApproved, s.listLimit)
		if err != nil {
			return nil, err
		}
		return toPostDTOs(posts), nil
	}

	posts, err := s.postRepo.FindDueApproved(ctx, *before, s.listLimit)
	if err != nil {
		return nil, err
	}
	return toPostDTOs(posts), nil
}

func (s *approvalServiceImpl) GetPostStatistics(ctx context.Context) (*dto.PostStatisticsDTO, error) {
	counts, err := s.postRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.PostStatisticsDTO{
		Pending:  counts[model.PostStatusPending],
		Approved: counts[model.PostStatusApproved],
		Rejected: counts[model.PostStatusRejected],
		Posted:   counts[model.PostStatusPosted],
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected + stats.Posted
	return stats, nil
}

// loadMutablePost 取出帖子并校验非终态
func (s *approvalServiceImpl) loadMutablePost(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.Status == model.PostStatusPosted {
		return nil, ErrPostAlreadyPublished
	}
	return post, nil
}

// resolveSchedule 计划时间取值：调用方显式指定优先；帖子没有计划时间时
// 给默认值——当天 UTC 的固定发布小时，已经过点就顺延到明天。
func (s *approvalServiceImpl) resolveSchedule(post *model.Post, scheduledTime *time.Time) *time.Time {
	if scheduledTime != nil {
		t := scheduledTime.UTC()
		return &t
	}
	if post.ScheduledPostTime != nil {
		return nil
	}

	now := s.now()
	slot := time.Date(now.Year(), now.Month(), now.Day(), s.publishHour, 0, 0, 0, time.UTC)
	if !now.Before(slot) {
		slot = slot.AddDate(0, 0, 1)
	}
	return &slot
}

// diffUpdates 比对编辑字段，产出 $set 内容与编辑历史；不认识的字段直接拒绝
func (s *approvalServiceImpl) diffUpdates(post *model.Post, actor string, updates map[string]any) (map[string]any, []model.EditEntry, error) {
	fields := make(map[string]any)
	var entries []model.EditEntry

	caption := post.Caption
	hashtags := post.Hashtags
	cta := post.CTA

	appendEntry := func(field, oldValue, newValue string) {
		entries = append(entries, model.EditEntry{
			Field:     field,
			OldValue:  oldValue,
			NewValue:  newValue,
			Actor:     actor,
			Timestamp: s.now(),
		})
	}

	for field, raw := range updates {
		switch field {
		case "caption":
			value, ok := raw.(string)
			if !ok {
				return nil, nil, ErrParamInvalid
			}
			if value != post.Caption {
				appendEntry("caption", post.Caption, value)
				fields["caption"] = value
				caption = value
			}
		case "cta":
			value, ok := raw.(string)
			if !ok {
				return nil, nil, ErrParamInvalid
			}
			if value != post.CTA {
				appendEntry("cta", post.CTA, value)
				fields["cta"] = value
				cta = value
			}
		case "hashtags":
			value, err := toStringSlice(raw)
			if err != nil {
				return nil, nil, ErrParamInvalid
			}
			oldJoined := strings.Join(post.Hashtags, " ")
			newJoined := strings.Join(value, " ")
			if oldJoined != newJoined {
				appendEntry("hashtags", oldJoined, newJoined)
				fields["hashtags"] = value
				hashtags = value
			}
		default:
			return nil, nil, ErrParamInvalid
		}
	}

	// 内容字段有变化时重新拼接完整文案
	if len(fields) > 0 {
		fields["full_post"] = llm.ComposeFullPost(caption, hashtags, cta)
	}

	return fields, entries, nil
}

// publishAfterApproval 流转落库后的即时发布与结果组装
func (s *approvalServiceImpl) publishAfterApproval(ctx context.Context, id string) (*dto.ApprovalResultDTO, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	outcome := s.publisher.PublishImmediately(ctx, post)

	result := &dto.ApprovalResultDTO{}

	if outcome.Posted || outcome.Skipped {
		result.ImmediatePost = true
		updated, err := s.postRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		result.Post = toPostDTO(updated)
		return result, nil
	}

	result.PostingError = strings.Join(outcome.Errors, "; ")
	if result.PostingError != "" {
		if err := s.postRepo.SetPostingError(ctx, id, result.PostingError); err != nil {
			log.ErrorContext(ctx, "记录发布失败注记失败", "post_id", id, "err", err)
		}
	}

	updated, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result.Post = toPostDTO(updated)
	return result, nil
}

func (s *approvalServiceImpl) applyTransition(ctx context.Context, id string, tr *mongo.PostTransition) error {
	err := s.postRepo.ApplyTransition(ctx, id, tr)
	if errors.Is(err, mongodrv.ErrNoDocuments) {
		return ErrPostNotFound
	}
	return err
}

func (s *approvalServiceImpl) auditTransition(ctx context.Context, logType string, id string, actor string, previousStatus string) {
	err := s.auditRepo.Append(ctx, logType, map[string]any{
		"post_id":         id,
		"actor":           actor,
		"previous_status": previousStatus,
	})
	if err != nil {
		log.ErrorContext(ctx, "审计日志写入失败", "type", logType, "err", err)
	}
}

func toStringSlice(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, ErrParamInvalid
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, ErrParamInvalid
	}
}

func toPostDTO(post *model.Post) *dto.PostDTO {
	if post == nil {
		return nil
	}
	var out dto.PostDTO
	_ = copier.Copy(&out, post)
	out.ID = post.ID.Hex()
	return &out
}

func toPostDTOs(posts []*model.Post) []*dto.PostDTO {
	out := make([]*dto.PostDTO, 0, len(posts))
	for _, post := range posts {
		out = append(out, toPostDTO(post))
	}
	return out
}

package service

import (
	"Limelight/internal/api/dto"
	"Limelight/internal/model"
	"Limelight/internal/pkg/llm"
	"Limelight/internal/pkg/mongo"
	"Limelight/internal/pkg/publisher"
	"context"
	log "log/slog"
	"strings"
	"time"

	"github.com/jinzhu/copier"
)

// ReplyGenerator 回复文案生成器，生产实现走 LLM
type ReplyGenerator interface {
	Generate(ctx context.Context, req *llm.ReplyRequest) (string, error)
}

type llmReplyGenerator struct{}

func NewLLMReplyGenerator() ReplyGenerator {
	return &llmReplyGenerator{}
}

func (s *llmReplyGenerator) Generate(ctx context.Context, req *llm.ReplyRequest) (string, error) {
	return llm.GenerateInteractionResponse(ctx, req)
}

type InteractionService interface {
	ReplyPending(ctx context.Context) *dto.ReplySweepDTO
	RequeueFailed(ctx context.Context) (*dto.RequeueResultDTO, error)
	ListInteractions(ctx context.Context, query *dto.InteractionListQuery) ([]*dto.InteractionDTO, error)
	CreateInbound(ctx context.Context, it *model.Interaction) (string, error)
}

type interactionServiceImpl struct {
	interactionRepo mongo.InteractionRepo
	settingsRepo    mongo.SettingsRepo
	auditRepo       mongo.AuditRepo
	adapters        []publisher.Adapter
	generator       ReplyGenerator
	batchSize       int64
	now             func() time.Time
}

func NewInteractionService(
	interactionRepo mongo.InteractionRepo,
	settingsRepo mongo.SettingsRepo,
	auditRepo mongo.AuditRepo,
	adapters []publisher.Adapter,
	generator ReplyGenerator,
	batchSize int64,
) InteractionService {
	if batchSize <= 0 {
		batchSize = 20
	}
	return &interactionServiceImpl{
		interactionRepo: interactionRepo,
		settingsRepo:    settingsRepo,
		auditRepo:       auditRepo,
		adapters:        adapters,
		generator:       generator,
		batchSize:       batchSize,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// ReplyPending 扫描待回复互动并逐条派发。
// 失败的互动会标成 failed，不再参与后续扫描，避免反复打爆平台接口；
// 想重试要走 RequeueFailed 显式拨回。
func (s *interactionServiceImpl) ReplyPending(ctx context.Context) *dto.ReplySweepDTO {
	result := &dto.ReplySweepDTO{}

	settings, err := s.settingsRepo.GetBotSettings(ctx)
	if err != nil {
		result.ConfigSkip = true
		result.Warning = "读取机器人设置失败: " + err.Error()
		log.ErrorContext(ctx, "读取机器人设置失败", "err", err)
		return result
	}
	if !settings.AutoReplyEnabled {
		result.ConfigSkip = true
		result.Warning = "自动回复已关闭"
		return result
	}

	configured := s.configuredAdapters()
	if len(configured) == 0 {
		result.ConfigSkip = true
		result.Warning = "没有任何已配置的平台，跳过本轮回复"
		log.WarnContext(ctx, "没有任何已配置的平台，跳过本轮回复")
		return result
	}

	items, err := s.interactionRepo.FindByStatus(ctx, model.InteractionStatusPending, s.batchSize)
	if err != nil {
		result.Warning = "查询待回复互动失败: " + err.Error()
		log.ErrorContext(ctx, "查询待回复互动失败", "err", err)
		return result
	}

	for _, it := range items {
		adapter, ok := configured[it.Platform]
		if !ok {
			// 平台未配置的互动保持 pending，等配置补上后下一轮处理
			result.Skipped++
			continue
		}

		if err := s.replyOne(ctx, adapter, it, settings.ReplySignature); err != nil {
			result.Failed++
			if markErr := s.interactionRepo.MarkFailed(ctx, it.ID.Hex(), err.Error(), s.now()); markErr != nil {
				log.ErrorContext(ctx, "标记互动失败状态时出错", "interaction_id", it.ID.Hex(), "err", markErr)
			}
			log.WarnContext(ctx, "互动回复发送失败", "interaction_id", it.ID.Hex(), "platform", it.Platform, "err", err)
			continue
		}
		result.Replied++
	}

	if len(items) > 0 {
		s.auditSweep(ctx, result)
		log.InfoContext(ctx, "自动回复扫描完成",
			"scanned", len(items), "replied", result.Replied, "failed", result.Failed, "skipped", result.Skipped)
	}
	return result
}

// replyOne 单条互动的文案生成与派发。AI 不可用时退回预置话术，不让整轮扫描卡死。
func (s *interactionServiceImpl) replyOne(ctx context.Context, adapter publisher.Adapter, it *model.Interaction, signature string) error {
	text := it.BotResponse
	if text == "" {
		generated, err := s.generator.Generate(ctx, &llm.ReplyRequest{
			Message:  it.UserMessage,
			Platform: it.Platform,
			Type:     it.Type,
			Category: it.Category,
		})
		if err != nil {
			log.WarnContext(ctx, "AI 回复生成失败，使用预置话术", "interaction_id", it.ID.Hex(), "err", err)
			generated = llm.FallbackReply(it.Category)
		}
		text = generated
	}
	if signature != "" {
		text = text + "\n" + signature
	}

	reply, err := adapter.SendReply(ctx, it.Type, it.TargetID, text)
	if err != nil {
		return err
	}

	return s.interactionRepo.MarkResponded(ctx, it.ID.Hex(), text, reply.MessageID, s.now())
}

func (s *interactionServiceImpl) RequeueFailed(ctx context.Context) (*dto.RequeueResultDTO, error) {
	count, err := s.interactionRepo.RequeueFailed(ctx)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		if auditErr := s.auditRepo.Append(ctx, "interactions_requeued", map[string]any{"count": count}); auditErr != nil {
			log.ErrorContext(ctx, "审计日志写入失败", "type", "interactions_requeued", "err", auditErr)
		}
	}
	return &dto.RequeueResultDTO{Requeued: count}, nil
}

func (s *interactionServiceImpl) ListInteractions(ctx context.Context, query *dto.InteractionListQuery) ([]*dto.InteractionDTO, error) {
	status := query.Status
	if status == "" {
		status = model.InteractionStatusPending
	}
	limit := query.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	items, err := s.interactionRepo.FindByStatus(ctx, status, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.InteractionDTO, 0, len(items))
	for _, it := range items {
		var d dto.InteractionDTO
		_ = copier.Copy(&d, it)
		d.ID = it.ID.Hex()
		out = append(out, &d)
	}
	return out, nil
}

// CreateInbound Webhook 收到的互动入库，等待自动回复扫描处理
func (s *interactionServiceImpl) CreateInbound(ctx context.Context, it *model.Interaction) (string, error) {
	if it.Platform == "" || it.Type == "" || it.TargetID == "" {
		return "", ErrParamInvalid
	}
	it.Status = model.InteractionStatusPending
	if it.Category == "" {
		it.Category = categorizeMessage(it.UserMessage)
	}
	return s.interactionRepo.Insert(ctx, it)
}

// categoryKeywords 关键词粗分类，决定 AI 不可用时兜底话术的选择
var categoryKeywords = map[string][]string{
	"pricing":  {"price", "cost", "how much", "价格", "多少钱"},
	"support":  {"help", "broken", "not working", "issue", "问题", "坏了"},
	"collab":   {"collab", "partner", "sponsor", "合作"},
	"shipping": {"ship", "delivery", "track", "物流", "发货"},
}

func categorizeMessage(message string) string {
	lowered := strings.ToLower(message)
	for category, keywords := range categoryKeywords {
		for _, keyword := range keywords {
			if strings.Contains(lowered, keyword) {
				return category
			}
		}
	}
	return ""
}

func (s *interactionServiceImpl) configuredAdapters() map[string]publisher.Adapter {
	out := make(map[string]publisher.Adapter, len(s.adapters))
	for _, adapter := range s.adapters {
		if adapter.IsConfigured() {
			out[adapter.Platform()] = adapter
		}
	}
	return out
}

func (s *interactionServiceImpl) auditSweep(ctx context.Context, result *dto.ReplySweepDTO) {
	err := s.auditRepo.Append(ctx, "reply_sweep", map[string]any{
		"replied": result.Replied,
		"failed":  result.Failed,
		"skipped": result.Skipped,
	})
	if err != nil {
		log.ErrorContext(ctx, "审计日志写入失败", "type", "reply_sweep", "err", err)
	}
}

package service

import (
	"Limelight/internal/model"
	mongorepo "Limelight/internal/pkg/mongo"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInteractionService(
	repo *fakeInteractionRepo,
	settings mongorepo.BotSettings,
	adapters []*fakeAdapter,
	generator ReplyGenerator,
) *interactionServiceImpl {
	svc := NewInteractionService(
		repo, &fakeSettingsRepo{settings: settings}, &fakeAuditRepo{},
		toAdapters(adapters), generator, 20,
	).(*interactionServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func seedInteraction(repo *fakeInteractionRepo, platform string, status string) *model.Interaction {
	it := &model.Interaction{
		Platform:    platform,
		Type:        "comment",
		TargetID:    "c-1",
		UserMessage: "这个多少钱？",
		Status:      status,
	}
	_, _ = repo.Insert(context.Background(), it)
	return it
}

func TestReplyPendingSendsGeneratedReply(t *testing.T) {
	repo := newFakeInteractionRepo()
	it := seedInteraction(repo, "instagram", model.InteractionStatusPending)

	adapter := &fakeAdapter{platform: "instagram", configured: true}
	svc := newTestInteractionService(repo,
		mongorepo.BotSettings{AutoReplyEnabled: true, ReplySignature: "— Limelight 团队"},
		[]*fakeAdapter{adapter},
		&fakeReplyGenerator{reply: "感谢关注，详情请看主页链接"},
	)

	result := svc.ReplyPending(context.Background())

	assert.Equal(t, 1, result.Replied)
	assert.Zero(t, result.Failed)
	assert.Equal(t, model.InteractionStatusResponded, it.Status)
	assert.Equal(t, "instagram-msg", it.MessageID)
	assert.NotNil(t, it.RespondedAt)

	// 签名追加在回复末尾
	require.Len(t, adapter.sentTexts, 1)
	assert.Contains(t, adapter.sentTexts[0], "感谢关注")
	assert.Contains(t, adapter.sentTexts[0], "— Limelight 团队")
}

func TestReplyPendingFallbackOnAIError(t *testing.T) {
	repo := newFakeInteractionRepo()
	it := seedInteraction(repo, "instagram", model.InteractionStatusPending)
	it.Category = "pricing"

	adapter := &fakeAdapter{platform: "instagram", configured: true}
	svc := newTestInteractionService(repo,
		mongorepo.BotSettings{AutoReplyEnabled: true},
		[]*fakeAdapter{adapter},
		&fakeReplyGenerator{err: assert.AnError},
	)

	result := svc.ReplyPending(context.Background())

	// AI 挂了也要回，用预置话术兜底
	assert.Equal(t, 1, result.Replied)
	assert.Equal(t, model.InteractionStatusResponded, it.Status)
	require.Len(t, adapter.sentTexts, 1)
	assert.NotEmpty(t, adapter.sentTexts[0])
}

func TestReplyPendingMarksFailedOnDispatchError(t *testing.T) {
	repo := newFakeInteractionRepo()
	it := seedInteraction(repo, "instagram", model.InteractionStatusPending)

	adapter := &fakeAdapter{platform: "instagram", configured: true, replyErr: assert.AnError}
	svc := newTestInteractionService(repo,
		mongorepo.BotSettings{AutoReplyEnabled: true},
		[]*fakeAdapter{adapter},
		&fakeReplyGenerator{reply: "你好"},
	)

	result := svc.ReplyPending(context.Background())

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, model.InteractionStatusFailed, it.Status)
	assert.NotEmpty(t, it.LastError)
	assert.NotNil(t, it.LastAttemptAt)

	// failed 状态不再参与下一轮扫描
	second := svc.ReplyPending(context.Background())
	assert.Zero(t, second.Failed)
	assert.Zero(t, second.Replied)
}

func TestReplyPendingSkipsUnconfiguredPlatform(t *testing.T) {
	repo := newFakeInteractionRepo()
	it := seedInteraction(repo, "telegram", model.InteractionStatusPending)

	// telegram 未配置，instagram 配置了所以不会整体短路
	adapters := []*fakeAdapter{
		{platform: "instagram", configured: true},
		{platform: "telegram", configured: false},
	}
	svc := newTestInteractionService(repo,
		mongorepo.BotSettings{AutoReplyEnabled: true},
		adapters,
		&fakeReplyGenerator{reply: "你好"},
	)

	result := svc.ReplyPending(context.Background())

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, model.InteractionStatusPending, it.Status)
}

func TestReplyPendingDisabledBySettings(t *testing.T) {
	repo := newFakeInteractionRepo()
	it := seedInteraction(repo, "instagram", model.InteractionStatusPending)

	svc := newTestInteractionService(repo,
		mongorepo.BotSettings{AutoReplyEnabled: false},
		[]*fakeAdapter{{platform: "instagram", configured: true}},
		&fakeReplyGenerator{reply: "你好"},
	)

	result := svc.ReplyPending(context.Background())

	assert.True(t, result.ConfigSkip)
	assert.Equal(t, model.InteractionStatusPending, it.Status)
}

func TestReplyPendingConfigSkipWithoutAdapters(t *testing.T) {
	repo := newFakeInteractionRepo()
	seedInteraction(repo, "instagram", model.InteractionStatusPending)

	svc := newTestInteractionService(repo,
		mongorepo.BotSettings{AutoReplyEnabled: true},
		[]*fakeAdapter{{platform: "instagram", configured: false}},
		&fakeReplyGenerator{reply: "你好"},
	)

	result := svc.ReplyPending(context.Background())
	assert.True(t, result.ConfigSkip)
	assert.NotEmpty(t, result.Warning)
}

func TestRequeueFailed(t *testing.T) {
	repo := newFakeInteractionRepo()
	failed := seedInteraction(repo, "instagram", model.InteractionStatusFailed)
	failed.LastError = "network down"
	responded := seedInteraction(repo, "instagram", model.InteractionStatusResponded)

	svc := newTestInteractionService(repo,
		mongorepo.BotSettings{AutoReplyEnabled: true},
		[]*fakeAdapter{{platform: "instagram", configured: true}},
		&fakeReplyGenerator{reply: "你好"},
	)

	result, err := svc.RequeueFailed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Requeued)
	assert.Equal(t, model.InteractionStatusPending, failed.Status)
	assert.Empty(t, failed.LastError)
	assert.Equal(t, model.InteractionStatusResponded, responded.Status)
}

func TestCreateInboundCategorizes(t *testing.T) {
	repo := newFakeInteractionRepo()
	svc := newTestInteractionService(repo,
		mongorepo.BotSettings{AutoReplyEnabled: true},
		nil,
		&fakeReplyGenerator{reply: "你好"},
	)

	id, err := svc.CreateInbound(context.Background(), &model.Interaction{
		Platform:    "telegram",
		Type:        "dm",
		TargetID:    "12345",
		UserMessage: "When will my order ship to Canada?",
	})
	require.NoError(t, err)

	it := repo.items[id]
	require.NotNil(t, it)
	assert.Equal(t, model.InteractionStatusPending, it.Status)
	assert.Equal(t, "shipping", it.Category)

	_, err = svc.CreateInbound(context.Background(), &model.Interaction{Platform: "telegram"})
	assert.ErrorIs(t, err, ErrParamInvalid)
}

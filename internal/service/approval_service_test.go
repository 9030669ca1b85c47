package service

import (
	"Limelight/internal/model"
	"Limelight/internal/pkg/publisher"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApprovalService(postRepo *fakePostRepo, pub ImmediatePublisher, now time.Time) *approvalServiceImpl {
	svc := NewApprovalService(postRepo, &fakeAuditRepo{}, pub, 17).(*approvalServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func newTestPublishService(postRepo *fakePostRepo, adapters []*fakeAdapter, now time.Time) *publishServiceImpl {
	svc := NewPublishService(postRepo, &fakeAuditRepo{}, toAdapters(adapters), 10).(*publishServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func toAdapters(adapters []*fakeAdapter) []publisher.Adapter {
	out := make([]publisher.Adapter, 0, len(adapters))
	for _, adapter := range adapters {
		out = append(out, adapter)
	}
	return out
}

func seedPendingPost(repo *fakePostRepo) *model.Post {
	post := &model.Post{
		Type:     "image",
		MediaURL: "http://media.local/image/a.png",
		Caption:  "初始文案",
		Hashtags: []string{"tech"},
		CTA:      "点击主页链接",
		FullPost: "初始文案\n\n#tech\n\n点击主页链接",
		Status:   model.PostStatusPending,
	}
	_, _ = repo.Insert(context.Background(), post)
	return post
}

func TestApprovePublishesImmediately(t *testing.T) {
	repo := newFakePostRepo()
	post := seedPendingPost(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	adapters := []*fakeAdapter{
		{platform: "instagram", configured: true},
		{platform: "telegram", configured: true},
	}
	pub := newTestPublishService(repo, adapters, now)
	svc := newTestApprovalService(repo, pub, now)

	result, err := svc.Approve(context.Background(), post.ID.Hex(), "alice", nil)
	require.NoError(t, err)

	assert.True(t, result.ImmediatePost)
	assert.Empty(t, result.PostingError)
	assert.Equal(t, model.PostStatusPosted, result.Post.Status)
	assert.Len(t, result.Post.Platforms, 2)
	assert.NotNil(t, result.Post.PostedAt)

	// 审批历史恰好一条 approved 记录
	require.Len(t, post.ApprovalHistory, 1)
	assert.Equal(t, model.ApprovalActionApproved, post.ApprovalHistory[0].Action)
	assert.Equal(t, "alice", post.ApprovalHistory[0].Actor)
	assert.Equal(t, model.PostStatusPending, post.ApprovalHistory[0].PreviousStatus)
}

func TestApproveDefaultScheduleBeforePublishHour(t *testing.T) {
	repo := newFakePostRepo()
	post := seedPendingPost(repo)

	// 上午审批，默认计划时间落在当天 17 点
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	pub := newTestPublishService(repo, []*fakeAdapter{{platform: "instagram", configured: false}}, now)
	svc := newTestApprovalService(repo, pub, now)

	_, err := svc.Approve(context.Background(), post.ID.Hex(), "alice", nil)
	require.NoError(t, err)

	require.NotNil(t, post.ScheduledPostTime)
	assert.Equal(t, time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC), *post.ScheduledPostTime)
}

func TestApproveDefaultScheduleAfterPublishHour(t *testing.T) {
	repo := newFakePostRepo()
	post := seedPendingPost(repo)

	// 过了发布时段再审批，顺延到明天
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	pub := newTestPublishService(repo, []*fakeAdapter{{platform: "instagram", configured: false}}, now)
	svc := newTestApprovalService(repo, pub, now)

	_, err := svc.Approve(context.Background(), post.ID.Hex(), "alice", nil)
	require.NoError(t, err)

	require.NotNil(t, post.ScheduledPostTime)
	assert.Equal(t, time.Date(2026, 3, 11, 17, 0, 0, 0, time.UTC), *post.ScheduledPostTime)
}

func TestApproveKeepsExplicitSchedule(t *testing.T) {
	repo := newFakePostRepo()
	post := seedPendingPost(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	pub := newTestPublishService(repo, []*fakeAdapter{{platform: "instagram", configured: false}}, now)
	svc := newTestApprovalService(repo, pub, now)

	scheduled := time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC)
	_, err := svc.Approve(context.Background(), post.ID.Hex(), "alice", &scheduled)
	require.NoError(t, err)

	require.NotNil(t, post.ScheduledPostTime)
	assert.Equal(t, scheduled, *post.ScheduledPostTime)
}

func TestApprovePostedPostRejected(t *testing.T) {
	repo := newFakePostRepo()
	post := seedPendingPost(repo)
	post.Status = model.PostStatusPosted

	now := time.Now().UTC()
	pub := newTestPublishService(repo, nil, now)
	svc := newTestApprovalService(repo, pub, now)

	_, err := svc.Approve(context.Background(), post.ID.Hex(), "alice", nil)
	assert.ErrorIs(t, err, ErrPostAlreadyPublished)

	_, err = svc.Reject(context.Background(), post.ID.Hex(), "alice", "too late")
	assert.ErrorIs(t, err, ErrPostAlreadyPublished)

	_, err = svc.Edit(context.Background(), post.ID.Hex(), "alice", map[string]any{"caption": "x"})
	assert.ErrorIs(t, err, ErrPostAlreadyPublished)
}

func TestApproveMissingPost(t *testing.T) {
	repo := newFakePostRepo()
	now := time.Now().UTC()
	pub := newTestPublishService(repo, nil, now)
	svc := newTestApprovalService(repo, pub, now)

	_, err := svc.Approve(context.Background(), "652f1c3a9d1e8b0012345678", "alice", nil)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestApprovePublishFailureLeavesApproved(t *testing.T) {
	repo := newFakePostRepo()
	post := seedPendingPost(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	broken := &fakeAdapter{platform: "instagram", configured: true, publishErr: assert.AnError}
	pub := newTestPublishService(repo, []*fakeAdapter{broken}, now)
	svc := newTestApprovalService(repo, pub, now)

	result, err := svc.Approve(context.Background(), post.ID.Hex(), "alice", &now)
	require.NoError(t, err)

	// 审批成功但发布失败：帖子保持 approved 等待扫描重试
	assert.False(t, result.ImmediatePost)
	assert.NotEmpty(t, result.PostingError)
	assert.Equal(t, model.PostStatusApproved, post.Status)
	assert.Nil(t, post.PostedAt)
	assert.NotEmpty(t, post.PostingErrors)

	// 平台恢复后扫描把它发出去
	broken.publishErr = nil
	sweep, err := pub.PublishDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sweep.Posted)
	assert.Equal(t, model.PostStatusPosted, post.Status)
}

func TestRejectRequiresReason(t *testing.T) {
	repo := newFakePostRepo()
	post := seedPendingPost(repo)

	now := time.Now().UTC()
	pub := newTestPublishService(repo, nil, now)
	svc := newTestApprovalService(repo, pub, now)

	_, err := svc.Reject(context.Background(), post.ID.Hex(), "alice", "   ")
	assert.ErrorIs(t, err, ErrReasonRequired)
	assert.Equal(t, model.PostStatusPending, post.Status)
	assert.Empty(t, post.ApprovalHistory)
}

func TestRejectThenReApprove(t *testing.T) {
	repo := newFakePostRepo()
	post := seedPendingPost(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	pub := newTestPublishService(repo, []*fakeAdapter{{platform: "instagram", configured: false}}, now)
	svc := newTestApprovalService(repo, pub, now)

	rejected, err := svc.Reject(context.Background(), post.ID.Hex(), "alice", "文案太生硬")
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusRejected, rejected.Status)
	assert.Equal(t, "文案太生硬", rejected.RejectionReason)

	// 驳回后允许重新审批通过
	_, err = svc.Approve(context.Background(), post.ID.Hex(), "bob", nil)
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusApproved, post.Status)

	require.Len(t, post.ApprovalHistory, 2)
	assert.Equal(t, model.ApprovalActionRejected, post.ApprovalHistory[0].Action)
	assert.Equal(t, model.PostStatusRejected, post.ApprovalHistory[1].PreviousStatus)
}

func TestEditRecordsOnlyChangedFields(t *testing.T) {
	repo := newFakePostRepo()
	post := seedPendingPost(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	pub := newTestPublishService(repo, []*fakeAdapter{{platform: "instagram", configured: false}}, now)
	svc := newTestApprovalService(repo, pub, now)

	updates := map[string]any{
		"caption":  "人工改写的文案",
		"cta":      post.CTA, // 与原值相同，不应产生编辑记录
		"hashtags": []any{"tech", "ai"},
	}
	result, err := svc.Edit(context.Background(), post.ID.Hex(), "alice", updates)
	require.NoError(t, err)

	assert.Equal(t, "人工改写的文案", post.Caption)
	assert.Equal(t, []string{"tech", "ai"}, post.Hashtags)

	require.Len(t, post.EditHistory, 2)
	fields := []string{post.EditHistory[0].Field, post.EditHistory[1].Field}
	assert.ElementsMatch(t, []string{"caption", "hashtags"}, fields)

	// full_post 随内容字段重算
	assert.Contains(t, post.FullPost, "人工改写的文案")
	assert.Contains(t, post.FullPost, "#ai")

	require.Len(t, post.ApprovalHistory, 1)
	assert.Equal(t, model.ApprovalActionEditedAndApproved, post.ApprovalHistory[0].Action)
	assert.NotNil(t, result.Post)
}

func TestEditRejectsUnknownField(t *testing.T) {
	repo := newFakePostRepo()
	post := seedPendingPost(repo)

	now := time.Now().UTC()
	pub := newTestPublishService(repo, nil, now)
	svc := newTestApprovalService(repo, pub, now)

	_, err := svc.Edit(context.Background(), post.ID.Hex(), "alice", map[string]any{"status": "posted"})
	assert.ErrorIs(t, err, ErrParamInvalid)
	assert.Equal(t, model.PostStatusPending, post.Status)
}

func TestEditEmptyUpdates(t *testing.T) {
	repo := newFakePostRepo()
	post := seedPendingPost(repo)

	now := time.Now().UTC()
	pub := newTestPublishService(repo, nil, now)
	svc := newTestApprovalService(repo, pub, now)

	_, err := svc.Edit(context.Background(), post.ID.Hex(), "alice", map[string]any{})
	assert.ErrorIs(t, err, ErrEmptyUpdates)
}

func TestGetPostStatistics(t *testing.T) {
	repo := newFakePostRepo()
	for _, status := range []string{
		model.PostStatusPending, model.PostStatusPending,
		model.PostStatusApproved, model.PostStatusRejected, model.PostStatusPosted,
	} {
		post := seedPendingPost(repo)
		post.Status = status
	}

	now := time.Now().UTC()
	pub := newTestPublishService(repo, nil, now)
	svc := newTestApprovalService(repo, pub, now)

	stats, err := svc.GetPostStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Approved)
	assert.Equal(t, int64(1), stats.Rejected)
	assert.Equal(t, int64(1), stats.Posted)
}

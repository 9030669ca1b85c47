package service

import (
	"Limelight/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedApprovedPost(repo *fakePostRepo, scheduled time.Time) *model.Post {
	post := &model.Post{
		Type:              "image",
		MediaURL:          "http://media.local/image/a.png",
		FullPost:          "文案\n\n#tech",
		Status:            model.PostStatusApproved,
		ScheduledPostTime: &scheduled,
	}
	_, _ = repo.Insert(context.Background(), post)
	return post
}

func TestPublishOnePartialSuccess(t *testing.T) {
	repo := newFakePostRepo()
	now := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	post := seedApprovedPost(repo, now)

	adapters := []*fakeAdapter{
		{platform: "instagram", configured: true},
		{platform: "telegram", configured: true, publishErr: assert.AnError},
	}
	svc := newTestPublishService(repo, adapters, now)

	outcome, err := svc.PublishOne(context.Background(), post)
	require.NoError(t, err)

	// 一个平台成功即视为已发布，失败平台记入错误列表
	assert.True(t, outcome.Posted)
	assert.Len(t, outcome.Platforms, 1)
	assert.Contains(t, outcome.Platforms, "instagram")
	require.Len(t, outcome.Errors, 1)
	assert.Contains(t, outcome.Errors[0], "telegram")

	assert.Equal(t, model.PostStatusPosted, post.Status)
	assert.NotEmpty(t, post.PostingErrors)
	require.NotNil(t, post.PostedAt)
	assert.Equal(t, now, *post.PostedAt)
}

func TestPublishOneTotalFailure(t *testing.T) {
	repo := newFakePostRepo()
	now := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	post := seedApprovedPost(repo, now)

	adapters := []*fakeAdapter{
		{platform: "instagram", configured: true, publishErr: assert.AnError},
		{platform: "telegram", configured: true, publishErr: assert.AnError},
	}
	svc := newTestPublishService(repo, adapters, now)

	outcome, err := svc.PublishOne(context.Background(), post)
	require.NoError(t, err)

	// 全部失败：帖子保持 approved，没有 posted_at
	assert.False(t, outcome.Posted)
	assert.Len(t, outcome.Errors, 2)
	assert.Equal(t, model.PostStatusApproved, post.Status)
	assert.Nil(t, post.PostedAt)
}

func TestPublishOneRaceLost(t *testing.T) {
	repo := newFakePostRepo()
	now := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	post := seedApprovedPost(repo, now)

	adapters := []*fakeAdapter{{platform: "instagram", configured: true}}
	svc := newTestPublishService(repo, adapters, now)

	// 模拟另一条路径抢先发布：条件更新不再命中
	repo.posts[post.ID.Hex()].Status = model.PostStatusPosted
	snapshot := *post
	snapshot.Status = model.PostStatusApproved

	outcome, err := svc.PublishOne(context.Background(), &snapshot)
	require.NoError(t, err)
	assert.False(t, outcome.Posted)
	assert.True(t, outcome.Skipped)
}

func TestPublishDueConfigSkip(t *testing.T) {
	repo := newFakePostRepo()
	now := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	post := seedApprovedPost(repo, now)

	adapters := []*fakeAdapter{{platform: "instagram", configured: false}}
	svc := newTestPublishService(repo, adapters, now)

	result, err := svc.PublishDue(context.Background())
	require.NoError(t, err)

	// 渠道未配置：短路跳过，一条帖子都不碰
	assert.True(t, result.ConfigSkip)
	assert.NotEmpty(t, result.Warning)
	assert.Zero(t, result.Scanned)
	assert.Equal(t, model.PostStatusApproved, post.Status)
}

func TestPublishDueOnlyTouchesDuePosts(t *testing.T) {
	repo := newFakePostRepo()
	now := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)

	due := seedApprovedPost(repo, now.Add(-time.Hour))
	future := seedApprovedPost(repo, now.Add(time.Hour))

	adapters := []*fakeAdapter{{platform: "instagram", configured: true}}
	svc := newTestPublishService(repo, adapters, now)

	result, err := svc.PublishDue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.Posted)
	assert.Equal(t, model.PostStatusPosted, due.Status)
	assert.Equal(t, model.PostStatusApproved, future.Status)
}

func TestPublishDueMixedResults(t *testing.T) {
	repo := newFakePostRepo()
	now := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)

	first := seedApprovedPost(repo, now.Add(-2*time.Hour))
	second := seedApprovedPost(repo, now.Add(-time.Hour))
	_ = second

	broken := &fakeAdapter{platform: "telegram", configured: true, publishErr: assert.AnError}
	healthy := &fakeAdapter{platform: "instagram", configured: true}
	svc := newTestPublishService(repo, []*fakeAdapter{healthy, broken}, now)

	result, err := svc.PublishDue(context.Background())
	require.NoError(t, err)

	// 两条都发出去了，但 telegram 挂着，全部记为部分成功
	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 2, result.Partial)
	assert.Zero(t, result.Failed)
	assert.Equal(t, model.PostStatusPosted, first.Status)
}

func TestPublishImmediatelyUnconfigured(t *testing.T) {
	repo := newFakePostRepo()
	now := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	post := seedApprovedPost(repo, now)

	svc := newTestPublishService(repo, []*fakeAdapter{{platform: "instagram", configured: false}}, now)

	outcome := svc.PublishImmediately(context.Background(), post)
	assert.False(t, outcome.Posted)
	assert.NotEmpty(t, outcome.Errors)
	assert.Equal(t, model.PostStatusApproved, post.Status)
}

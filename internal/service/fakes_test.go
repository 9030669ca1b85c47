package service

import (
	"Limelight/internal/model"
	"Limelight/internal/pkg/llm"
	"Limelight/internal/pkg/media"
	mongorepo "Limelight/internal/pkg/mongo"
	"Limelight/internal/pkg/publisher"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakePostRepo 内存版 PostRepo，语义与 Mongo 实现保持一致
type fakePostRepo struct {
	posts map[string]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*model.Post)}
}

func (s *fakePostRepo) Insert(_ context.Context, post *model.Post) (string, error) {
	post.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	s.posts[post.ID.Hex()] = post
	return post.ID.Hex(), nil
}

func (s *fakePostRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	return s.posts[id], nil
}

func (s *fakePostRepo) ApplyTransition(_ context.Context, id string, tr *mongorepo.PostTransition) error {
	post, ok := s.posts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}

	post.Status = tr.Status
	if tr.ScheduledPostTime != nil {
		t := *tr.ScheduledPostTime
		post.ScheduledPostTime = &t
	}
	if tr.RejectionReason != "" {
		post.RejectionReason = tr.RejectionReason
	}
	for field, value := range tr.Fields {
		switch field {
		case "caption":
			post.Caption = value.(string)
		case "cta":
			post.CTA = value.(string)
		case "hashtags":
			post.Hashtags = value.([]string)
		case "full_post":
			post.FullPost = value.(string)
		}
	}
	if tr.ApprovalEntry != nil {
		post.ApprovalHistory = append(post.ApprovalHistory, *tr.ApprovalEntry)
	}
	post.EditHistory = append(post.EditHistory, tr.EditEntries...)
	post.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *fakePostRepo) FindByStatus(_ context.Context, status string, limit int64) ([]*model.Post, error) {
	var out []*model.Post
	for _, post := range s.posts {
		if post.Status == status && int64(len(out)) < limit {
			out = append(out, post)
		}
	}
	return out, nil
}

func (s *fakePostRepo) FindDueApproved(_ context.Context, before time.Time, limit int64) ([]*model.Post, error) {
	var out []*model.Post
	for _, post := range s.posts {
		if post.Status != model.PostStatusApproved || post.ScheduledPostTime == nil {
			continue
		}
		if post.ScheduledPostTime.After(before) {
			continue
		}
		if int64(len(out)) < limit {
			out = append(out, post)
		}
	}
	return out, nil
}

func (s *fakePostRepo) MarkPosted(_ context.Context, id string, platforms map[string]model.PlatformResult, postingErrors []string, postedAt time.Time) (bool, error) {
	post, ok := s.posts[id]
	if !ok || post.Status != model.PostStatusApproved {
		return false, nil
	}
	post.Status = model.PostStatusPosted
	post.Platforms = platforms
	if len(postingErrors) > 0 {
		post.PostingErrors = postingErrors
	}
	post.PostedAt = &postedAt
	return true, nil
}

func (s *fakePostRepo) SetPostingError(_ context.Context, id string, message string) error {
	if post, ok := s.posts[id]; ok {
		post.PostingErrors = append(post.PostingErrors, message)
	}
	return nil
}

func (s *fakePostRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, post := range s.posts {
		counts[post.Status]++
	}
	return counts, nil
}

func (s *fakePostRepo) Delete(_ context.Context, id string) error {
	delete(s.posts, id)
	return nil
}

type fakeInteractionRepo struct {
	items map[string]*model.Interaction
}

func newFakeInteractionRepo() *fakeInteractionRepo {
	return &fakeInteractionRepo{items: make(map[string]*model.Interaction)}
}

func (s *fakeInteractionRepo) Insert(_ context.Context, it *model.Interaction) (string, error) {
	it.ID = primitive.NewObjectID()
	it.CreatedAt = time.Now().UTC()
	s.items[it.ID.Hex()] = it
	return it.ID.Hex(), nil
}

func (s *fakeInteractionRepo) GetByID(_ context.Context, id string) (*model.Interaction, error) {
	return s.items[id], nil
}

func (s *fakeInteractionRepo) FindByStatus(_ context.Context, status string, limit int64) ([]*model.Interaction, error) {
	var out []*model.Interaction
	for _, it := range s.items {
		if it.Status == status && int64(len(out)) < limit {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *fakeInteractionRepo) MarkResponded(_ context.Context, id string, response string, messageID string, at time.Time) error {
	it, ok := s.items[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	it.Status = model.InteractionStatusResponded
	it.BotResponse = response
	it.MessageID = messageID
	it.RespondedAt = &at
	return nil
}

func (s *fakeInteractionRepo) MarkFailed(_ context.Context, id string, lastError string, at time.Time) error {
	it, ok := s.items[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	it.Status = model.InteractionStatusFailed
	it.LastError = lastError
	it.LastAttemptAt = &at
	return nil
}

func (s *fakeInteractionRepo) RequeueFailed(_ context.Context) (int64, error) {
	var count int64
	for _, it := range s.items {
		if it.Status == model.InteractionStatusFailed {
			it.Status = model.InteractionStatusPending
			it.LastError = ""
			count++
		}
	}
	return count, nil
}

type fakeTrendRepo struct {
	trends []*model.Trend
}

func (s *fakeTrendRepo) Insert(_ context.Context, trend *model.Trend) error {
	trend.ID = primitive.NewObjectID()
	s.trends = append(s.trends, trend)
	return nil
}

func (s *fakeTrendRepo) FindRecent(_ context.Context, limit int64) ([]*model.Trend, error) {
	if int64(len(s.trends)) < limit {
		return s.trends, nil
	}
	return s.trends[:limit], nil
}

func (s *fakeTrendRepo) NextUnused(_ context.Context) (*model.Trend, error) {
	var best *model.Trend
	for _, trend := range s.trends {
		if trend.Used {
			continue
		}
		if best == nil || trend.Score > best.Score {
			best = trend
		}
	}
	return best, nil
}

func (s *fakeTrendRepo) MarkUsed(_ context.Context, id primitive.ObjectID) error {
	for _, trend := range s.trends {
		if trend.ID == id {
			trend.Used = true
		}
	}
	return nil
}

type auditEntry struct {
	logType string
	payload map[string]any
}

type fakeAuditRepo struct {
	entries []auditEntry
}

func (s *fakeAuditRepo) Append(_ context.Context, logType string, payload map[string]any) error {
	s.entries = append(s.entries, auditEntry{logType: logType, payload: payload})
	return nil
}

type fakeSettingsRepo struct {
	settings mongorepo.BotSettings
}

func (s *fakeSettingsRepo) GetBotSettings(_ context.Context) (*mongorepo.BotSettings, error) {
	settings := s.settings
	return &settings, nil
}

// fakeAdapter 可编程的平台适配器
type fakeAdapter struct {
	platform   string
	configured bool
	publishErr error
	postSeq    int
	replyErr   error
	replySeq   int
	sentTexts  []string
}

func (s *fakeAdapter) Platform() string { return s.platform }

func (s *fakeAdapter) IsConfigured() bool { return s.configured }

func (s *fakeAdapter) Publish(_ context.Context, _ *publisher.PublishRequest) (*publisher.PublishResult, error) {
	if s.publishErr != nil {
		return nil, s.publishErr
	}
	s.postSeq++
	return &publisher.PublishResult{PlatformPostID: s.platform + "-post"}, nil
}

func (s *fakeAdapter) SendReply(_ context.Context, _ string, _ string, message string) (*publisher.ReplyResult, error) {
	if s.replyErr != nil {
		return nil, s.replyErr
	}
	s.replySeq++
	s.sentTexts = append(s.sentTexts, message)
	return &publisher.ReplyResult{MessageID: s.platform + "-msg"}, nil
}

type fakeReplyGenerator struct {
	reply string
	err   error
}

func (s *fakeReplyGenerator) Generate(_ context.Context, _ *llm.ReplyRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type fakeIdeaGenerator struct {
	idea *llm.ContentIdea
	err  error
}

func (s *fakeIdeaGenerator) Generate(_ context.Context, _ *llm.TrendBrief) (*llm.ContentIdea, error) {
	return s.idea, s.err
}

type fakeMediaProducer struct {
	asset *media.Asset
	err   error
}

func (s *fakeMediaProducer) Produce(_ context.Context, _ string, _ string) (*media.Asset, error) {
	return s.asset, s.err
}

type fakeMediaStore struct {
	objects map[string][]byte
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{objects: make(map[string][]byte)}
}

func (s *fakeMediaStore) Upload(_ context.Context, objectName string, data []byte, _ string) (string, error) {
	s.objects[objectName] = data
	return objectName, nil
}

func (s *fakeMediaStore) PublicURL(objectName string) string {
	return "http://media.local/" + objectName
}

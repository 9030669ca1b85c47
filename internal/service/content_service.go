package service

import (
	"Limelight/internal/api/dto"
	"Limelight/internal/model"
	"Limelight/internal/pkg/consts"
	"Limelight/internal/pkg/llm"
	"Limelight/internal/pkg/media"
	"Limelight/internal/pkg/minio"
	"Limelight/internal/pkg/mongo"
	"bytes"
	"context"
	"fmt"
	log "log/slog"

	"github.com/google/uuid"
)

// IdeaGenerator 内容创意生成器，生产实现走 LLM
type IdeaGenerator interface {
	Generate(ctx context.Context, brief *llm.TrendBrief) (*llm.ContentIdea, error)
}

type llmIdeaGenerator struct{}

func NewLLMIdeaGenerator() IdeaGenerator {
	return &llmIdeaGenerator{}
}

func (s *llmIdeaGenerator) Generate(ctx context.Context, brief *llm.TrendBrief) (*llm.ContentIdea, error) {
	return llm.GenerateContentIdea(ctx, brief)
}

// MediaProducer 媒体生成管线
type MediaProducer interface {
	Produce(ctx context.Context, prompt string, mediaType string) (*media.Asset, error)
}

// MediaStore 成品媒体的对象存储
type MediaStore interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
	PublicURL(objectName string) string
}

type minioMediaStore struct{}

func NewMinioMediaStore() MediaStore {
	return &minioMediaStore{}
}

func (s *minioMediaStore) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	return minio.UploadFile(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentType)
}

func (s *minioMediaStore) PublicURL(objectName string) string {
	return minio.GetPublicURL(objectName)
}

type ContentService interface {
	// GenerateFromTrend 消费一条未使用的趋势，产出待审帖子
	GenerateFromTrend(ctx context.Context) (*dto.PostDTO, error)
	// GenerateForTopic 运营指定话题直接生成，不消耗趋势池
	GenerateForTopic(ctx context.Context, topic string, summary string) (*dto.PostDTO, error)
}

type contentServiceImpl struct {
	postRepo  mongo.PostRepo
	trendRepo mongo.TrendRepo
	auditRepo mongo.AuditRepo
	ideas     IdeaGenerator
	producer  MediaProducer
	store     MediaStore
}

func NewContentService(
	postRepo mongo.PostRepo,
	trendRepo mongo.TrendRepo,
	auditRepo mongo.AuditRepo,
	ideas IdeaGenerator,
	producer MediaProducer,
	store MediaStore,
) ContentService {
	return &contentServiceImpl{
		postRepo:  postRepo,
		trendRepo: trendRepo,
		auditRepo: auditRepo,
		ideas:     ideas,
		producer:  producer,
		store:     store,
	}
}

func (s *contentServiceImpl) GenerateFromTrend(ctx context.Context) (*dto.PostDTO, error) {
	trend, err := s.trendRepo.NextUnused(ctx)
	if err != nil {
		return nil, err
	}
	if trend == nil {
		return nil, ErrNoTrendAvailable
	}

	post, err := s.generate(ctx, &llm.TrendBrief{
		Topic:   trend.Topic,
		Summary: trend.Summary,
		Source:  trend.Source,
	})
	if err != nil {
		return nil, err
	}

	// 先入库再消费趋势：生成失败时趋势留在池子里，下次还能用
	if err := s.trendRepo.MarkUsed(ctx, trend.ID); err != nil {
		log.ErrorContext(ctx, "标记趋势已消费失败", "trend_id", trend.ID.Hex(), "err", err)
	}
	return post, nil
}

func (s *contentServiceImpl) GenerateForTopic(ctx context.Context, topic string, summary string) (*dto.PostDTO, error) {
	if topic == "" {
		return nil, ErrParamInvalid
	}
	return s.generate(ctx, &llm.TrendBrief{Topic: topic, Summary: summary})
}

// generate 一条内容的完整生成链路：创意 → 媒体 → 对象存储 → 待审入库
func (s *contentServiceImpl) generate(ctx context.Context, brief *llm.TrendBrief) (*dto.PostDTO, error) {
	idea, err := s.ideas.Generate(ctx, brief)
	if err != nil {
		return nil, err
	}

	asset, err := s.producer.Produce(ctx, idea.MediaPrompt, idea.MediaType)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("%s/%s.%s", idea.MediaType, uuid.NewString(), asset.Format)
	if _, err := s.store.Upload(ctx, objectName, asset.Data, contentTypeOf(idea.MediaType, asset.Format)); err != nil {
		return nil, err
	}

	post := &model.Post{
		Type:     idea.MediaType,
		MediaURL: s.store.PublicURL(objectName),
		Format:   asset.Format,
		Width:    asset.Width,
		Height:   asset.Height,
		Duration: asset.Duration,
		FileSize: int64(len(asset.Data)),

		Caption:  idea.Caption,
		Hashtags: idea.Hashtags,
		CTA:      idea.CTA,
		FullPost: idea.FullPost,
		Category: idea.Category,

		Status: model.PostStatusPending,
	}

	if idea.MediaType == consts.MediaTypeImage {
		thumb, _, _, err := media.Thumbnail(asset.Data)
		if err != nil {
			// 缩略图失败不阻断入库，审批界面退回原图
			log.WarnContext(ctx, "缩略图生成失败", "topic", brief.Topic, "err", err)
		} else {
			thumbName := fmt.Sprintf("thumb/%s.jpg", uuid.NewString())
			if _, err := s.store.Upload(ctx, thumbName, thumb, "image/jpeg"); err != nil {
				log.WarnContext(ctx, "缩略图上传失败", "topic", brief.Topic, "err", err)
			} else {
				post.ThumbnailURL = s.store.PublicURL(thumbName)
			}
		}
	}

	id, err := s.postRepo.Insert(ctx, post)
	if err != nil {
		return nil, err
	}

	if auditErr := s.auditRepo.Append(ctx, "content_generated", map[string]any{
		"post_id": id,
		"topic":   brief.Topic,
		"type":    idea.MediaType,
	}); auditErr != nil {
		log.ErrorContext(ctx, "审计日志写入失败", "type", "content_generated", "err", auditErr)
	}

	log.InfoContext(ctx, "内容生成完成，进入待审队列", "post_id", id, "topic", brief.Topic, "type", idea.MediaType)
	return toPostDTO(post), nil
}

func contentTypeOf(mediaType string, format string) string {
	if mediaType == consts.MediaTypeVideo {
		return "video/" + format
	}
	return "image/" + format
}

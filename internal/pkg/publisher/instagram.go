package publisher

import (
	"Limelight/internal/api/config"
	"Limelight/internal/pkg/consts"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	igContainerPollInterval = 5 * time.Second
	igContainerPollLimit    = 24 // 最长等待约两分钟
)

// InstagramAdapter 基于 Graph API 的图文/视频发布适配器。
// 发布分三步：创建媒体容器，轮询容器转码状态，media_publish 定稿。
type InstagramAdapter struct {
	client *resty.Client
}

func NewInstagramAdapter() *InstagramAdapter {
	return &InstagramAdapter{
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

func (s *InstagramAdapter) Platform() string {
	return consts.PlatformInstagram
}

func (s *InstagramAdapter) IsConfigured() bool {
	cfg := config.Cfg.Instagram
	return cfg.GraphURL != "" && cfg.BusinessAccountID != "" && cfg.AccessToken != ""
}

type igIDResponse struct {
	ID string `json:"id"`
}

type igContainerStatus struct {
	StatusCode string `json:"status_code"` // IN_PROGRESS / FINISHED / ERROR
	ID         string `json:"id"`
}

type igError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (s *InstagramAdapter) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	cfg := config.Cfg.Instagram

	containerID, err := s.createContainer(ctx, req)
	if err != nil {
		return nil, err
	}

	if err = s.waitForContainer(ctx, containerID); err != nil {
		return nil, err
	}

	var published igIDResponse
	var apiErr igError
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("access_token", cfg.AccessToken).
		SetQueryParam("creation_id", containerID).
		SetResult(&published).
		SetError(&apiErr).
		Post(fmt.Sprintf("%s/%s/media_publish", cfg.GraphURL, cfg.BusinessAccountID))
	if err != nil {
		return nil, errors.Wrap(err, "instagram media_publish 请求失败")
	}
	if resp.IsError() {
		return nil, errors.Errorf("instagram media_publish 被拒绝: %s", apiErr.Error.Message)
	}

	log.InfoContext(ctx, "instagram 发布成功", "post_id", published.ID)
	return &PublishResult{PlatformPostID: published.ID}, nil
}

func (s *InstagramAdapter) createContainer(ctx context.Context, req *PublishRequest) (string, error) {
	cfg := config.Cfg.Instagram

	params := map[string]string{
		"access_token": cfg.AccessToken,
		"caption":      req.Caption,
	}
	if req.MediaType == consts.MediaTypeVideo {
		params["media_type"] = "REELS"
		params["video_url"] = req.MediaURL
		if req.ThumbnailURL != "" {
			params["cover_url"] = req.ThumbnailURL
		}
	} else {
		params["image_url"] = req.MediaURL
	}

	var created igIDResponse
	var apiErr igError
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&created).
		SetError(&apiErr).
		Post(fmt.Sprintf("%s/%s/media", cfg.GraphURL, cfg.BusinessAccountID))
	if err != nil {
		return "", errors.Wrap(err, "instagram 创建媒体容器请求失败")
	}
	if resp.IsError() {
		return "", errors.Errorf("instagram 创建媒体容器被拒绝: %s", apiErr.Error.Message)
	}
	if created.ID == "" {
		return "", errors.New("instagram 未返回容器ID")
	}
	return created.ID, nil
}

// waitForContainer 轮询容器转码状态，视频转码可能需要数十秒
func (s *InstagramAdapter) waitForContainer(ctx context.Context, containerID string) error {
	cfg := config.Cfg.Instagram

	for i := 0; i < igContainerPollLimit; i++ {
		var status igContainerStatus
		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParam("access_token", cfg.AccessToken).
			SetQueryParam("fields", "status_code").
			SetResult(&status).
			Get(fmt.Sprintf("%s/%s", cfg.GraphURL, containerID))
		if err != nil {
			return errors.Wrap(err, "instagram 查询容器状态失败")
		}
		if resp.IsError() {
			return errors.Errorf("instagram 查询容器状态失败: status=%d", resp.StatusCode())
		}

		switch status.StatusCode {
		case "FINISHED":
			return nil
		case "ERROR":
			return errors.New("instagram 媒体容器处理失败")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(igContainerPollInterval):
		}
	}

	return errors.New("instagram 媒体容器处理超时")
}

func (s *InstagramAdapter) SendReply(ctx context.Context, kind string, target string, message string) (*ReplyResult, error) {
	cfg := config.Cfg.Instagram

	var result igIDResponse
	var apiErr igError

	switch kind {
	case consts.InteractionComment:
		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParam("access_token", cfg.AccessToken).
			SetFormData(map[string]string{"message": message}).
			SetResult(&result).
			SetError(&apiErr).
			Post(fmt.Sprintf("%s/%s/replies", cfg.GraphURL, target))
		if err != nil {
			return nil, errors.Wrap(err, "instagram 评论回复请求失败")
		}
		if resp.IsError() {
			return nil, errors.Errorf("instagram 评论回复被拒绝: %s", apiErr.Error.Message)
		}
	case consts.InteractionDM:
		body := map[string]any{
			"recipient": map[string]string{"id": target},
			"message":   map[string]string{"text": message},
		}
		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParam("access_token", cfg.AccessToken).
			SetBody(body).
			SetResult(&result).
			SetError(&apiErr).
			Post(fmt.Sprintf("%s/%s/messages", cfg.GraphURL, cfg.BusinessAccountID))
		if err != nil {
			return nil, errors.Wrap(err, "instagram 私信请求失败")
		}
		if resp.IsError() {
			return nil, errors.Errorf("instagram 私信被拒绝: %s", apiErr.Error.Message)
		}
	default:
		return nil, errors.Errorf("不支持的互动类型: %s", kind)
	}

	return &ReplyResult{MessageID: result.ID}, nil
}

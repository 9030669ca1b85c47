package publisher

import (
	"Limelight/internal/api/config"
	"Limelight/internal/pkg/consts"
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// TelegramAdapter 频道广播适配器，走 Bot API
type TelegramAdapter struct {
	client *resty.Client
}

func NewTelegramAdapter() *TelegramAdapter {
	return &TelegramAdapter{
		client: resty.New().SetTimeout(20 * time.Second),
	}
}

func (s *TelegramAdapter) Platform() string {
	return consts.PlatformTelegram
}

func (s *TelegramAdapter) IsConfigured() bool {
	cfg := config.Cfg.Telegram
	return cfg.APIURL != "" && cfg.BotToken != "" && cfg.ChannelID != ""
}

type tgResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

func (s *TelegramAdapter) endpoint(method string) string {
	cfg := config.Cfg.Telegram
	return fmt.Sprintf("%s/bot%s/%s", cfg.APIURL, cfg.BotToken, method)
}

func (s *TelegramAdapter) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	cfg := config.Cfg.Telegram

	method := "sendPhoto"
	body := map[string]any{
		"chat_id": cfg.ChannelID,
		"caption": req.Caption,
	}
	if req.MediaType == consts.MediaTypeVideo {
		method = "sendVideo"
		body["video"] = req.MediaURL
		if req.ThumbnailURL != "" {
			body["thumbnail"] = req.ThumbnailURL
		}
	} else {
		body["photo"] = req.MediaURL
	}

	var result tgResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&result).
		Post(s.endpoint(method))
	if err != nil {
		return nil, errors.Wrap(err, "telegram 发布请求失败")
	}
	if resp.IsError() || !result.Ok {
		return nil, errors.Errorf("telegram 发布被拒绝: %s", result.Description)
	}

	messageID := strconv.FormatInt(result.Result.MessageID, 10)
	log.InfoContext(ctx, "telegram 发布成功", "message_id", messageID)
	return &PublishResult{PlatformPostID: messageID}, nil
}

func (s *TelegramAdapter) SendReply(ctx context.Context, kind string, target string, message string) (*ReplyResult, error) {
	cfg := config.Cfg.Telegram

	body := map[string]any{
		"text": message,
	}

	switch kind {
	case consts.InteractionComment:
		// 频道评论落在关联讨论组里，target 是讨论组消息 ID
		replyTo, err := strconv.ParseInt(target, 10, 64)
		if err != nil {
			return nil, errors.Errorf("telegram 评论目标非法: %s", target)
		}
		body["chat_id"] = cfg.ChannelID
		body["reply_to_message_id"] = replyTo
	case consts.InteractionDM:
		body["chat_id"] = target
	default:
		return nil, errors.Errorf("不支持的互动类型: %s", kind)
	}

	var result tgResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&result).
		Post(s.endpoint("sendMessage"))
	if err != nil {
		return nil, errors.Wrap(err, "telegram 回复请求失败")
	}
	if resp.IsError() || !result.Ok {
		return nil, errors.Errorf("telegram 回复被拒绝: %s", result.Description)
	}

	return &ReplyResult{MessageID: strconv.FormatInt(result.Result.MessageID, 10)}, nil
}

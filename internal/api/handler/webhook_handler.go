package handler

import (
	"Limelight/internal/api/config"
	"Limelight/internal/model"
	"Limelight/internal/pkg/consts"
	"Limelight/internal/pkg/redis"
	"Limelight/internal/pkg/response"
	"Limelight/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// webhook 事件去重键的保留时长，平台重推一般发生在几分钟内
const webhookDedupTTL = 24 * time.Hour

type WebhookHandler struct {
	interactionSvc service.InteractionService
}

func NewWebhookHandler(interactionSvc service.InteractionService) *WebhookHandler {
	return &WebhookHandler{
		interactionSvc: interactionSvc,
	}
}

// VerifyInstagram Meta 订阅校验：回显 hub.challenge
func (s *WebhookHandler) VerifyInstagram(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "subscribe" || token != config.Cfg.Instagram.WebhookVerifyToken {
		c.String(http.StatusForbidden, "verification failed")
		return
	}
	c.String(http.StatusOK, challenge)
}

type igWebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				ID   string `json:"id"`
				Text string `json:"text"`
				From struct {
					ID       string `json:"id"`
					Username string `json:"username"`
				} `json:"from"`
			} `json:"value"`
		} `json:"changes"`
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Message struct {
				MID  string `json:"mid"`
				Text string `json:"text"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

// ReceiveInstagram Instagram 事件入口：评论与私信都先落库，回复交给扫描任务
func (s *WebhookHandler) ReceiveInstagram(c *gin.Context) {
	var payload igWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	ctx := c.Request.Context()
	accepted := 0

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "comments" || change.Value.Text == "" {
				continue
			}
			if !s.firstDelivery(ctx, consts.PlatformInstagram, change.Value.ID) {
				continue
			}
			s.storeInbound(ctx, &model.Interaction{
				Platform:    consts.PlatformInstagram,
				Type:        consts.InteractionComment,
				SenderID:    change.Value.From.ID,
				SenderName:  change.Value.From.Username,
				TargetID:    change.Value.ID,
				UserMessage: change.Value.Text,
			}, &accepted)
		}

		for _, msg := range entry.Messaging {
			if msg.Message.Text == "" {
				continue
			}
			if !s.firstDelivery(ctx, consts.PlatformInstagram, msg.Message.MID) {
				continue
			}
			s.storeInbound(ctx, &model.Interaction{
				Platform:    consts.PlatformInstagram,
				Type:        consts.InteractionDM,
				SenderID:    msg.Sender.ID,
				TargetID:    msg.Sender.ID,
				UserMessage: msg.Message.Text,
			}, &accepted)
		}
	}

	log.InfoContext(ctx, "Instagram webhook 事件处理完成", "accepted", accepted)
	response.Success(c, gin.H{"accepted": accepted})
}

type tgUpdate struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		MessageID int64  `json:"message_id"`
		Text      string `json:"text"`
		Chat      struct {
			ID   int64  `json:"id"`
			Type string `json:"type"`
		} `json:"chat"`
		From struct {
			ID        int64  `json:"id"`
			Username  string `json:"username"`
			FirstName string `json:"first_name"`
		} `json:"from"`
	} `json:"message"`
}

// ReceiveTelegram Telegram Bot 更新入口，带密钥头校验
func (s *WebhookHandler) ReceiveTelegram(c *gin.Context) {
	secret := config.Cfg.Telegram.WebhookSecret
	if secret != "" && c.GetHeader("X-Telegram-Bot-Api-Secret-Token") != secret {
		c.String(http.StatusForbidden, "forbidden")
		return
	}

	var update tgUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	ctx := c.Request.Context()
	accepted := 0

	if update.Message != nil && update.Message.Text != "" {
		eventID := strconv.FormatInt(update.UpdateID, 10)
		if s.firstDelivery(ctx, consts.PlatformTelegram, eventID) {
			it := &model.Interaction{
				Platform:    consts.PlatformTelegram,
				SenderID:    strconv.FormatInt(update.Message.From.ID, 10),
				SenderName:  senderName(update.Message.From.Username, update.Message.From.FirstName),
				UserMessage: update.Message.Text,
			}

			// 私聊走 DM 回复，讨论组里的消息按频道评论处理
			if update.Message.Chat.Type == "private" {
				it.Type = consts.InteractionDM
				it.TargetID = strconv.FormatInt(update.Message.Chat.ID, 10)
			} else {
				it.Type = consts.InteractionComment
				it.TargetID = strconv.FormatInt(update.Message.MessageID, 10)
			}
			s.storeInbound(ctx, it, &accepted)
		}
	}

	log.InfoContext(ctx, "Telegram webhook 事件处理完成", "accepted", accepted)
	response.Success(c, gin.H{"accepted": accepted})
}

// firstDelivery 平台会重推事件，用 Redis SetNX 去重
func (s *WebhookHandler) firstDelivery(ctx context.Context, platform string, eventID string) bool {
	if eventID == "" {
		return false
	}

	key := consts.WebhookDedupKey + platform + ":" + eventID
	ok, err := redis.SetNX(ctx, key, 1, webhookDedupTTL)
	if err != nil {
		// Redis 不可用时放行，宁可重复回复也不丢事件
		log.ErrorContext(ctx, "webhook 去重检查失败", "key", key, "err", err)
		return true
	}
	if !ok {
		log.InfoContext(ctx, "webhook 事件重复，忽略", "key", key)
	}
	return ok
}

func (s *WebhookHandler) storeInbound(ctx context.Context, it *model.Interaction, accepted *int) {
	if _, err := s.interactionSvc.CreateInbound(ctx, it); err != nil {
		log.ErrorContext(ctx, "互动事件入库失败", "platform", it.Platform, "type", it.Type, "err", err)
		return
	}
	*accepted++
}

func senderName(username string, firstName string) string {
	if username != "" {
		return username
	}
	return firstName
}

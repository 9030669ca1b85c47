package llm

import (
	"context"
	"errors"
	log "log/slog"
	"strings"

	"github.com/goccy/go-json"
)

// ReplyRequest 入站互动的回复请求
type ReplyRequest struct {
	Message  string `json:"message"`
	Platform string `json:"platform"`
	Type     string `json:"type"`
	Category string `json:"category"`
}

// fallbackReplies 按分类兜底的固定话术，AI 不可用时使用
var fallbackReplies = map[string]string{
	"pricing":  "感谢咨询！价格和套餐详情请查看主页链接，或私信我们获取报价单。",
	"support":  "收到！我们已经记录你的问题，客服会在 24 小时内跟进，请留意私信。",
	"collab":   "感谢你的合作意向！请将合作方案发送至主页邮箱，我们会尽快回复。",
	"shipping": "物流相关问题请提供订单号，我们私信为你查询最新进度。",
}

const fallbackDefault = "感谢你的留言！我们已经收到，会尽快回复你。"

// FallbackReply 返回分类兜底话术
func FallbackReply(category string) string {
	if reply, ok := fallbackReplies[strings.ToLower(category)]; ok {
		return reply
	}
	return fallbackDefault
}

// GenerateInteractionResponse 为入站评论/私信生成回复文本
func GenerateInteractionResponse(ctx context.Context, req *ReplyRequest) (string, error) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		log.Error("互动回复-AI大模型请求数据序列化失败", "err", err)
		return "", err
	}

	resp, err := fetchModel(ctx, interactionReplyPrompt, string(reqJSON), 0.7)
	if err != nil {
		log.Error("互动回复-AI大模型请求失败", "err", err)
		return "", err
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", errors.New("互动回复-AI大模型返回数据为空")
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}

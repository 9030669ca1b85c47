package publisher

import (
	"context"
)

// PublishRequest 发布一条内容所需的全部输入
type PublishRequest struct {
	MediaURL     string
	ThumbnailURL string
	Caption      string
	MediaType    string // image / video
}

// PublishResult 平台返回的发布结果
type PublishResult struct {
	PlatformPostID string
}

// ReplyResult 平台返回的回复结果
type ReplyResult struct {
	MessageID string
}

// Adapter 平台适配器。凭据在每次调用时重新读取，支持运行中轮换。
type Adapter interface {
	Platform() string
	IsConfigured() bool
	Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error)
	// SendReply kind 取 comment / dm，target 是评论 ID 或会话 ID
	SendReply(ctx context.Context, kind string, target string, message string) (*ReplyResult, error)
}

package api

import "Limelight/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AuthHandler        *handler.AuthHandler
	ApprovalHandler    *handler.ApprovalHandler
	InteractionHandler *handler.InteractionHandler
	ContentHandler     *handler.ContentHandler
	WebhookHandler     *handler.WebhookHandler
}

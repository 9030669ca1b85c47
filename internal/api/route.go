package api

import (
	"Limelight/internal/api/middleware"
	"Limelight/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		apiGroup.POST("/login", group.AuthHandler.Login)

		// 平台回调无法带我们的 Token，走各自的校验机制
		webhookGroup := apiGroup.Group("/webhooks")
		{
			webhookGroup.GET("/instagram", group.WebhookHandler.VerifyInstagram)
			webhookGroup.POST("/instagram", group.WebhookHandler.ReceiveInstagram)
			webhookGroup.POST("/telegram", group.WebhookHandler.ReceiveTelegram)
		}

		postGroup := apiGroup.Group("/posts")
		postGroup.Use(middleware.AuthMiddleware())
		{
			postGroup.GET("/pending", group.ApprovalHandler.GetPendingPosts)
			postGroup.GET("/approved", group.ApprovalHandler.GetApprovedPosts)
			postGroup.GET("/statistics", group.ApprovalHandler.GetPostStatistics)
			postGroup.GET("/:post_id/history", group.ApprovalHandler.GetApprovalHistory)

			postGroup.POST("/:post_id/approve", group.ApprovalHandler.ApprovePost)
			postGroup.POST("/:post_id/reject", group.ApprovalHandler.RejectPost)
			postGroup.POST("/:post_id/edit", group.ApprovalHandler.EditPost)

			postGroup.POST("/publish/sweep", group.ApprovalHandler.TriggerPublishSweep)
		}

		interactionGroup := apiGroup.Group("/interactions")
		interactionGroup.Use(middleware.AuthMiddleware())
		{
			interactionGroup.GET("", group.InteractionHandler.GetInteractions)
			interactionGroup.POST("/reply/sweep", group.InteractionHandler.TriggerReplySweep)
			interactionGroup.POST("/requeue", group.InteractionHandler.RequeueFailed)
		}

		contentGroup := apiGroup.Group("/content")
		contentGroup.Use(middleware.AuthMiddleware())
		{
			contentGroup.POST("/generate", group.ContentHandler.GenerateContent)
			contentGroup.GET("/trends", group.ContentHandler.GetTrends)
			contentGroup.POST("/trends/refresh", group.ContentHandler.RefreshTrends)
		}
	}

	return r
}

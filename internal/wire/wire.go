package wire

import (
	"Limelight/internal/api"
	"Limelight/internal/api/config"
	"Limelight/internal/api/handler"
	"Limelight/internal/job"
	"Limelight/internal/pkg/cron"
	"Limelight/internal/pkg/media"
	"Limelight/internal/pkg/mongo"
	"Limelight/internal/pkg/publisher"
	"Limelight/internal/service"

	"github.com/gin-gonic/gin"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	CronMgr *cron.Manager
}

func BuildApplication(db *mongodrv.Database, cfg *config.Config) (*ApplicationContainer, error) {
	postRepo := mongo.NewPostRepo(db)
	interactionRepo := mongo.NewInteractionRepo(db)
	auditRepo := mongo.NewAuditRepo(db)
	trendRepo := mongo.NewTrendRepo(db)
	settingsRepo := mongo.NewSettingsRepo(db)

	// 平台适配器按固定顺序装配，Instagram 在前
	adapters := []publisher.Adapter{
		publisher.NewInstagramAdapter(),
		publisher.NewTelegramAdapter(),
	}

	publishService := service.NewPublishService(postRepo, auditRepo, adapters, int64(cfg.Workflow.PublishBatch))
	approvalService := service.NewApprovalService(postRepo, auditRepo, publishService, cfg.Workflow.PublishHour)
	interactionService := service.NewInteractionService(
		interactionRepo, settingsRepo, auditRepo,
		adapters, service.NewLLMReplyGenerator(),
		int64(cfg.Workflow.ReplyBatch),
	)
	contentService := service.NewContentService(
		postRepo, trendRepo, auditRepo,
		service.NewLLMIdeaGenerator(), media.NewProducer(), service.NewMinioMediaStore(),
	)
	trendService := service.NewTrendService(trendRepo, service.NewLLMTrendSummarizer())
	authService := service.NewAuthService()

	handlers := &api.HandlersGroup{
		AuthHandler:        handler.NewAuthHandler(authService),
		ApprovalHandler:    handler.NewApprovalHandler(approvalService, publishService),
		InteractionHandler: handler.NewInteractionHandler(interactionService),
		ContentHandler:     handler.NewContentHandler(contentService, trendService),
		WebhookHandler:     handler.NewWebhookHandler(interactionService),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(
		job.NewPublishSweepJob(publishService),
		job.NewAutoReplyJob(interactionService),
		job.NewTrendJob(trendService),
		job.NewContentJob(contentService),
	)

	return &ApplicationContainer{
		Router:  router,
		CronMgr: cronMgr,
	}, nil
}

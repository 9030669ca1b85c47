package llm

import (
	"Limelight/internal/api/config"
	log "log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/sync/semaphore"
)

var llmClient llms.Model

// TextSem 限制并发请求数，避免打爆上游配额
var TextSem = semaphore.NewWeighted(4)

var contentIdeaPrompt string
var interactionReplyPrompt string
var trendSummaryPrompt string

func InitLLM() error {
	cfg := config.Cfg.LLM

	llm, err := openai.New(
		openai.WithModel(cfg.TextModel),
		openai.WithToken(cfg.ApiKey),
		openai.WithBaseURL(cfg.URL),
	)

	if err != nil {
		log.Error("AI大模型初始化失败", "err", err)
		return err
	}

	llmClient = llm

	// 从prompt txt文件中读取prompt
	contentIdeaPrompt = readPrompt(cfg.PromptsPath.ContentIdea)
	interactionReplyPrompt = readPrompt(cfg.PromptsPath.InteractionReply)
	trendSummaryPrompt = readPrompt(cfg.PromptsPath.TrendSummary)

	return nil
}

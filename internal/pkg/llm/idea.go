package llm

import (
	"context"
	"errors"
	log "log/slog"

	"github.com/goccy/go-json"
)

// TrendBrief 投喂给模型的趋势上下文
type TrendBrief struct {
	Topic   string `json:"topic"`
	Summary string `json:"summary"`
	Source  string `json:"source"`
}

// GenerateContentIdea 基于趋势话题生成一条内容创意
func GenerateContentIdea(ctx context.Context, brief *TrendBrief) (*ContentIdea, error) {
	briefJSON, err := json.Marshal(brief)
	if err != nil {
		log.Error("创意生成-AI大模型请求数据序列化失败", "err", err)
		return nil, err
	}

	resp, err := fetchModel(ctx, contentIdeaPrompt, string(briefJSON), 0.8)
	if err != nil {
		log.Error("创意生成-AI大模型请求失败", "err", err)
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("创意生成-AI大模型返回数据为空")
	}

	idea, err := ParseContentIdea(resp.Choices[0].Content)
	if err != nil {
		log.Error("创意生成-AI大模型返回数据解析失败", "err", err)
		return nil, err
	}

	log.Info("创意生成-AI大模型请求成功", "topic", brief.Topic, "caption", idea.Caption)
	return idea, nil
}

// SummarizeTrend 为采集到的文章生成趋势摘要
func SummarizeTrend(ctx context.Context, article string) (string, error) {
	if len(article) > 6000 {
		article = article[:6000]
	}

	resp, err := fetchModel(ctx, trendSummaryPrompt, article, 0.3)
	if err != nil {
		log.Error("趋势摘要-AI大模型请求失败", "err", err)
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("趋势摘要-AI大模型返回数据为空")
	}
	return resp.Choices[0].Content, nil
}

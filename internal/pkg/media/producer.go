package media

import (
	"Limelight/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Asset 生成管线产出的成品媒体
type Asset struct {
	Data     []byte
	Format   string
	Width    int
	Height   int
	Duration float64
}

type jobCreated struct {
	JobID string `json:"job_id"`
}

type jobStatus struct {
	JobID     string  `json:"job_id"`
	Status    string  `json:"status"` // queued / processing / complete / failed
	OutputURL string  `json:"output_url"`
	Format    string  `json:"format"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Duration  float64 `json:"duration"`
	Error     string  `json:"error"`
}

// Producer 生成式媒体管线客户端。从工作流视角这是一次可重试的 RPC：
// 提交任务，固定间隔轮询直到完成或超出截止时间，再拉取成品字节。
type Producer struct {
	client *resty.Client
}

func NewProducer() *Producer {
	return &Producer{
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// Produce 提交生成任务并等待成品
func (s *Producer) Produce(ctx context.Context, prompt string, mediaType string) (*Asset, error) {
	cfg := config.Cfg.Media

	var created jobCreated
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(cfg.ApiKey).
		SetBody(map[string]string{"prompt": prompt, "type": mediaType}).
		SetResult(&created).
		Post(cfg.URL + "/v1/jobs")
	if err != nil {
		return nil, errors.Wrap(err, "提交媒体生成任务失败")
	}
	if resp.IsError() {
		return nil, errors.Errorf("提交媒体生成任务失败: status=%d body=%s", resp.StatusCode(), resp.String())
	}
	if created.JobID == "" {
		return nil, errors.New("媒体生成服务未返回任务ID")
	}

	status, err := s.waitForJob(ctx, created.JobID)
	if err != nil {
		return nil, err
	}

	data, err := s.download(ctx, status.OutputURL)
	if err != nil {
		return nil, err
	}

	return &Asset{
		Data:     data,
		Format:   status.Format,
		Width:    status.Width,
		Height:   status.Height,
		Duration: status.Duration,
	}, nil
}

// waitForJob 固定间隔轮询，整体受截止时间约束
func (s *Producer) waitForJob(ctx context.Context, jobID string) (*jobStatus, error) {
	cfg := config.Cfg.Media

	interval := time.Duration(cfg.PollInterval) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}
	timeout := time.Duration(cfg.PollTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var status jobStatus
		resp, err := s.client.R().
			SetContext(pollCtx).
			SetAuthToken(cfg.ApiKey).
			SetResult(&status).
			Get(fmt.Sprintf("%s/v1/jobs/%s", cfg.URL, jobID))
		if err != nil {
			return nil, errors.Wrap(err, "轮询媒体生成任务失败")
		}
		if resp.IsError() {
			return nil, errors.Errorf("轮询媒体生成任务失败: status=%d", resp.StatusCode())
		}

		switch status.Status {
		case "complete":
			if status.OutputURL == "" {
				return nil, errors.New("媒体生成任务完成但未返回产物地址")
			}
			return &status, nil
		case "failed":
			return nil, errors.Errorf("媒体生成任务失败: %s", status.Error)
		}

		log.InfoContext(pollCtx, "媒体生成任务进行中", "job_id", jobID, "status", status.Status)

		select {
		case <-pollCtx.Done():
			return nil, errors.Wrap(pollCtx.Err(), "等待媒体生成任务超时")
		case <-ticker.C:
		}
	}
}

func (s *Producer) download(ctx context.Context, url string) ([]byte, error) {
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, errors.Wrap(err, "下载生成媒体失败")
	}
	if resp.IsError() {
		return nil, errors.Errorf("下载生成媒体失败: status=%d", resp.StatusCode())
	}
	return resp.Body(), nil
}

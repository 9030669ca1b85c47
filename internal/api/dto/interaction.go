package dto

import "time"

// InteractionDTO 互动对外展示结构
type InteractionDTO struct {
	ID            string     `json:"id"`
	Platform      string     `json:"platform"`
	Type          string     `json:"type"`
	SenderID      string     `json:"senderId,omitempty"`
	SenderName    string     `json:"senderName,omitempty"`
	TargetID      string     `json:"targetId"`
	UserMessage   string     `json:"userMessage"`
	BotResponse   string     `json:"botResponse,omitempty"`
	Category      string     `json:"category,omitempty"`
	Redirected    bool       `json:"redirected,omitempty"`
	Status        string     `json:"status"`
	MessageID     string     `json:"messageId,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
	LastAttemptAt *time.Time `json:"lastAttemptAt,omitempty"`
}

type InteractionListQuery struct {
	Status string `form:"status"`
	Limit  int64  `form:"limit"`
}

type ReplySweepDTO struct {
	Replied    int    `json:"replied"`
	Failed     int    `json:"failed"`
	Skipped    int    `json:"skipped"`
	ConfigSkip bool   `json:"configSkip"`
	Warning    string `json:"warning,omitempty"`
}

type RequeueResultDTO struct {
	Requeued int64 `json:"requeued"`
}

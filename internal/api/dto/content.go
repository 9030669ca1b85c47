package dto

import "time"

// TrendDTO 趋势对外展示结构
type TrendDTO struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Summary   string    `json:"summary,omitempty"`
	Source    string    `json:"source"`
	Link      string    `json:"link,omitempty"`
	Score     float64   `json:"score"`
	Used      bool      `json:"used"`
	FetchedAt time.Time `json:"fetchedAt"`
}

type GenerateContentRequest struct {
	Topic   string `json:"topic"`
	Summary string `json:"summary"`
}

type TrendListQuery struct {
	Limit int64 `form:"limit"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

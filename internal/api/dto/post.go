package dto

import (
	"Limelight/internal/model"
	"time"
)

// PostDTO 帖子对外展示结构
type PostDTO struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	MediaURL     string  `json:"mediaUrl"`
	ThumbnailURL string  `json:"thumbnailUrl,omitempty"`
	Format       string  `json:"format,omitempty"`
	Width        int     `json:"width,omitempty"`
	Height       int     `json:"height,omitempty"`
	Duration     float64 `json:"duration,omitempty"`
	FileSize     int64   `json:"fileSize,omitempty"`

	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags,omitempty"`
	CTA      string   `json:"cta,omitempty"`
	FullPost string   `json:"fullPost"`
	Category string   `json:"category,omitempty"`

	Status            string                          `json:"status"`
	ScheduledPostTime *time.Time                      `json:"scheduledPostTime,omitempty"`
	ApprovalHistory   []model.ApprovalEntry           `json:"approvalHistory,omitempty"`
	EditHistory       []model.EditEntry               `json:"editHistory,omitempty"`
	RejectionReason   string                          `json:"rejectionReason,omitempty"`
	Platforms         map[string]model.PlatformResult `json:"platforms,omitempty"`
	PostingErrors     []string                        `json:"postingErrors,omitempty"`
	PostedAt          *time.Time                      `json:"postedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

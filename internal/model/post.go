package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 帖子状态流转：pending → approved/rejected，rejected → approved（允许重新审批），
// approved → posted。posted 为终态，任何后续审批/编辑都被拒绝。
const (
	PostStatusPending  = "pending"
	PostStatusApproved = "approved"
	PostStatusRejected = "rejected"
	PostStatusPosted   = "posted"
)

const (
	ApprovalActionApproved          = "approved"
	ApprovalActionRejected          = "rejected"
	ApprovalActionEditedAndApproved = "edited_and_approved"
)

var postTransitions = map[string][]string{
	PostStatusPending:  {PostStatusApproved, PostStatusRejected},
	PostStatusApproved: {PostStatusRejected, PostStatusPosted},
	PostStatusRejected: {PostStatusApproved},
	PostStatusPosted:   {},
}

// CanTransition 判定状态流转是否合法
func CanTransition(from, to string) bool {
	for _, next := range postTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Post 待审批内容文档
type Post struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type         string             `bson:"type" json:"type"` // image / video
	MediaURL     string             `bson:"media_url" json:"mediaUrl"`
	ThumbnailURL string             `bson:"thumbnail_url,omitempty" json:"thumbnailUrl"`
	Format       string             `bson:"format,omitempty" json:"format"`
	Width        int                `bson:"width,omitempty" json:"width"`
	Height       int                `bson:"height,omitempty" json:"height"`
	Duration     float64            `bson:"duration,omitempty" json:"duration"`
	FileSize     int64              `bson:"file_size,omitempty" json:"fileSize"`

	Caption  string   `bson:"caption" json:"caption"`
	Hashtags []string `bson:"hashtags,omitempty" json:"hashtags"`
	CTA      string   `bson:"cta,omitempty" json:"cta"`
	FullPost string   `bson:"full_post" json:"fullPost"`
	Category string   `bson:"category,omitempty" json:"category"`

	Status            string                    `bson:"status" json:"status"`
	ScheduledPostTime *time.Time                `bson:"scheduled_post_time,omitempty" json:"scheduledPostTime"`
	ApprovalHistory   []ApprovalEntry           `bson:"approval_history,omitempty" json:"approvalHistory"`
	EditHistory       []EditEntry               `bson:"edit_history,omitempty" json:"editHistory"`
	RejectionReason   string                    `bson:"rejection_reason,omitempty" json:"rejectionReason"`
	Platforms         map[string]PlatformResult `bson:"platforms,omitempty" json:"platforms"`
	PostingErrors     []string                  `bson:"posting_errors,omitempty" json:"postingErrors"`
	PostedAt          *time.Time                `bson:"posted_at,omitempty" json:"postedAt"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ApprovalEntry 审批历史记录，只追加不修改
type ApprovalEntry struct {
	Action         string    `bson:"action" json:"action"`
	Actor          string    `bson:"actor" json:"actor"`
	PreviousStatus string    `bson:"previous_status" json:"previousStatus"`
	Extra          string    `bson:"extra,omitempty" json:"extra"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
}

// EditEntry 编辑历史记录，只记录实际发生变化的字段
type EditEntry struct {
	Field     string    `bson:"field" json:"field"`
	OldValue  string    `bson:"old_value" json:"oldValue"`
	NewValue  string    `bson:"new_value" json:"newValue"`
	Actor     string    `bson:"actor" json:"actor"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// PlatformResult 单平台发布结果
type PlatformResult struct {
	PostID   string    `bson:"post_id" json:"postId"`
	PostedAt time.Time `bson:"posted_at" json:"postedAt"`
}

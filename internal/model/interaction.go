package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	InteractionStatusPending   = "pending"
	InteractionStatusResponded = "responded"
	InteractionStatusFailed    = "failed"
)

// Interaction 入站评论或私信文档
type Interaction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Platform    string             `bson:"platform" json:"platform"`
	Type        string             `bson:"type" json:"type"` // comment / dm
	SenderID    string             `bson:"sender_id" json:"senderId"`
	SenderName  string             `bson:"sender_name,omitempty" json:"senderName"`
	TargetID    string             `bson:"target_id" json:"targetId"` // 评论 ID 或会话 ID
	UserMessage string             `bson:"user_message" json:"userMessage"`
	BotResponse string             `bson:"bot_response,omitempty" json:"botResponse"`
	Category    string             `bson:"category,omitempty" json:"category"`
	Redirected  bool               `bson:"redirected" json:"redirected"`
	Status      string             `bson:"status" json:"status"`
	MessageID   string             `bson:"message_id,omitempty" json:"messageId"`
	LastError   string             `bson:"last_error,omitempty" json:"lastError"`

	CreatedAt     time.Time  `bson:"created_at" json:"createdAt"`
	RespondedAt   *time.Time `bson:"responded_at,omitempty" json:"respondedAt"`
	LastAttemptAt *time.Time `bson:"last_attempt_at,omitempty" json:"lastAttemptAt"`
}

package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog 工作流操作的审计记录，核心只写不读
type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      string             `bson:"type" json:"type"`
	Payload   map[string]any     `bson:"payload,omitempty" json:"payload"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

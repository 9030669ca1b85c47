package mongo

import (
	"Limelight/internal/model"
	"Limelight/internal/pkg/consts"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// AuditRepo 审计日志，只追加
type AuditRepo interface {
	Append(ctx context.Context, logType string, payload map[string]any) error
}

type auditRepoImpl struct {
	col *mongo.Collection
}

func NewAuditRepo(db *mongo.Database) AuditRepo {
	return &auditRepoImpl{
		col: db.Collection(consts.CollectionLogs),
	}
}

func (s *auditRepoImpl) Append(ctx context.Context, logType string, payload map[string]any) error {
	_, err := s.col.InsertOne(ctx, model.AuditLog{
		Type:      logType,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	})
	return err
}

package mongo

import (
	"Limelight/internal/pkg/consts"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BotSettings 运营侧可调的机器人设置，存一条 _id 固定的文档
type BotSettings struct {
	AutoReplyEnabled bool   `bson:"auto_reply_enabled"`
	ReplySignature   string `bson:"reply_signature,omitempty"`
}

type SettingsRepo interface {
	GetBotSettings(ctx context.Context) (*BotSettings, error)
}

type settingsRepoImpl struct {
	col *mongo.Collection
}

func NewSettingsRepo(db *mongo.Database) SettingsRepo {
	return &settingsRepoImpl{
		col: db.Collection(consts.CollectionSettings),
	}
}

// GetBotSettings 文档缺失时回退到默认值（自动回复开启）
func (s *settingsRepoImpl) GetBotSettings(ctx context.Context) (*BotSettings, error) {
	var settings BotSettings
	err := s.col.FindOne(ctx, bson.M{"_id": "bot"}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &BotSettings{AutoReplyEnabled: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

package mongo

import (
	"Limelight/internal/model"
	"Limelight/internal/pkg/consts"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InteractionRepo interface {
	Insert(ctx context.Context, it *model.Interaction) (string, error)
	GetByID(ctx context.Context, id string) (*model.Interaction, error)
	FindByStatus(ctx context.Context, status string, limit int64) ([]*model.Interaction, error)
	MarkResponded(ctx context.Context, id string, response string, messageID string, at time.Time) error
	MarkFailed(ctx context.Context, id string, lastError string, at time.Time) error
	RequeueFailed(ctx context.Context) (int64, error)
}

type interactionRepoImpl struct {
	col *mongo.Collection
}

func NewInteractionRepo(db *mongo.Database) InteractionRepo {
	return &interactionRepoImpl{
		col: db.Collection(consts.CollectionInteractions),
	}
}

func (s *interactionRepoImpl) Insert(ctx context.Context, it *model.Interaction) (string, error) {
	it.CreatedAt = time.Now().UTC()
	res, err := s.col.InsertOne(ctx, it)
	if err != nil {
		return "", err
	}
	oid := res.InsertedID.(primitive.ObjectID)
	it.ID = oid
	return oid.Hex(), nil
}

func (s *interactionRepoImpl) GetByID(ctx context.Context, id string) (*model.Interaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var it model.Interaction
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&it)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// FindByStatus 自动回复扫描的查询，最旧的排前面
func (s *interactionRepoImpl) FindByStatus(ctx context.Context, status string, limit int64) ([]*model.Interaction, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, bson.M{"status": status}, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var items []*model.Interaction
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *interactionRepoImpl) MarkResponded(ctx context.Context, id string, response string, messageID string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = s.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"status":       model.InteractionStatusResponded,
		"bot_response": response,
		"message_id":   messageID,
		"responded_at": at,
	}})
	return err
}

func (s *interactionRepoImpl) MarkFailed(ctx context.Context, id string, lastError string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = s.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"status":          model.InteractionStatusFailed,
		"last_error":      lastError,
		"last_attempt_at": at,
	}})
	return err
}

// RequeueFailed 将 failed 的互动批量拨回 pending，由运营手动触发
func (s *interactionRepoImpl) RequeueFailed(ctx context.Context) (int64, error) {
	res, err := s.col.UpdateMany(ctx,
		bson.M{"status": model.InteractionStatusFailed},
		bson.M{"$set": bson.M{
			"status":     model.InteractionStatusPending,
			"last_error": "",
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

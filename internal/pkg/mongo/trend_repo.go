package mongo

import (
	"Limelight/internal/model"
	"Limelight/internal/pkg/consts"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TrendRepo interface {
	Insert(ctx context.Context, trend *model.Trend) error
	FindRecent(ctx context.Context, limit int64) ([]*model.Trend, error)
	NextUnused(ctx context.Context) (*model.Trend, error)
	MarkUsed(ctx context.Context, id primitive.ObjectID) error
}

type trendRepoImpl struct {
	col *mongo.Collection
}

func NewTrendRepo(db *mongo.Database) TrendRepo {
	return &trendRepoImpl{
		col: db.Collection(consts.CollectionTrends),
	}
}

func (s *trendRepoImpl) Insert(ctx context.Context, trend *model.Trend) error {
	_, err := s.col.InsertOne(ctx, trend)
	return err
}

func (s *trendRepoImpl) FindRecent(ctx context.Context, limit int64) ([]*model.Trend, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "fetched_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var trends []*model.Trend
	if err := cursor.All(ctx, &trends); err != nil {
		return nil, err
	}
	return trends, nil
}

// NextUnused 取分数最高且未被消费过的趋势，没有时返回 (nil, nil)
func (s *trendRepoImpl) NextUnused(ctx context.Context) (*model.Trend, error) {
	findOptions := options.FindOne().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "fetched_at", Value: -1}})

	var trend model.Trend
	err := s.col.FindOne(ctx, bson.M{"used": false}, findOptions).Decode(&trend)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trend, nil
}

func (s *trendRepoImpl) MarkUsed(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"used": true}})
	return err
}

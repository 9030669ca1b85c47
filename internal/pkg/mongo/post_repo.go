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

// PostTransition 一次状态流转要落库的全部变更
type PostTransition struct {
	Status            string
	ScheduledPostTime *time.Time // nil 表示不修改
	RejectionReason   string
	Fields            map[string]any // 编辑操作变更的内容字段
	ApprovalEntry     *model.ApprovalEntry
	EditEntries       []model.EditEntry
}

type PostRepo interface {
	Insert(ctx context.Context, post *model.Post) (string, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	ApplyTransition(ctx context.Context, id string, tr *PostTransition) error
	FindByStatus(ctx context.Context, status string, limit int64) ([]*model.Post, error)
	FindDueApproved(ctx context.Context, before time.Time, limit int64) ([]*model.Post, error)
	MarkPosted(ctx context.Context, id string, platforms map[string]model.PlatformResult, postingErrors []string, postedAt time.Time) (bool, error)
	SetPostingError(ctx context.Context, id string, message string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	Delete(ctx context.Context, id string) error
}

type postRepoImpl struct {
	col *mongo.Collection
}

func NewPostRepo(db *mongo.Database) PostRepo {
	return &postRepoImpl{
		col: db.Collection(consts.CollectionPosts),
	}
}

func (s *postRepoImpl) Insert(ctx context.Context, post *model.Post) (string, error) {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, post)
	if err != nil {
		return "", err
	}
	oid := res.InsertedID.(primitive.ObjectID)
	post.ID = oid
	return oid.Hex(), nil
}

// GetByID 查询单条帖子，不存在时返回 (nil, nil)
func (s *postRepoImpl) GetByID(ctx context.Context, id string) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var post model.Post
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ApplyTransition 落库一次审批流转：状态字段 $set + 历史条目 $push
func (s *postRepoImpl) ApplyTransition(ctx context.Context, id string, tr *PostTransition) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	set := bson.M{
		"status":     tr.Status,
		"updated_at": time.Now().UTC(),
	}
	if tr.ScheduledPostTime != nil {
		set["scheduled_post_time"] = *tr.ScheduledPostTime
	}
	if tr.RejectionReason != "" {
		set["rejection_reason"] = tr.RejectionReason
	}
	for field, value := range tr.Fields {
		set[field] = value
	}

	push := bson.M{}
	if tr.ApprovalEntry != nil {
		push["approval_history"] = *tr.ApprovalEntry
	}
	if len(tr.EditEntries) > 0 {
		push["edit_history"] = bson.M{"$each": tr.EditEntries}
	}

	update := bson.M{"$set": set}
	if len(push) > 0 {
		update["$push"] = push
	}

	res, err := s.col.UpdateByID(ctx, oid, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *postRepoImpl) FindByStatus(ctx context.Context, status string, limit int64) ([]*model.Post, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, bson.M{"status": status}, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var posts []*model.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// FindDueApproved 发布扫描的查询：已审批且计划时间已到，按计划时间升序
func (s *postRepoImpl) FindDueApproved(ctx context.Context, before time.Time, limit int64) ([]*model.Post, error) {
	filter := bson.M{
		"status":              model.PostStatusApproved,
		"scheduled_post_time": bson.M{"$lte": before},
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "scheduled_post_time", Value: 1}}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var posts []*model.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// MarkPosted 条件更新：仅当帖子仍处于 approved 时置为 posted。
// 返回 false 表示没有命中，说明另一条路径已经发布过，调用方应静默跳过。
func (s *postRepoImpl) MarkPosted(ctx context.Context, id string, platforms map[string]model.PlatformResult, postingErrors []string, postedAt time.Time) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	set := bson.M{
		"status":     model.PostStatusPosted,
		"platforms":  platforms,
		"posted_at":  postedAt,
		"updated_at": time.Now().UTC(),
	}
	if len(postingErrors) > 0 {
		set["posting_errors"] = postingErrors
	}

	filter := bson.M{"_id": oid, "status": model.PostStatusApproved}
	res, err := s.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// SetPostingError 即时发布失败时的注记，状态保持 approved 等待扫描重试
func (s *postRepoImpl) SetPostingError(ctx context.Context, id string, message string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	update := bson.M{
		"$set":  bson.M{"updated_at": time.Now().UTC()},
		"$push": bson.M{"posting_errors": message},
	}
	_, err = s.col.UpdateByID(ctx, oid, update)
	return err
}

func (s *postRepoImpl) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (s *postRepoImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	_, err = s.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

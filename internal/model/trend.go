package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trend 采集到的趋势话题
type Trend struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Topic     string             `bson:"topic" json:"topic"`
	Summary   string             `bson:"summary,omitempty" json:"summary"`
	Source    string             `bson:"source" json:"source"`
	Link      string             `bson:"link,omitempty" json:"link"`
	Score     float64            `bson:"score" json:"score"`
	Used      bool               `bson:"used" json:"used"`
	FetchedAt time.Time          `bson:"fetched_at" json:"fetchedAt"`
}

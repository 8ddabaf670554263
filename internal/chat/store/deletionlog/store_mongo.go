package deletionlog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatguard/internal/chat/models"
)

const collection = "chatDeletionLogs"

type MongoStore struct {
	logs *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{logs: db.Collection(collection)}
}

func (s *MongoStore) Append(ctx context.Context, log *models.DeletionLog) error {
	if _, err := s.logs.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("insert deletion log: %w", err)
	}
	return nil
}

func createdBetween(from, to time.Time) bson.M {
	return bson.M{"createdAt": bson.M{"$gte": from, "$lte": to}}
}

func (s *MongoStore) CountByReason(ctx context.Context, from, to time.Time) (map[string]int, error) {
	cur, err := s.logs.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: createdBetween(from, to)}},
		{{Key: "$group", Value: bson.M{"_id": "$reason", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate deletion logs: %w", err)
	}
	var rows []struct {
		Reason string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode deletion log counts: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Reason] = r.Count
	}
	return out, nil
}

func (s *MongoStore) ListRecent(ctx context.Context, from, to time.Time, limit int) ([]*models.DeletionLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cur, err := s.logs.Find(ctx, createdBetween(from, to), opts)
	if err != nil {
		return nil, fmt.Errorf("list deletion logs: %w", err)
	}
	var out []*models.DeletionLog
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode deletion logs: %w", err)
	}
	return out, nil
}

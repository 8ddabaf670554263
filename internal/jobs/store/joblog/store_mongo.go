package joblog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatguard/internal/jobs/models"
)

const (
	errorsCollection  = "cleanupErrors"
	reportsCollection = "cleanupReports"
)

// MongoStore appends job outcomes. Both collections are insert-only.
type MongoStore struct {
	errors  *mongo.Collection
	reports *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{
		errors:  db.Collection(errorsCollection),
		reports: db.Collection(reportsCollection),
	}
}

func (s *MongoStore) AppendError(ctx context.Context, e *models.CleanupError) error {
	if _, err := s.errors.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert cleanup error: %w", err)
	}
	return nil
}

func (s *MongoStore) AppendReport(ctx context.Context, r *models.CleanupReport) error {
	if _, err := s.reports.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert cleanup report: %w", err)
	}
	return nil
}

func (s *MongoStore) LatestReport(ctx context.Context, job string) (*models.CleanupReport, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "finishedAt", Value: -1}})
	var r models.CleanupReport
	err := s.reports.FindOne(ctx, bson.M{"job": job}, opts).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest cleanup report: %w", err)
	}
	return &r, nil
}

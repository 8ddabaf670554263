package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatguard/internal/chat/models"
	id "chatguard/pkg/domain"
	"chatguard/pkg/platform/sentinel"
)

const collection = "chats"

type MongoChatStore struct {
	chats *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoChatStore {
	return &MongoChatStore{chats: db.Collection(collection)}
}

func (s *MongoChatStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.chats.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "deletedAt", Value: 1}, {Key: "updatedAt", Value: 1}}},
		{
			Keys:    bson.D{{Key: "messagesPending", Value: 1}, {Key: "deletedAt", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create chat retention index: %w", err)
	}
	return nil
}

func (s *MongoChatStore) Create(ctx context.Context, c *models.Chat) error {
	if _, err := s.chats.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create chat %s: %w", c.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create chat %s: %w", c.ID, err)
	}
	return nil
}

func (s *MongoChatStore) FindByID(ctx context.Context, chatID id.ChatID) (*models.Chat, error) {
	var c models.Chat
	err := s.chats.FindOne(ctx, bson.M{"_id": chatID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find chat %s: %w", chatID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find chat %s: %w", chatID, err)
	}
	return &c, nil
}

// candidateFilter selects closed or deleted chats that were never
// soft-deleted and have been idle since before cutoff. A null deletedAt
// matches a missing field too.
func candidateFilter(cutoff time.Time) bson.M {
	return bson.M{
		"status":    bson.M{"$in": models.CleanupStatuses},
		"deletedAt": nil,
		"updatedAt": bson.M{"$lt": cutoff},
	}
}

func (s *MongoChatStore) FindCleanupCandidates(ctx context.Context, cutoff time.Time, limit int) ([]*models.Chat, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	cur, err := s.chats.Find(ctx, candidateFilter(cutoff), opts)
	if err != nil {
		return nil, fmt.Errorf("find cleanup candidates: %w", err)
	}
	var out []*models.Chat
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode cleanup candidates: %w", err)
	}
	return out, nil
}

// SoftDeletePage marks the page deleted inside one multi-document
// transaction. The snapshot is built server-side from the prior field values.
func (s *MongoChatStore) SoftDeletePage(ctx context.Context, chatIDs []id.ChatID, cutoff, at time.Time, reason string) ([]id.ChatID, error) {
	if len(chatIDs) == 0 {
		return nil, nil
	}
	sess, err := s.chats.Database().Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	var deleted []id.ChatID
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		deleted = nil
		filter := candidateFilter(cutoff)
		filter["_id"] = bson.M{"$in": chatIDs}

		cur, err := s.chats.Find(sc, filter, options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			return nil, err
		}
		var docs []struct {
			ID id.ChatID `bson:"_id"`
		}
		if err := cur.All(sc, &docs); err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, nil
		}
		for _, d := range docs {
			deleted = append(deleted, d.ID)
		}

		update := mongo.Pipeline{
			{{Key: "$set", Value: bson.M{
				"snapshot": bson.M{
					"status":         "$status",
					"updatedAt":      "$updatedAt",
					"messageCount":   "$messageCount",
					"participantIds": "$participantIds",
				},
				"status":          models.ChatStatusDeleted,
				"deletedAt":       at,
				"deletionReason":  reason,
				"messagesPending": true,
			}}},
			{{Key: "$unset", Value: "cleanupCursor"}},
		}
		_, err = s.chats.UpdateMany(sc, bson.M{"_id": bson.M{"$in": deleted}}, update)
		return nil, err
	})
	if err != nil {
		return nil, fmt.Errorf("soft delete chat page: %w", err)
	}
	return deleted, nil
}

func pendingFilter() bson.M {
	return bson.M{
		"messagesPending": true,
		"deletionReason":  models.DeletionReasonInactive,
	}
}

// FindPendingCascades returns retention-deleted chats whose message cascade
// has not completed, earliest deletion first.
func (s *MongoChatStore) FindPendingCascades(ctx context.Context, limit int) ([]*models.Chat, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "deletedAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	cur, err := s.chats.Find(ctx, pendingFilter(), opts)
	if err != nil {
		return nil, fmt.Errorf("find pending cascades: %w", err)
	}
	var out []*models.Chat
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode pending cascades: %w", err)
	}
	return out, nil
}

func (s *MongoChatStore) SaveCascadeProgress(ctx context.Context, chatID id.ChatID, cursor id.MessageID, complete bool) error {
	update := bson.M{"$set": bson.M{"cleanupCursor": cursor}}
	if complete {
		update = bson.M{"$unset": bson.M{"messagesPending": "", "cleanupCursor": ""}}
	}
	res, err := s.chats.UpdateOne(ctx, bson.M{"_id": chatID}, update)
	if err != nil {
		return fmt.Errorf("save cascade progress %s: %w", chatID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("save cascade progress %s: %w", chatID, sentinel.ErrNotFound)
	}
	return nil
}

// Package mongorepo implements the repository stores on MongoDB. Documents
// are keyed by the string form of their UUID so ids stay portable across
// backends.
package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection      = "users"
	challengesCollection = "challenges"
	progressCollection   = "progress"
)

// EnsureIndexes creates the unique email index and the progress lookup index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	}); err != nil {
		return fmt.Errorf("create users index: %w", err)
	}

	if _, err := db.Collection(challengesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "creator_id", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("create challenges indexes: %w", err)
	}

	if _, err := db.Collection(progressCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "challenge_id", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "challenge_id", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("create progress indexes: %w", err)
	}
	return nil
}

func mapMongoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse stored id %q: %w", s, err)
		}
		out = append(out, id)
	}
	return out, nil
}

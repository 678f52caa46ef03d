package mongorepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type progressDocument struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	ChallengeID string    `bson:"challenge_id"`
	Amount      float64   `bson:"amount"`
	Date        time.Time `bson:"date"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type totalDocument struct {
	UserID string  `bson:"_id"`
	Total  float64 `bson:"total"`
}

type ProgressRepository struct {
	coll *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{coll: db.Collection(progressCollection)}
}

func (r *ProgressRepository) Create(ctx context.Context, progress *models.Progress) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	progress.CreatedAt = now
	progress.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, progressDocument{
		ID:          progress.ID.String(),
		UserID:      progress.UserID.String(),
		ChallengeID: progress.ChallengeID.String(),
		Amount:      progress.Amount,
		Date:        progress.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return mapMongoError(err)
}

func (r *ProgressRepository) TotalsByChallenge(
	ctx context.Context,
	challengeID uuid.UUID,
	limit int,
) ([]models.LeaderboardRow, error) {
	cursor, err := r.coll.Aggregate(ctx, totalsPipeline(challengeID, limit))
	if err != nil {
		return nil, err
	}
	var docs []totalDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	rows := make([]models.LeaderboardRow, 0, len(docs))
	for _, doc := range docs {
		userID, err := uuid.Parse(doc.UserID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, models.LeaderboardRow{UserID: userID, Total: doc.Total})
	}
	return rows, nil
}

// totalsPipeline groups by user and sorts by total, then by the canonical id
// string, which orders the same way as the UUID bytes.
func totalsPipeline(challengeID uuid.UUID, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "challenge_id", Value: challengeID.String()}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$user_id"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: int64(limit)}},
	}
}

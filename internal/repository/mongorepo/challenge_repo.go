package mongorepo

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/shettytas/fitquest-web/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type challengeDocument struct {
	ID           string    `bson:"_id"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description"`
	Unit         string    `bson:"unit"`
	TargetPerDay float64   `bson:"target_per_day"`
	StartDate    time.Time `bson:"start_date"`
	EndDate      time.Time `bson:"end_date"`
	CreatorID    string    `bson:"creator_id"`
	Participants []string  `bson:"participants"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d *challengeDocument) model() (*models.Challenge, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	creatorID, err := uuid.Parse(d.CreatorID)
	if err != nil {
		return nil, err
	}
	participants, err := parseIDs(d.Participants)
	if err != nil {
		return nil, err
	}
	return &models.Challenge{
		ID:           id,
		Title:        d.Title,
		Description:  d.Description,
		Unit:         models.Unit(d.Unit),
		TargetPerDay: d.TargetPerDay,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		CreatorID:    creatorID,
		Participants: participants,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type ChallengeRepository struct {
	coll *mongo.Collection
}

func NewChallengeRepository(db *mongo.Database) *ChallengeRepository {
	return &ChallengeRepository{coll: db.Collection(challengesCollection)}
}

func (r *ChallengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	challenge.CreatedAt = now
	challenge.UpdatedAt = now

	participants := dedupe(idStrings(challenge.Participants))
	_, err := r.coll.InsertOne(ctx, challengeDocument{
		ID:           challenge.ID.String(),
		Title:        challenge.Title,
		Description:  challenge.Description,
		Unit:         string(challenge.Unit),
		TargetPerDay: challenge.TargetPerDay,
		StartDate:    challenge.StartDate,
		EndDate:      challenge.EndDate,
		CreatorID:    challenge.CreatorID.String(),
		Participants: participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return mapMongoError(err)
}

func (r *ChallengeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Challenge, error) {
	var doc challengeDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return doc.model()
}

func (r *ChallengeRepository) List(ctx context.Context, filter repository.ChallengeListFilter) ([]models.Challenge, error) {
	cursor, err := r.coll.Find(ctx, listFilter(filter),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []challengeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	challenges := make([]models.Challenge, 0, len(docs))
	for i := range docs {
		challenge, err := docs[i].model()
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, *challenge)
	}
	return challenges, nil
}

func (r *ChallengeRepository) Update(ctx context.Context, challenge *models.Challenge) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: challenge.ID.String()}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "title", Value: challenge.Title},
			{Key: "description", Value: challenge.Description},
			{Key: "unit", Value: string(challenge.Unit)},
			{Key: "target_per_day", Value: challenge.TargetPerDay},
			{Key: "start_date", Value: challenge.StartDate},
			{Key: "end_date", Value: challenge.EndDate},
			{Key: "updated_at", Value: now},
		}}},
	)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	challenge.UpdatedAt = now
	return nil
}

func (r *ChallengeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ChallengeRepository) AddParticipant(ctx context.Context, challengeID, userID uuid.UUID) (*models.Challenge, error) {
	return r.updateParticipants(ctx, challengeID, "$addToSet", userID)
}

func (r *ChallengeRepository) RemoveParticipant(ctx context.Context, challengeID, userID uuid.UUID) (*models.Challenge, error) {
	return r.updateParticipants(ctx, challengeID, "$pull", userID)
}

func (r *ChallengeRepository) updateParticipants(
	ctx context.Context,
	challengeID uuid.UUID,
	operator string,
	userID uuid.UUID,
) (*models.Challenge, error) {
	var doc challengeDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: challengeID.String()}},
		bson.D{{Key: operator, Value: bson.D{{Key: "participants", Value: userID.String()}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapMongoError(err)
	}
	return doc.model()
}

// listFilter matches the title literally and case-insensitively.
func listFilter(filter repository.ChallengeListFilter) bson.D {
	query := bson.D{}
	if filter.Title != "" {
		query = append(query, bson.E{Key: "title", Value: bson.Regex{
			Pattern: regexp.QuoteMeta(filter.Title),
			Options: "i",
		}})
	}
	if len(filter.CreatorIDs) > 0 {
		query = append(query, bson.E{Key: "creator_id", Value: bson.D{{Key: "$in", Value: idStrings(filter.CreatorIDs)}}})
	}
	return query
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package mongorepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/shettytas/fitquest-web/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	AvatarURL    *string   `bson:"avatar_url,omitempty"`
	Bio          string    `bson:"bio"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d *userDocument) model() (*models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &models.User{
		ID:           id,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		AvatarURL:    d.AvatarURL,
		Bio:          d.Bio,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, userDocument{
		ID:           user.ID.String(),
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		AvatarURL:    user.AvatarURL,
		Bio:          user.Bio,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return mapMongoError(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: idStrings(ids)}}}})
}

func (r *UserRepository) ListByNames(ctx context.Context, names []string) ([]models.User, error) {
	if len(names) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.D{{Key: "name", Value: bson.D{{Key: "$in", Value: names}}}})
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, input repository.UpdateUserInput) (*models.User, error) {
	set := bson.D{{Key: "updated_at", Value: time.Now().UTC().Truncate(time.Millisecond)}}
	if input.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *input.Name})
	}
	if input.Bio != nil {
		set = append(set, bson.E{Key: "bio", Value: *input.Bio})
	}
	if input.AvatarURL != nil {
		set = append(set, bson.E{Key: "avatar_url", Value: *input.AvatarURL})
	}

	var doc userDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id.String()}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapMongoError(err)
	}
	return doc.model()
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return doc.model()
}

func (r *UserRepository) find(ctx context.Context, filter bson.D) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(docs))
	for i := range docs {
		user, err := docs[i].model()
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
)

const userColumns = `id, name, email, password_hash, avatar_url, bio, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, avatar_url, bio)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.AvatarURL, user.Bio).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	return mapPgError(err)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::uuid[])`
	return r.list(ctx, query, ids)
}

func (r *UserRepository) ListByNames(ctx context.Context, names []string) ([]models.User, error) {
	if len(names) == 0 {
		return []models.User{}, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE name = ANY($1::text[]) ORDER BY created_at, id`
	return r.list(ctx, query, names)
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($1, name),
			bio = COALESCE($2, bio),
			avatar_url = COALESCE($3, avatar_url),
			updated_at = NOW()
		WHERE id = $4
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, input.Name, input.Bio, input.AvatarURL, id))
}

func (r *UserRepository) list(ctx context.Context, query string, arg any) ([]models.User, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func scanUser(row scanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.Bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &user, nil
}

package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shettytas/fitquest-web/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UpdateUserInput struct {
	Name      *string
	Bio       *string
	AvatarURL *string
}

type ChallengeListFilter struct {
	// Title is matched as a case-insensitive literal substring.
	Title      string
	CreatorIDs []uuid.UUID
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	ListByNames(ctx context.Context, names []string) ([]models.User, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*models.User, error)
}

type ChallengeStore interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Challenge, error)
	List(ctx context.Context, filter ChallengeListFilter) ([]models.Challenge, error)
	Update(ctx context.Context, challenge *models.Challenge) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddParticipant(ctx context.Context, challengeID, userID uuid.UUID) (*models.Challenge, error)
	RemoveParticipant(ctx context.Context, challengeID, userID uuid.UUID) (*models.Challenge, error)
}

type ProgressStore interface {
	Create(ctx context.Context, progress *models.Progress) error
	// TotalsByChallenge sums amounts per user, ordered by total descending
	// and user id ascending, capped at limit rows.
	TotalsByChallenge(ctx context.Context, challengeID uuid.UUID, limit int) ([]models.LeaderboardRow, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeSubstring escapes LIKE metacharacters so the query matches literally.
func likeSubstring(q string) string {
	return likeEscaper.Replace(q)
}

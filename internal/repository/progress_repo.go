package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
)

type ProgressRepository struct {
	db DBTX
}

func NewProgressRepository(db DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) Create(ctx context.Context, progress *models.Progress) error {
	query := `
		INSERT INTO progress (id, user_id, challenge_id, amount, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		progress.ID,
		progress.UserID,
		progress.ChallengeID,
		progress.Amount,
		progress.Date,
	).Scan(&progress.CreatedAt, &progress.UpdatedAt)
	return mapPgError(err)
}

func (r *ProgressRepository) TotalsByChallenge(
	ctx context.Context,
	challengeID uuid.UUID,
	limit int,
) ([]models.LeaderboardRow, error) {
	query := `
		SELECT user_id, SUM(amount) AS total
		FROM progress
		WHERE challenge_id = $1
		GROUP BY user_id
		ORDER BY total DESC, user_id ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, challengeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]models.LeaderboardRow, 0)
	for rows.Next() {
		var row models.LeaderboardRow
		if err := rows.Scan(&row.UserID, &row.Total); err != nil {
			return nil, err
		}
		totals = append(totals, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return totals, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
)

const challengeSelect = `
	SELECT c.id, c.title, c.description, c.unit, c.target_per_day, c.start_date, c.end_date,
		   c.creator_id,
		   ARRAY(
			   SELECT cp.user_id FROM challenge_participants cp
			   WHERE cp.challenge_id = c.id
			   ORDER BY cp.joined_at, cp.user_id
		   ) AS participants,
		   c.created_at, c.updated_at
	FROM challenges c
`

type ChallengeRepository struct {
	db DBTX
}

func NewChallengeRepository(db DBTX) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	query := `
		WITH inserted AS (
			INSERT INTO challenges (id, title, description, unit, target_per_day, start_date, end_date, creator_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at, updated_at
		), enrolled AS (
			INSERT INTO challenge_participants (challenge_id, user_id)
			SELECT inserted.id, participant FROM inserted, unnest($9::uuid[]) AS participant
			ON CONFLICT DO NOTHING
		)
		SELECT created_at, updated_at FROM inserted
	`
	participants := challenge.Participants
	if participants == nil {
		participants = []uuid.UUID{}
	}
	err := r.db.QueryRow(ctx, query,
		challenge.ID,
		challenge.Title,
		challenge.Description,
		string(challenge.Unit),
		challenge.TargetPerDay,
		challenge.StartDate,
		challenge.EndDate,
		challenge.CreatorID,
		participants,
	).Scan(&challenge.CreatedAt, &challenge.UpdatedAt)
	return mapPgError(err)
}

func (r *ChallengeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Challenge, error) {
	query := challengeSelect + ` WHERE c.id = $1`
	return scanChallenge(r.db.QueryRow(ctx, query, id))
}

func (r *ChallengeRepository) List(ctx context.Context, filter ChallengeListFilter) ([]models.Challenge, error) {
	query := challengeSelect + `
		WHERE ($1::text = '' OR c.title ILIKE '%' || $1::text || '%' ESCAPE '\')
		  AND (cardinality($2::uuid[]) = 0 OR c.creator_id = ANY($2::uuid[]))
		ORDER BY c.created_at, c.id
	`
	creatorIDs := filter.CreatorIDs
	if creatorIDs == nil {
		creatorIDs = []uuid.UUID{}
	}

	rows, err := r.db.Query(ctx, query, likeSubstring(filter.Title), creatorIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	challenges := make([]models.Challenge, 0)
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, *challenge)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return challenges, nil
}

func (r *ChallengeRepository) Update(ctx context.Context, challenge *models.Challenge) error {
	query := `
		UPDATE challenges
		SET title = $1,
			description = $2,
			unit = $3,
			target_per_day = $4,
			start_date = $5,
			end_date = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		challenge.Title,
		challenge.Description,
		string(challenge.Unit),
		challenge.TargetPerDay,
		challenge.StartDate,
		challenge.EndDate,
		challenge.ID,
	).Scan(&challenge.UpdatedAt)
	return mapPgError(err)
}

func (r *ChallengeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ChallengeRepository) AddParticipant(ctx context.Context, challengeID, userID uuid.UUID) (*models.Challenge, error) {
	query := `
		INSERT INTO challenge_participants (challenge_id, user_id)
		SELECT id, $2 FROM challenges WHERE id = $1
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, challengeID, userID); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, challengeID)
}

func (r *ChallengeRepository) RemoveParticipant(ctx context.Context, challengeID, userID uuid.UUID) (*models.Challenge, error) {
	query := `DELETE FROM challenge_participants WHERE challenge_id = $1 AND user_id = $2`
	if _, err := r.db.Exec(ctx, query, challengeID, userID); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, challengeID)
}

func scanChallenge(row scanner) (*models.Challenge, error) {
	var (
		challenge models.Challenge
		unit      string
	)
	err := row.Scan(
		&challenge.ID,
		&challenge.Title,
		&challenge.Description,
		&unit,
		&challenge.TargetPerDay,
		&challenge.StartDate,
		&challenge.EndDate,
		&challenge.CreatorID,
		&challenge.Participants,
		&challenge.CreatedAt,
		&challenge.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	challenge.Unit = models.Unit(unit)
	if challenge.Participants == nil {
		challenge.Participants = []uuid.UUID{}
	}
	return &challenge, nil
}

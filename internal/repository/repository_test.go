package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeSubstringEscapesMetacharacters(t *testing.T) {
	assert.Equal(t, `100\% \_done\\`, likeSubstring(`100% _done\`))
	assert.Equal(t, "steps", likeSubstring("steps"))
}

func TestMapPgError(t *testing.T) {
	assert.Nil(t, mapPgError(nil))
	assert.ErrorIs(t, mapPgError(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, mapPgError(&pgconn.PgError{Code: "23505"}), ErrDuplicate)

	other := errors.New("boom")
	assert.Equal(t, other, mapPgError(other))
}

func TestUserRepositoryCreateScansTimestamps(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	db := &stubDBTX{queryRowFn: func(string, ...any) stubRow {
		return stubRow{values: []any{now, now}}
	}}
	repo := NewUserRepository(db)

	user := &models.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))

	assert.Equal(t, now, user.CreatedAt)
	require.Len(t, db.rowCalls, 1)
	assert.Equal(t, user.ID, db.rowCalls[0].args[0])
	assert.Equal(t, "ada@example.com", db.rowCalls[0].args[2])
}

func TestUserRepositoryCreateMapsUniqueViolation(t *testing.T) {
	db := &stubDBTX{queryRowFn: func(string, ...any) stubRow {
		return stubRow{err: &pgconn.PgError{Code: "23505"}}
	}}

	err := NewUserRepository(db).Create(context.Background(), &models.User{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepositoryGetByEmailNotFound(t *testing.T) {
	db := &stubDBTX{queryRowFn: func(string, ...any) stubRow {
		return stubRow{err: pgx.ErrNoRows}
	}}

	_, err := NewUserRepository(db).GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryListByIDsSkipsQueryWhenEmpty(t *testing.T) {
	db := &stubDBTX{}
	users, err := NewUserRepository(db).ListByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Empty(t, db.queries)
}

func TestUserRepositoryListByIDsScansRows(t *testing.T) {
	now := time.Now().UTC()
	id := uuid.New()
	avatar := "https://cdn.example.com/a.png"
	db := &stubDBTX{rows: &stubRows{rows: [][]any{
		{id, "Ada", "ada@example.com", "hash", &avatar, "bio", now, now},
	}}}

	users, err := NewUserRepository(db).ListByIDs(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, id, users[0].ID)
	require.NotNil(t, users[0].AvatarURL)
	assert.Equal(t, avatar, *users[0].AvatarURL)
	assert.True(t, db.rows.closed)
}

func challengeRow(id, creator uuid.UUID, participants []uuid.UUID, unit string) []any {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []any{
		id, "Walk more", "", unit, 10000.0, now, now.AddDate(0, 0, 30),
		creator, participants, now, now,
	}
}

func TestChallengeRepositoryListPassesEscapedFilter(t *testing.T) {
	creator := uuid.New()
	first, second := uuid.New(), uuid.New()
	db := &stubDBTX{rows: &stubRows{rows: [][]any{
		challengeRow(first, creator, []uuid.UUID{creator}, "steps"),
		challengeRow(second, creator, nil, "km"),
	}}}

	challenges, err := NewChallengeRepository(db).List(context.Background(), ChallengeListFilter{Title: "50%"})
	require.NoError(t, err)
	require.Len(t, challenges, 2)

	assert.Equal(t, models.UnitSteps, challenges[0].Unit)
	assert.Equal(t, []uuid.UUID{creator}, challenges[0].Participants)
	assert.Equal(t, models.UnitKM, challenges[1].Unit)
	assert.NotNil(t, challenges[1].Participants)
	assert.Empty(t, challenges[1].Participants)

	require.Len(t, db.queries, 1)
	assert.Equal(t, `50\%`, db.queries[0].args[0])
	assert.Equal(t, []uuid.UUID{}, db.queries[0].args[1])
}

func TestChallengeRepositoryGetByIDNotFound(t *testing.T) {
	db := &stubDBTX{queryRowFn: func(string, ...any) stubRow {
		return stubRow{err: pgx.ErrNoRows}
	}}

	_, err := NewChallengeRepository(db).GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChallengeRepositoryDeleteReportsMissingRow(t *testing.T) {
	db := &stubDBTX{execTag: pgconn.NewCommandTag("DELETE 0")}
	err := NewChallengeRepository(db).Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	db = &stubDBTX{execTag: pgconn.NewCommandTag("DELETE 1")}
	assert.NoError(t, NewChallengeRepository(db).Delete(context.Background(), uuid.New()))
}

func TestChallengeRepositoryAddParticipantReloadsChallenge(t *testing.T) {
	id, creator, joiner := uuid.New(), uuid.New(), uuid.New()
	db := &stubDBTX{
		execTag: pgconn.NewCommandTag("INSERT 0 1"),
		queryRowFn: func(string, ...any) stubRow {
			return stubRow{values: challengeRow(id, creator, []uuid.UUID{creator, joiner}, "steps")}
		},
	}

	challenge, err := NewChallengeRepository(db).AddParticipant(context.Background(), id, joiner)
	require.NoError(t, err)
	assert.True(t, challenge.HasParticipant(joiner))

	require.Len(t, db.execs, 1)
	assert.Equal(t, []any{id, joiner}, db.execs[0].args)
	require.Len(t, db.rowCalls, 1)
	assert.Equal(t, []any{id}, db.rowCalls[0].args)
}

func TestChallengeRepositoryCreateSendsParticipants(t *testing.T) {
	now := time.Now().UTC()
	db := &stubDBTX{queryRowFn: func(string, ...any) stubRow {
		return stubRow{values: []any{now, now}}
	}}
	creator := uuid.New()
	challenge := &models.Challenge{
		ID:           uuid.New(),
		Title:        "Walk more",
		Unit:         models.UnitSteps,
		CreatorID:    creator,
		Participants: []uuid.UUID{creator},
	}

	require.NoError(t, NewChallengeRepository(db).Create(context.Background(), challenge))
	assert.Equal(t, now, challenge.CreatedAt)
	require.Len(t, db.rowCalls, 1)
	args := db.rowCalls[0].args
	assert.Equal(t, "steps", args[3])
	assert.Equal(t, []uuid.UUID{creator}, args[8])
}

func TestProgressRepositoryTotalsByChallenge(t *testing.T) {
	challengeID := uuid.New()
	a, b := uuid.New(), uuid.New()
	db := &stubDBTX{rows: &stubRows{rows: [][]any{
		{a, 12.0},
		{b, 10.0},
	}}}

	rows, err := NewProgressRepository(db).TotalsByChallenge(context.Background(), challengeID, 50)
	require.NoError(t, err)
	assert.Equal(t, []models.LeaderboardRow{{UserID: a, Total: 12}, {UserID: b, Total: 10}}, rows)
	assert.Equal(t, []any{challengeID, 50}, db.queries[0].args)
}

func TestProgressRepositoryTotalsPropagatesQueryError(t *testing.T) {
	db := &stubDBTX{queryErr: errors.New("connection refused")}
	_, err := NewProgressRepository(db).TotalsByChallenge(context.Background(), uuid.New(), 50)
	assert.EqualError(t, err, "connection refused")
}

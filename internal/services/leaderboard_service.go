package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/shettytas/fitquest-web/internal/repository"
)

type LeaderboardService struct {
	progress repository.ProgressStore
	users    repository.UserStore
}

func NewLeaderboardService(progress repository.ProgressStore, users repository.UserStore) *LeaderboardService {
	return &LeaderboardService{progress: progress, users: users}
}

// Get ranks the challenge's participants by summed progress. Users that no
// longer exist are reported as "Unknown User" rather than failing the board.
func (s *LeaderboardService) Get(ctx context.Context, challengeID uuid.UUID) ([]models.LeaderboardEntry, error) {
	rows, err := s.progress.TotalsByChallenge(ctx, challengeID, models.LeaderboardLimit)
	if err != nil {
		return nil, err
	}
	models.SortLeaderboardRows(rows)
	if len(rows) > models.LeaderboardLimit {
		rows = rows[:models.LeaderboardLimit]
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	users, err := lookupUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entry := models.LeaderboardEntry{
			UserID: row.UserID,
			Name:   models.UnknownUserName,
			Total:  row.Total,
		}
		if user, ok := users[row.UserID]; ok {
			entry.Name = user.Name
			entry.Email = user.Email
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

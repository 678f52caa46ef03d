package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/shettytas/fitquest-web/internal/repository"
)

type ProgressInput struct {
	ChallengeID string  `json:"challengeId" validate:"required,uuid"`
	Amount      *Amount `json:"amount" validate:"required,gte=0"`
	Date        string  `json:"date" validate:"required,calendardate"`
}

// Amount decodes from a JSON number or from a string holding one, so form
// posts like "amount":"5" are accepted.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("amount %s is not a number", string(data))
	}
	*a = Amount(value)
	return nil
}

type ProgressService struct {
	progress   repository.ProgressStore
	challenges repository.ChallengeStore
}

func NewProgressService(progress repository.ProgressStore, challenges repository.ChallengeStore) *ProgressService {
	return &ProgressService{progress: progress, challenges: challenges}
}

// Record appends a progress entry. Membership is checked when the entry is
// written; leaving the challenge later does not touch existing entries.
func (s *ProgressService) Record(ctx context.Context, userID uuid.UUID, input ProgressInput) (*models.Progress, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	challengeID, _ := uuid.Parse(input.ChallengeID)
	date, _ := ParseDate(input.Date)

	challenge, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if !challenge.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}

	entry := &models.Progress{
		ID:          uuid.New(),
		UserID:      userID,
		ChallengeID: challengeID,
		Amount:      float64(*input.Amount),
		Date:        date,
	}
	if err := s.progress.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

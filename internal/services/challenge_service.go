package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/shettytas/fitquest-web/internal/repository"
)

type ChallengeInput struct {
	Title        string      `json:"title" validate:"required,min=4"`
	Description  string      `json:"description"`
	Unit         models.Unit `json:"unit" validate:"omitempty,unit"`
	TargetPerDay *float64    `json:"targetPerDay" validate:"omitempty,gte=0"`
	StartDate    string      `json:"startDate" validate:"required,calendardate"`
	EndDate      string      `json:"endDate" validate:"required,calendardate"`
}

// ChallengePatch holds the fields of a partial update. Nil fields are left
// untouched; set fields are validated like their create counterparts.
type ChallengePatch struct {
	Title        *string      `json:"title" validate:"omitempty,min=4"`
	Description  *string      `json:"description"`
	Unit         *models.Unit `json:"unit" validate:"omitempty,unit"`
	TargetPerDay *float64     `json:"targetPerDay" validate:"omitempty,gte=0"`
	StartDate    *string      `json:"startDate" validate:"omitempty,calendardate"`
	EndDate      *string      `json:"endDate" validate:"omitempty,calendardate"`
}

type ChallengeService struct {
	challenges repository.ChallengeStore
	users      repository.UserStore
}

func NewChallengeService(challenges repository.ChallengeStore, users repository.UserStore) *ChallengeService {
	return &ChallengeService{challenges: challenges, users: users}
}

func (s *ChallengeService) List(ctx context.Context, query string) ([]models.ChallengeDetail, error) {
	challenges, err := s.challenges.List(ctx, repository.ChallengeListFilter{Title: strings.TrimSpace(query)})
	if err != nil {
		return nil, err
	}
	return s.withCreators(ctx, challenges)
}

func (s *ChallengeService) Create(ctx context.Context, creatorID uuid.UUID, input ChallengeInput) (*models.ChallengeDetail, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	startDate, _ := ParseDate(input.StartDate)
	endDate, _ := ParseDate(input.EndDate)

	challenge := &models.Challenge{
		ID:           uuid.New(),
		Title:        input.Title,
		Description:  strings.TrimSpace(input.Description),
		Unit:         models.DefaultUnit,
		TargetPerDay: models.DefaultTargetPerDay,
		StartDate:    startDate,
		EndDate:      endDate,
		CreatorID:    creatorID,
		Participants: []uuid.UUID{creatorID},
	}
	if input.Unit != "" {
		challenge.Unit = input.Unit
	}
	if input.TargetPerDay != nil {
		challenge.TargetPerDay = *input.TargetPerDay
	}

	if err := s.challenges.Create(ctx, challenge); err != nil {
		return nil, err
	}
	return s.withCreator(ctx, challenge)
}

func (s *ChallengeService) Get(ctx context.Context, id uuid.UUID) (*models.ChallengeDetail, error) {
	challenge, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCreator(ctx, challenge)
}

func (s *ChallengeService) Update(
	ctx context.Context,
	actorID uuid.UUID,
	id uuid.UUID,
	patch ChallengePatch,
) (*models.ChallengeDetail, error) {
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}
	challenge, err := s.Authorize(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(patch); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		challenge.Title = *patch.Title
	}
	if patch.Description != nil {
		challenge.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Unit != nil {
		challenge.Unit = *patch.Unit
	}
	if patch.TargetPerDay != nil {
		challenge.TargetPerDay = *patch.TargetPerDay
	}
	if patch.StartDate != nil {
		challenge.StartDate, _ = ParseDate(*patch.StartDate)
	}
	if patch.EndDate != nil {
		challenge.EndDate, _ = ParseDate(*patch.EndDate)
	}

	if err := s.challenges.Update(ctx, challenge); err != nil {
		return nil, mapStoreError(err)
	}
	return s.withCreator(ctx, challenge)
}

// Authorize loads the challenge and fails with ErrForbidden unless actorID
// created it.
func (s *ChallengeService) Authorize(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*models.Challenge, error) {
	challenge, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if challenge.CreatorID != actorID {
		return nil, ErrForbidden
	}
	return challenge, nil
}

func (s *ChallengeService) Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	if _, err := s.Authorize(ctx, actorID, id); err != nil {
		return err
	}
	return mapStoreError(s.challenges.Delete(ctx, id))
}

func (s *ChallengeService) Join(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*models.ChallengeRoster, error) {
	challenge, err := s.challenges.AddParticipant(ctx, id, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return s.roster(ctx, challenge)
}

func (s *ChallengeService) Leave(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*models.ChallengeRoster, error) {
	challenge, err := s.challenges.RemoveParticipant(ctx, id, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return s.roster(ctx, challenge)
}

// PurgeByTitle deletes every challenge whose title contains substring and
// returns how many were removed.
func (s *ChallengeService) PurgeByTitle(ctx context.Context, substring string) (int, error) {
	substring = strings.TrimSpace(substring)
	if substring == "" {
		return 0, NewFieldError("title", "is required")
	}
	challenges, err := s.challenges.List(ctx, repository.ChallengeListFilter{Title: substring})
	if err != nil {
		return 0, err
	}
	return s.deleteAll(ctx, challenges)
}

// PurgeByCreatorNames deletes every challenge created by a user whose name
// matches one of names exactly.
func (s *ChallengeService) PurgeByCreatorNames(ctx context.Context, names []string) (int, error) {
	if len(names) == 0 {
		return 0, NewFieldError("names", "is required")
	}
	creators, err := s.users.ListByNames(ctx, names)
	if err != nil {
		return 0, err
	}
	if len(creators) == 0 {
		return 0, nil
	}

	creatorIDs := make([]uuid.UUID, 0, len(creators))
	for _, creator := range creators {
		creatorIDs = append(creatorIDs, creator.ID)
	}
	challenges, err := s.challenges.List(ctx, repository.ChallengeListFilter{CreatorIDs: creatorIDs})
	if err != nil {
		return 0, err
	}
	return s.deleteAll(ctx, challenges)
}

func (s *ChallengeService) deleteAll(ctx context.Context, challenges []models.Challenge) (int, error) {
	deleted := 0
	for _, challenge := range challenges {
		err := s.challenges.Delete(ctx, challenge.ID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (s *ChallengeService) load(ctx context.Context, id uuid.UUID) (*models.Challenge, error) {
	challenge, err := s.challenges.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return challenge, nil
}

func (s *ChallengeService) withCreator(ctx context.Context, challenge *models.Challenge) (*models.ChallengeDetail, error) {
	details, err := s.withCreators(ctx, []models.Challenge{*challenge})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *ChallengeService) withCreators(ctx context.Context, challenges []models.Challenge) ([]models.ChallengeDetail, error) {
	ids := make([]uuid.UUID, 0, len(challenges))
	for _, challenge := range challenges {
		ids = append(ids, challenge.CreatorID)
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]models.ChallengeDetail, 0, len(challenges))
	for _, challenge := range challenges {
		creator := models.UserRef{ID: challenge.CreatorID, Name: models.UnknownUserName}
		if user, ok := users[challenge.CreatorID]; ok {
			creator.Name = user.Name
		}
		details = append(details, models.ChallengeDetail{Challenge: challenge, Creator: creator})
	}
	return details, nil
}

// roster resolves the creator and every participant. Participants whose user
// record is gone are left out.
func (s *ChallengeService) roster(ctx context.Context, challenge *models.Challenge) (*models.ChallengeRoster, error) {
	detail, err := s.withCreator(ctx, challenge)
	if err != nil {
		return nil, err
	}
	users, err := s.usersByID(ctx, challenge.Participants)
	if err != nil {
		return nil, err
	}

	participants := make([]models.Participant, 0, len(challenge.Participants))
	for _, id := range challenge.Participants {
		user, ok := users[id]
		if !ok {
			continue
		}
		participants = append(participants, models.Participant{ID: user.ID, Name: user.Name, Email: user.Email})
	}
	return &models.ChallengeRoster{ChallengeDetail: *detail, Participants: participants}, nil
}

func (s *ChallengeService) usersByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	return lookupUsers(ctx, s.users, ids)
}

func lookupUsers(ctx context.Context, store repository.UserStore, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := store.ListByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	return byID, nil
}

func mapStoreError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Package memrepo keeps every store in process memory. It backs the memory
// store driver and the service tests.
package memrepo

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/shettytas/fitquest-web/internal/repository"
)

// Store holds the three collections behind one mutex.
type Store struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]models.User
	challenges map[uuid.UUID]models.Challenge
	progress   []models.Progress
	now        func() time.Time
	seq        time.Duration
}

func New() *Store {
	return &Store{
		users:      make(map[uuid.UUID]models.User),
		challenges: make(map[uuid.UUID]models.Challenge),
		now:        time.Now,
	}
}

func (s *Store) Users() *UserRepository           { return &UserRepository{s: s} }
func (s *Store) Challenges() *ChallengeRepository { return &ChallengeRepository{s: s} }
func (s *Store) Progress() *ProgressRepository    { return &ProgressRepository{s: s} }

// timestamp is strictly increasing so creation order is stable. Caller holds mu.
func (s *Store) timestamp() time.Time {
	s.seq += time.Microsecond
	return s.now().UTC().Add(s.seq)
}

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if _, ok := r.s.users[user.ID]; ok {
		return repository.ErrDuplicate
	}
	now := r.s.timestamp()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) ListByIDs(_ context.Context, ids []uuid.UUID) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]models.User, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if user, ok := r.s.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *UserRepository) ListByNames(_ context.Context, names []string) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}
	users := make([]models.User, 0)
	for _, user := range r.s.users {
		if _, ok := wanted[user.Name]; ok {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *UserRepository) Update(_ context.Context, id uuid.UUID, input repository.UpdateUserInput) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.AvatarURL != nil {
		avatar := *input.AvatarURL
		user.AvatarURL = &avatar
	}
	user.UpdatedAt = r.s.timestamp()
	r.s.users[id] = user
	return &user, nil
}

type ChallengeRepository struct{ s *Store }

func (r *ChallengeRepository) Create(_ context.Context, challenge *models.Challenge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.challenges[challenge.ID]; ok {
		return repository.ErrDuplicate
	}
	now := r.s.timestamp()
	challenge.CreatedAt = now
	challenge.UpdatedAt = now

	stored := *challenge
	stored.Participants = make([]uuid.UUID, 0, len(challenge.Participants))
	for _, id := range challenge.Participants {
		if !stored.HasParticipant(id) {
			stored.Participants = append(stored.Participants, id)
		}
	}
	r.s.challenges[challenge.ID] = stored
	return nil
}

func (r *ChallengeRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Challenge, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	challenge, ok := r.s.challenges[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneChallenge(challenge), nil
}

func (r *ChallengeRepository) List(_ context.Context, filter repository.ChallengeListFilter) ([]models.Challenge, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	title := strings.ToLower(filter.Title)
	creators := make(map[uuid.UUID]struct{}, len(filter.CreatorIDs))
	for _, id := range filter.CreatorIDs {
		creators[id] = struct{}{}
	}

	challenges := make([]models.Challenge, 0)
	for _, challenge := range r.s.challenges {
		if title != "" && !strings.Contains(strings.ToLower(challenge.Title), title) {
			continue
		}
		if len(creators) > 0 {
			if _, ok := creators[challenge.CreatorID]; !ok {
				continue
			}
		}
		challenges = append(challenges, *cloneChallenge(challenge))
	}
	sort.Slice(challenges, func(i, j int) bool {
		if !challenges[i].CreatedAt.Equal(challenges[j].CreatedAt) {
			return challenges[i].CreatedAt.Before(challenges[j].CreatedAt)
		}
		return bytes.Compare(challenges[i].ID[:], challenges[j].ID[:]) < 0
	})
	return challenges, nil
}

func (r *ChallengeRepository) Update(_ context.Context, challenge *models.Challenge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.challenges[challenge.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = challenge.Title
	stored.Description = challenge.Description
	stored.Unit = challenge.Unit
	stored.TargetPerDay = challenge.TargetPerDay
	stored.StartDate = challenge.StartDate
	stored.EndDate = challenge.EndDate
	stored.UpdatedAt = r.s.timestamp()
	r.s.challenges[challenge.ID] = stored

	challenge.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *ChallengeRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.challenges[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.challenges, id)
	return nil
}

func (r *ChallengeRepository) AddParticipant(_ context.Context, challengeID, userID uuid.UUID) (*models.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	challenge, ok := r.s.challenges[challengeID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !challenge.HasParticipant(userID) {
		participants := make([]uuid.UUID, 0, len(challenge.Participants)+1)
		participants = append(participants, challenge.Participants...)
		challenge.Participants = append(participants, userID)
		r.s.challenges[challengeID] = challenge
	}
	return cloneChallenge(challenge), nil
}

func (r *ChallengeRepository) RemoveParticipant(_ context.Context, challengeID, userID uuid.UUID) (*models.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	challenge, ok := r.s.challenges[challengeID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	participants := make([]uuid.UUID, 0, len(challenge.Participants))
	for _, id := range challenge.Participants {
		if id != userID {
			participants = append(participants, id)
		}
	}
	challenge.Participants = participants
	r.s.challenges[challengeID] = challenge
	return cloneChallenge(challenge), nil
}

func cloneChallenge(c models.Challenge) *models.Challenge {
	c.Participants = append([]uuid.UUID{}, c.Participants...)
	return &c
}

type ProgressRepository struct{ s *Store }

func (r *ProgressRepository) Create(_ context.Context, progress *models.Progress) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.timestamp()
	progress.CreatedAt = now
	progress.UpdatedAt = now
	r.s.progress = append(r.s.progress, *progress)
	return nil
}

func (r *ProgressRepository) TotalsByChallenge(
	_ context.Context,
	challengeID uuid.UUID,
	limit int,
) ([]models.LeaderboardRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	totals := make(map[uuid.UUID]float64)
	for _, entry := range r.s.progress {
		if entry.ChallengeID == challengeID {
			totals[entry.UserID] += entry.Amount
		}
	}

	rows := make([]models.LeaderboardRow, 0, len(totals))
	for userID, total := range totals {
		rows = append(rows, models.LeaderboardRow{UserID: userID, Total: total})
	}
	models.SortLeaderboardRows(rows)
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

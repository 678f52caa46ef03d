package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/shettytas/fitquest-web/internal/repository/memrepo"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store       *memrepo.Store
	auth        *AuthService
	challenges  *ChallengeService
	progress    *ProgressService
	leaderboard *LeaderboardService
	storage     *stubStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memrepo.New()
	storage := &stubStorage{}
	return &testEnv{
		store:       store,
		auth:        NewAuthService(store.Users(), storage),
		challenges:  NewChallengeService(store.Challenges(), store.Users()),
		progress:    NewProgressService(store.Progress(), store.Challenges()),
		leaderboard: NewLeaderboardService(store.Progress(), store.Users()),
		storage:     storage,
	}
}

func (e *testEnv) register(t *testing.T, name, email string) *models.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "secret123"})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createChallenge(t *testing.T, creatorID uuid.UUID, title string) *models.ChallengeDetail {
	t.Helper()
	challenge, err := e.challenges.Create(context.Background(), creatorID, ChallengeInput{
		Title:     title,
		StartDate: "2025-01-01",
		EndDate:   "2025-01-31",
	})
	require.NoError(t, err)
	return challenge
}

func (e *testEnv) record(t *testing.T, userID, challengeID uuid.UUID, amount float64) {
	t.Helper()
	_, err := e.progress.Record(context.Background(), userID, ProgressInput{
		ChallengeID: challengeID.String(),
		Amount:      ptr(Amount(amount)),
		Date:        "2025-01-02",
	})
	require.NoError(t, err)
}

func ptr[T any](v T) *T {
	return &v
}

type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func newMemoryFile(content string) multipart.File {
	return memoryFile{Reader: bytes.NewReader([]byte(content))}
}

type stubStorage struct {
	mu        sync.Mutex
	uploads   map[string]string
	deleted   []string
	uploadErr error
}

func (s *stubStorage) UploadFile(_ context.Context, file multipart.File, filename string, folder string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	content, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploads == nil {
		s.uploads = make(map[string]string)
	}
	fileURL := "https://cdn.example.com/" + folder + "/" + filename
	s.uploads[fileURL] = string(content)
	return fileURL, nil
}

func (s *stubStorage) DeleteFile(_ context.Context, fileURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.uploads[fileURL]; !ok {
		return errors.New("unknown object")
	}
	delete(s.uploads, fileURL)
	s.deleted = append(s.deleted, fileURL)
	return nil
}

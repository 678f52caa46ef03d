package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/shettytas/fitquest-web/internal/services"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChallengeService struct {
	listResult   []models.ChallengeDetail
	listErr      error
	detail       *models.ChallengeDetail
	roster       *models.ChallengeRoster
	err          error
	lastQuery    string
	lastActorID  uuid.UUID
	lastID       uuid.UUID
	lastInput    services.ChallengeInput
	lastPatch    services.ChallengePatch
	authErr      error
	authorized   bool
	updateCalled bool
}

func (s *stubChallengeService) List(_ context.Context, query string) ([]models.ChallengeDetail, error) {
	s.lastQuery = query
	return s.listResult, s.listErr
}

func (s *stubChallengeService) Create(_ context.Context, creatorID uuid.UUID, input services.ChallengeInput) (*models.ChallengeDetail, error) {
	s.lastActorID = creatorID
	s.lastInput = input
	return s.detail, s.err
}

func (s *stubChallengeService) Get(_ context.Context, id uuid.UUID) (*models.ChallengeDetail, error) {
	s.lastID = id
	return s.detail, s.err
}

func (s *stubChallengeService) Authorize(_ context.Context, actorID uuid.UUID, id uuid.UUID) (*models.Challenge, error) {
	s.authorized = true
	s.lastActorID = actorID
	s.lastID = id
	if s.authErr != nil {
		return nil, s.authErr
	}
	return &models.Challenge{ID: id, CreatorID: actorID}, nil
}

func (s *stubChallengeService) Update(_ context.Context, actorID uuid.UUID, id uuid.UUID, patch services.ChallengePatch) (*models.ChallengeDetail, error) {
	s.updateCalled = true
	s.lastActorID = actorID
	s.lastID = id
	s.lastPatch = patch
	return s.detail, s.err
}

func (s *stubChallengeService) Delete(_ context.Context, actorID uuid.UUID, id uuid.UUID) error {
	s.lastActorID = actorID
	s.lastID = id
	return s.err
}

func (s *stubChallengeService) Join(_ context.Context, userID uuid.UUID, id uuid.UUID) (*models.ChallengeRoster, error) {
	s.lastActorID = userID
	s.lastID = id
	return s.roster, s.err
}

func (s *stubChallengeService) Leave(_ context.Context, userID uuid.UUID, id uuid.UUID) (*models.ChallengeRoster, error) {
	s.lastActorID = userID
	s.lastID = id
	return s.roster, s.err
}

func newChallengeTestApp(service *stubChallengeService) *fiber.App {
	handler := &ChallengeHandler{service: service, log: newTestLogger()}
	return newTestApp(func(app *fiber.App) {
		app.Get("/api/challenges", handler.List)
		app.Post("/api/challenges", handler.Create)
		app.Get("/api/challenges/:id", handler.Get)
		app.Put("/api/challenges/:id", handler.Update)
		app.Delete("/api/challenges/:id", handler.Delete)
		app.Post("/api/challenges/:id/join", handler.Join)
		app.Post("/api/challenges/:id/leave", handler.Leave)
	})
}

func sampleDetail(creatorID uuid.UUID) *models.ChallengeDetail {
	return &models.ChallengeDetail{
		Challenge: models.Challenge{
			ID:           uuid.New(),
			Title:        "Walk more",
			Unit:         models.UnitSteps,
			TargetPerDay: 10000,
			StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:      time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			CreatorID:    creatorID,
			Participants: []uuid.UUID{creatorID},
		},
		Creator: models.UserRef{ID: creatorID, Name: "Ada"},
	}
}

func TestListChallengesPassesQuery(t *testing.T) {
	service := &stubChallengeService{listResult: []models.ChallengeDetail{*sampleDetail(uuid.New())}}
	app := newChallengeTestApp(service)

	resp, raw := doRaw(t, app, http.MethodGet, "/api/challenges?q=walk", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "walk", service.lastQuery)
	assert.Contains(t, string(raw), `"title":"Walk more"`)
	assert.Contains(t, string(raw), `"creator":{"id":`)
	assert.NotContains(t, string(raw), "CreatorID")
}

func TestCreateChallengeReturnsCreated(t *testing.T) {
	actor := uuid.New()
	service := &stubChallengeService{detail: sampleDetail(actor)}
	app := newChallengeTestApp(service)

	resp, body := doJSON(t, app, http.MethodPost, "/api/challenges", actor.String(),
		`{"title":"Walk more","startDate":"2025-01-01","endDate":"2025-01-31","targetPerDay":0}`)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Walk more", body["title"])
	assert.Equal(t, actor, service.lastActorID)
	require.NotNil(t, service.lastInput.TargetPerDay)
	assert.Zero(t, *service.lastInput.TargetPerDay)
}

func TestCreateChallengeRequiresActor(t *testing.T) {
	app := newChallengeTestApp(&stubChallengeService{})

	resp, _ := doJSON(t, app, http.MethodPost, "/api/challenges", "", `{"title":"Walk more"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateChallengeValidationFailure(t *testing.T) {
	service := &stubChallengeService{err: services.NewFieldError("title", "is required")}
	app := newChallengeTestApp(service)

	resp, body := doJSON(t, app, http.MethodPost, "/api/challenges", uuid.NewString(), `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Equal(t, []any{map[string]any{"field": "title", "message": "is required"}}, body["errors"])
}

func TestCreateChallengeInvalidJSON(t *testing.T) {
	app := newChallengeTestApp(&stubChallengeService{})

	resp, body := doJSON(t, app, http.MethodPost, "/api/challenges", uuid.NewString(), `{"title":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", body["error"])
}

func TestGetChallengeMalformedIDIsNotFound(t *testing.T) {
	service := &stubChallengeService{}
	app := newChallengeTestApp(service)

	resp, body := doJSON(t, app, http.MethodGet, "/api/challenges/not-an-id", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Challenge not found", body["error"])
	assert.Equal(t, uuid.Nil, service.lastID)
}

func TestGetChallengeUnknownID(t *testing.T) {
	app := newChallengeTestApp(&stubChallengeService{err: services.ErrNotFound})

	resp, body := doJSON(t, app, http.MethodGet, "/api/challenges/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Challenge not found", body["error"])
}

func TestUpdateChallengeRejectsUnknownField(t *testing.T) {
	service := &stubChallengeService{}
	app := newChallengeTestApp(service)

	resp, body := doJSON(t, app, http.MethodPut, "/api/challenges/"+uuid.NewString(), uuid.NewString(),
		`{"title":"Walk","creatorId":"someone-else"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Unknown field: creatorId", body["error"])
	assert.Equal(t, []any{map[string]any{"field": "creatorId", "message": "is not allowed"}}, body["errors"])
	assert.True(t, service.authorized)
	assert.False(t, service.updateCalled)
}

func TestUpdateChallengeBadBodyReportsOwnershipFirst(t *testing.T) {
	cases := []struct {
		name    string
		authErr error
		body    string
		status  int
		message string
	}{
		{"non-owner with unknown field", services.ErrForbidden, `{"bogus":1}`, http.StatusForbidden, "Forbidden"},
		{"non-owner with malformed json", services.ErrForbidden, `{"title":`, http.StatusForbidden, "Forbidden"},
		{"missing challenge with unknown field", services.ErrNotFound, `{"bogus":1}`, http.StatusNotFound, "Challenge not found"},
		{"owner with unknown field", nil, `{"bogus":1}`, http.StatusBadRequest, "Unknown field: bogus"},
		{"owner with malformed json", nil, `{"title":`, http.StatusBadRequest, "Invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubChallengeService{authErr: tc.authErr}
			app := newChallengeTestApp(service)

			resp, body := doJSON(t, app, http.MethodPut, "/api/challenges/"+uuid.NewString(), uuid.NewString(), tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.message, body["error"])
			assert.False(t, service.updateCalled)
		})
	}
}

func TestUpdateChallengeNonOwnerInvalidUnitIsForbidden(t *testing.T) {
	app := newChallengeTestApp(&stubChallengeService{err: services.ErrForbidden})

	resp, body := doJSON(t, app, http.MethodPut, "/api/challenges/"+uuid.NewString(), uuid.NewString(), `{"unit":"parsecs"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Forbidden", body["error"])
}

func TestUpdateChallengeForbidden(t *testing.T) {
	app := newChallengeTestApp(&stubChallengeService{err: services.ErrForbidden})

	resp, body := doJSON(t, app, http.MethodPut, "/api/challenges/"+uuid.NewString(), uuid.NewString(), `{"title":"Mine now"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Forbidden", body["error"])
}

func TestUpdateChallengePassesPatch(t *testing.T) {
	actor := uuid.New()
	id := uuid.New()
	service := &stubChallengeService{detail: sampleDetail(actor)}
	app := newChallengeTestApp(service)

	resp, _ := doJSON(t, app, http.MethodPut, "/api/challenges/"+id.String(), actor.String(), `{"unit":"km","targetPerDay":3.5}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, service.lastID)
	require.NotNil(t, service.lastPatch.Unit)
	assert.Equal(t, models.UnitKM, *service.lastPatch.Unit)
	assert.Nil(t, service.lastPatch.Title)
}

func TestDeleteChallengeReturnsOK(t *testing.T) {
	app := newChallengeTestApp(&stubChallengeService{})

	resp, body := doJSON(t, app, http.MethodDelete, "/api/challenges/"+uuid.NewString(), uuid.NewString(), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
}

func TestJoinChallengeReturnsRoster(t *testing.T) {
	actor := uuid.New()
	detail := sampleDetail(actor)
	service := &stubChallengeService{roster: &models.ChallengeRoster{
		ChallengeDetail: *detail,
		Participants:    []models.Participant{{ID: actor, Name: "Ada", Email: "ada@example.com"}},
	}}
	app := newChallengeTestApp(service)

	resp, body := doJSON(t, app, http.MethodPost, "/api/challenges/"+detail.ID.String()+"/join", actor.String(), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{map[string]any{"id": actor.String(), "name": "Ada", "email": "ada@example.com"}}, body["participants"])
	assert.Equal(t, actor, service.lastActorID)
}

func TestLeaveChallengeInternalErrorIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	handler := &ChallengeHandler{service: &stubChallengeService{err: errors.New("db down")}, log: logger}
	app := newTestApp(func(app *fiber.App) {
		app.Post("/api/challenges/:id/leave", handler.Leave)
	})

	resp, body := doJSON(t, app, http.MethodPost, "/api/challenges/"+uuid.NewString()+"/leave", uuid.NewString(), "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to leave challenge", body["error"])
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Failed to leave challenge", hook.LastEntry().Message)
}

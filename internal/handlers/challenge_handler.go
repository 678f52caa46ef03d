package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/shettytas/fitquest-web/internal/services"
	"github.com/sirupsen/logrus"
)

type challengeApplicationService interface {
	List(ctx context.Context, query string) ([]models.ChallengeDetail, error)
	Create(ctx context.Context, creatorID uuid.UUID, input services.ChallengeInput) (*models.ChallengeDetail, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ChallengeDetail, error)
	Authorize(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*models.Challenge, error)
	Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, patch services.ChallengePatch) (*models.ChallengeDetail, error)
	Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error
	Join(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*models.ChallengeRoster, error)
	Leave(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*models.ChallengeRoster, error)
}

type ChallengeHandler struct {
	service challengeApplicationService
	log     logrus.FieldLogger
}

func NewChallengeHandler(service *services.ChallengeService, log logrus.FieldLogger) *ChallengeHandler {
	return &ChallengeHandler{service: service, log: log}
}

func (h *ChallengeHandler) List(c *fiber.Ctx) error {
	challenges, err := h.service.List(c.Context(), c.Query("q"))
	if err != nil {
		return internalError(c, h.log, err, "Failed to fetch challenges")
	}
	return c.JSON(challenges)
}

func (h *ChallengeHandler) Create(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return unauthenticated(c)
	}

	var req services.ChallengeInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	challenge, err := h.service.Create(c.Context(), userID, req)
	if err != nil {
		return h.mapChallengeError(c, err, "Failed to create challenge")
	}
	return c.Status(fiber.StatusCreated).JSON(challenge)
}

func (h *ChallengeHandler) Get(c *fiber.Ctx) error {
	id, ok := challengeIDParam(c)
	if !ok {
		return challengeNotFound(c)
	}

	challenge, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.mapChallengeError(c, err, "Failed to fetch challenge")
	}
	return c.JSON(challenge)
}

func (h *ChallengeHandler) Update(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return unauthenticated(c)
	}
	id, ok := challengeIDParam(c)
	if !ok {
		return challengeNotFound(c)
	}

	// Existence and ownership are reported before anything about the body.
	var patch services.ChallengePatch
	if err := decodeStrict(c.Body(), &patch); err != nil {
		if _, authErr := h.service.Authorize(c.Context(), userID, id); authErr != nil {
			return h.mapChallengeError(c, authErr, "Failed to update challenge")
		}
		if errors.Is(err, services.ErrInvalidInput) {
			return validationFailed(c, err)
		}
		return invalidBody(c)
	}

	challenge, err := h.service.Update(c.Context(), userID, id, patch)
	if err != nil {
		return h.mapChallengeError(c, err, "Failed to update challenge")
	}
	return c.JSON(challenge)
}

func (h *ChallengeHandler) Delete(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return unauthenticated(c)
	}
	id, ok := challengeIDParam(c)
	if !ok {
		return challengeNotFound(c)
	}

	if err := h.service.Delete(c.Context(), userID, id); err != nil {
		return h.mapChallengeError(c, err, "Failed to delete challenge")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ChallengeHandler) Join(c *fiber.Ctx) error {
	return h.membership(c, h.service.Join, "Failed to join challenge")
}

func (h *ChallengeHandler) Leave(c *fiber.Ctx) error {
	return h.membership(c, h.service.Leave, "Failed to leave challenge")
}

func (h *ChallengeHandler) membership(
	c *fiber.Ctx,
	apply func(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*models.ChallengeRoster, error),
	failure string,
) error {
	userID, err := parseActorID(c)
	if err != nil {
		return unauthenticated(c)
	}
	id, ok := challengeIDParam(c)
	if !ok {
		return challengeNotFound(c)
	}

	roster, err := apply(c.Context(), userID, id)
	if err != nil {
		return h.mapChallengeError(c, err, failure)
	}
	return c.JSON(roster)
}

// challengeIDParam treats a malformed id like an unknown one.
func challengeIDParam(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func challengeNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Challenge not found"})
}

func (h *ChallengeHandler) mapChallengeError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return validationFailed(c, err)
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrNotFound):
		return challengeNotFound(c)
	default:
		return internalError(c, h.log, err, message)
	}
}

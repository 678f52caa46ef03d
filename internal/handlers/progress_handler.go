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

type progressApplicationService interface {
	Record(ctx context.Context, userID uuid.UUID, input services.ProgressInput) (*models.Progress, error)
}

type ProgressHandler struct {
	service progressApplicationService
	log     logrus.FieldLogger
}

func NewProgressHandler(service *services.ProgressService, log logrus.FieldLogger) *ProgressHandler {
	return &ProgressHandler{service: service, log: log}
}

func (h *ProgressHandler) Record(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return unauthenticated(c)
	}

	var req services.ProgressInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	entry, err := h.service.Record(c.Context(), userID, req)
	if err != nil {
		return h.mapProgressError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *ProgressHandler) mapProgressError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return validationFailed(c, err)
	case errors.Is(err, services.ErrNotFound):
		return challengeNotFound(c)
	case errors.Is(err, services.ErrNotParticipant):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Join the challenge first"})
	default:
		return internalError(c, h.log, err, "Failed to record progress")
	}
}

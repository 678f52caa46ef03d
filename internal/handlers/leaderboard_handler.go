package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/shettytas/fitquest-web/internal/services"
	"github.com/sirupsen/logrus"
)

type leaderboardApplicationService interface {
	Get(ctx context.Context, challengeID uuid.UUID) ([]models.LeaderboardEntry, error)
}

type LeaderboardHandler struct {
	service leaderboardApplicationService
	log     logrus.FieldLogger
}

func NewLeaderboardHandler(service *services.LeaderboardService, log logrus.FieldLogger) *LeaderboardHandler {
	return &LeaderboardHandler{service: service, log: log}
}

func (h *LeaderboardHandler) Get(c *fiber.Ctx) error {
	challengeID, err := uuid.Parse(c.Params("challengeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid challenge ID"})
	}

	entries, err := h.service.Get(c.Context(), challengeID)
	if err != nil {
		return internalError(c, h.log, err, "Failed to fetch leaderboard")
	}
	return c.JSON(entries)
}

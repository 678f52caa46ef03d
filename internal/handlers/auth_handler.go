package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/middleware"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/shettytas/fitquest-web/internal/services"
	"github.com/shettytas/fitquest-web/pkg/utils"
	"github.com/sirupsen/logrus"
)

const maxAvatarSizeBytes = 5 * 1024 * 1024

type authApplicationService interface {
	Register(ctx context.Context, input services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, input services.LoginInput) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input services.UpdateProfileInput) (*models.User, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, file multipart.File, ext string) (*models.User, error)
}

type AuthHandler struct {
	service    authApplicationService
	jwtSecret  string
	sessionTTL time.Duration
	log        logrus.FieldLogger
}

func NewAuthHandler(
	service *services.AuthService,
	jwtSecret string,
	sessionTTL time.Duration,
	log logrus.FieldLogger,
) *AuthHandler {
	return &AuthHandler{
		service:    service,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.service.Register(c.Context(), req)
	if err != nil {
		return h.mapAuthError(c, err, "Failed to register")
	}
	if err := h.issueSession(c, user.ID); err != nil {
		return internalError(c, h.log, err, "Failed to create session")
	}
	return c.Status(fiber.StatusCreated).JSON(user.Summary())
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.service.Login(c.Context(), req)
	if err != nil {
		return h.mapAuthError(c, err, "Failed to log in")
	}
	if err := h.issueSession(c, user.ID); err != nil {
		return internalError(c, h.log, err, "Failed to create session")
	}
	return c.JSON(user.Summary())
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return unauthenticated(c)
	}

	user, err := h.service.GetProfile(c.Context(), userID)
	if err != nil {
		return h.mapAuthError(c, err, "Failed to fetch profile")
	}
	return c.JSON(user.Profile())
}

func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return unauthenticated(c)
	}

	var req services.UpdateProfileInput
	if err := decodeStrict(c.Body(), &req); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return validationFailed(c, err)
		}
		return invalidBody(c)
	}

	user, err := h.service.UpdateProfile(c.Context(), userID, req)
	if err != nil {
		return h.mapAuthError(c, err, "Failed to update profile")
	}
	return c.JSON(user.Profile())
}

func (h *AuthHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return unauthenticated(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is empty"})
	}
	if fileHeader.Size > maxAvatarSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file exceeds 5MB limit"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file must be a jpg, jpeg, png, webp, or gif image"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return internalError(c, h.log, err, "Failed to open avatar file")
	}
	defer file.Close()

	user, err := h.service.UploadAvatar(c.Context(), userID, file, ext)
	if err != nil {
		return h.mapAuthError(c, err, "Failed to upload avatar")
	}
	return c.JSON(user.Profile())
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	middleware.ClearSessionCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (h *AuthHandler) issueSession(c *fiber.Ctx, userID uuid.UUID) error {
	token, err := utils.GenerateToken(userID.String(), h.jwtSecret, h.sessionTTL)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(c, token, h.sessionTTL)
	return nil
}

func (h *AuthHandler) mapAuthError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return validationFailed(c, err)
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, services.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage service is not configured"})
	default:
		return internalError(c, h.log, err, message)
	}
}

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/middleware"
	"github.com/shettytas/fitquest-web/internal/services"
	"github.com/sirupsen/logrus"
)

const unknownFieldMessage = "is not allowed"

func parseActorID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(middleware.UserIDLocal).(string)
	if !ok {
		return uuid.Nil, errors.New("missing user id")
	}
	return uuid.Parse(userID)
}

// decodeStrict decodes a JSON object and rejects fields dst does not declare.
func decodeStrict(body []byte, dst any) error {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return &services.ValidationError{Fields: []services.FieldError{{
				Field:   strings.Trim(field, `"`),
				Message: unknownFieldMessage,
			}}}
		}
		return err
	}
	if decoder.More() {
		return errors.New("unexpected data after request body")
	}
	return nil
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
}

// validationFailed writes a 400 with per-field detail when err carries it.
func validationFailed(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	message := "Validation failed"
	for _, field := range verr.Fields {
		if field.Message == unknownFieldMessage {
			message = "Unknown field: " + field.Field
			break
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  message,
		"errors": verr.Fields,
	})
}

func internalError(c *fiber.Ctx, log logrus.FieldLogger, err error, message string) error {
	log.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error(message)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": message})
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
}

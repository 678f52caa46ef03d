package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shettytas/fitquest-web/internal/middleware"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const testActorHeader = "X-Test-User"

func newTestLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

// newTestApp runs handlers behind a stand-in for the session middleware that
// trusts the actor header.
func newTestApp(register func(app *fiber.App)) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if actor := c.Get(testActorHeader); actor != "" {
			c.Locals(middleware.UserIDLocal, actor)
		}
		return c.Next()
	})
	register(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, actor, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, raw := doRaw(t, app, method, target, actor, body)
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func doRaw(t *testing.T, app *fiber.App, method, target, actor, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != "" {
		req.Header.Set(testActorHeader, actor)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

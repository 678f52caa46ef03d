package routes

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// registerStaticRoutes serves the built frontend and falls back to its
// index.html for client-side routes. It reports false when dir is missing.
func registerStaticRoutes(app *fiber.App, dir string) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}

	index := filepath.Join(dir, "index.html")
	app.Static("/", dir)
	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") || c.Path() == "/api" {
			return c.Next()
		}
		return c.SendFile(index)
	})
	return true
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shettytas/fitquest-web/internal/config"
	"github.com/shettytas/fitquest-web/internal/handlers"
	"github.com/shettytas/fitquest-web/internal/middleware"
	"github.com/shettytas/fitquest-web/internal/services"
	"github.com/shettytas/fitquest-web/internal/store"
	"github.com/sirupsen/logrus"
)

type Dependencies struct {
	Store   *store.Store
	Storage services.StorageService
	Metrics *middleware.Metrics
	Log     *logrus.Logger
}

// NewApp builds the fiber app with the shared middleware stack and every route.
func NewApp(cfg *config.Config, deps Dependencies) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:   "fitquest",
		BodyLimit: 6 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: deps.Log.Writer()}))
	corsConfig := cors.Config{AllowOrigins: cfg.ClientOrigin}
	if cfg.ClientOrigin != "" && cfg.ClientOrigin != "*" {
		corsConfig.AllowCredentials = true
	}
	app.Use(cors.New(corsConfig))
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Monitor())
	}

	if err := RegisterRoutes(app, cfg, deps); err != nil {
		return nil, err
	}
	return app, nil
}

func RegisterRoutes(app *fiber.App, cfg *config.Config, deps Dependencies) error {
	st := deps.Store
	authService := services.NewAuthService(st.Users, deps.Storage)
	challengeService := services.NewChallengeService(st.Challenges, st.Users)
	progressService := services.NewProgressService(st.Progress, st.Challenges)
	leaderboardService := services.NewLeaderboardService(st.Progress, st.Users)

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecret, cfg.SessionTTL, deps.Log)
	challengeHandler := handlers.NewChallengeHandler(challengeService, deps.Log)
	progressHandler := handlers.NewProgressHandler(progressService, deps.Log)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService, deps.Log)

	requireAuth := middleware.AuthRequired(cfg.JWTSecret)
	authLimiter := middleware.NewRateLimiter(cfg.AuthRatePerSec, cfg.AuthRateBurst)

	api := app.Group("/api")
	api.Get("/health", handlers.Health)

	auth := api.Group("/auth", authLimiter.Handler())
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", requireAuth, authHandler.Me)
	auth.Put("/me", requireAuth, authHandler.UpdateMe)
	auth.Post("/me/avatar", requireAuth, authHandler.UploadAvatar)

	challenges := api.Group("/challenges")
	challenges.Get("", challengeHandler.List)
	challenges.Post("", requireAuth, challengeHandler.Create)
	challenges.Get("/:id", challengeHandler.Get)
	challenges.Put("/:id", requireAuth, challengeHandler.Update)
	challenges.Delete("/:id", requireAuth, challengeHandler.Delete)
	challenges.Post("/:id/join", requireAuth, challengeHandler.Join)
	challenges.Post("/:id/leave", requireAuth, challengeHandler.Leave)

	progress := api.Group("/progress")
	progress.Post("/update", requireAuth, progressHandler.Record)

	api.Get("/leaderboard/:challengeId", leaderboardHandler.Get)

	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})

	if deps.Metrics != nil && cfg.MetricsEnabled() {
		app.Get("/metrics", deps.Metrics.Handler(cfg.MetricsUser, cfg.MetricsPass)...)
	}

	if err := registerDocsRoutes(app, cfg); err != nil {
		return err
	}

	if registerStaticRoutes(app, cfg.StaticDir) {
		deps.Log.WithField("dir", cfg.StaticDir).Info("serving static frontend")
	}
	return nil
}

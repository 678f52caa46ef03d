package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/shettytas/fitquest-web/internal/config"
	"github.com/shettytas/fitquest-web/internal/logging"
	"github.com/shettytas/fitquest-web/internal/models"
	"github.com/shettytas/fitquest-web/internal/services"
	"github.com/shettytas/fitquest-web/internal/store"
	"github.com/sirupsen/logrus"
)

func main() {
	adminEmail := flag.String("admin-email", "admin@fitquest.com", "email of the user that owns seeded challenges")
	adminName := flag.String("admin-name", "Admin User", "display name used when the owner is created")
	adminPassword := flag.String("admin-password", "admin123", "password used when the owner is created")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New("production", "info").WithError(err).Fatal("failed to load config")
	}
	log := logging.New(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	owner := services.RegisterInput{Name: *adminName, Email: *adminEmail, Password: *adminPassword}
	err = run(ctx, cfg, owner, log)
	stop()
	if err != nil {
		log.WithError(err).Fatal("seed failed")
	}
}

func run(ctx context.Context, cfg *config.Config, owner services.RegisterInput, log logrus.FieldLogger) (err error) {
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if closeErr := st.Close(context.Background()); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close store: %w", closeErr))
		}
	}()

	created, skipped, err := seed(ctx, st, owner, log)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"created": created, "skipped": skipped}).Info("seed complete")
	return nil
}

// seed creates every catalogue challenge the owner does not already have a
// challenge with the same title for.
func seed(ctx context.Context, st *store.Store, owner services.RegisterInput, log logrus.FieldLogger) (int, int, error) {
	authService := services.NewAuthService(st.Users, nil)
	challengeService := services.NewChallengeService(st.Challenges, st.Users)

	admin, err := authService.FindOrRegister(ctx, owner)
	if err != nil {
		return 0, 0, err
	}

	created, skipped := 0, 0
	now := time.Now()
	for _, sc := range seedChallenges {
		existing, err := challengeService.List(ctx, sc.Title)
		if err != nil {
			return created, skipped, err
		}
		if ownsTitle(existing, admin.ID, sc.Title) {
			skipped++
			log.WithField("title", sc.Title).Info("challenge already exists")
			continue
		}

		start, end := sc.window(now)
		target := sc.TargetPerDay
		challenge, err := challengeService.Create(ctx, admin.ID, services.ChallengeInput{
			Title:        sc.Title,
			Description:  sc.Description,
			Unit:         sc.Unit,
			TargetPerDay: &target,
			StartDate:    start,
			EndDate:      end,
		})
		if err != nil {
			return created, skipped, err
		}
		created++
		log.WithField("title", challenge.Title).WithField("id", challenge.ID).Info("created challenge")
	}
	return created, skipped, nil
}

func ownsTitle(challenges []models.ChallengeDetail, ownerID uuid.UUID, title string) bool {
	for _, challenge := range challenges {
		if challenge.Title == title && challenge.CreatorID == ownerID {
			return true
		}
	}
	return false
}

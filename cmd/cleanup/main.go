package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/shettytas/fitquest-web/internal/config"
	"github.com/shettytas/fitquest-web/internal/logging"
	"github.com/shettytas/fitquest-web/internal/services"
	"github.com/shettytas/fitquest-web/internal/store"
	"github.com/sirupsen/logrus"
)

type nameList []string

func (n *nameList) String() string { return strings.Join(*n, ",") }

func (n *nameList) Set(value string) error {
	*n = append(*n, strings.TrimSpace(value))
	return nil
}

func main() {
	title := flag.String("title", "", "delete challenges whose title contains this text (case-insensitive)")
	var creators nameList
	flag.Var(&creators, "creator-name", "delete challenges created by users with this exact name (repeatable)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New("production", "info").WithError(err).Fatal("failed to load config")
	}
	log := logging.New(cfg.AppEnv, cfg.LogLevel)

	if *title == "" && len(creators) == 0 {
		*title = "msth"
		if flag.NArg() > 0 {
			*title = flag.Arg(0)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, cfg, *title, creators, log)
	stop()
	if err != nil {
		log.WithError(err).Fatal("cleanup failed")
	}
}

func run(ctx context.Context, cfg *config.Config, title string, creators nameList, log logrus.FieldLogger) (err error) {
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if closeErr := st.Close(context.Background()); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close store: %w", closeErr))
		}
	}()
	return purge(ctx, services.NewChallengeService(st.Challenges, st.Users), title, creators, log)
}

func purge(ctx context.Context, challengeService *services.ChallengeService, title string, creators nameList, log logrus.FieldLogger) error {
	if title != "" {
		deleted, err := challengeService.PurgeByTitle(ctx, title)
		if err != nil {
			return fmt.Errorf("cleanup by title: %w", err)
		}
		log.WithFields(logrus.Fields{"title": title, "deleted": deleted}).Info("removed challenges by title")
	}

	if len(creators) > 0 {
		deleted, err := challengeService.PurgeByCreatorNames(ctx, creators)
		if err != nil {
			return fmt.Errorf("cleanup by creator: %w", err)
		}
		log.WithFields(logrus.Fields{"creators": creators.String(), "deleted": deleted}).Info("removed challenges by creator")
	}
	return nil
}

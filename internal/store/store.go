// Package store opens the configured backend and exposes its repositories.
package store

import (
	"context"
	"fmt"

	"github.com/shettytas/fitquest-web/internal/config"
	"github.com/shettytas/fitquest-web/internal/database"
	"github.com/shettytas/fitquest-web/internal/repository"
	"github.com/shettytas/fitquest-web/internal/repository/memrepo"
	"github.com/shettytas/fitquest-web/internal/repository/mongorepo"
	"github.com/sirupsen/logrus"
)

type Store struct {
	Users      repository.UserStore
	Challenges repository.ChallengeStore
	Progress   repository.ProgressStore

	close func(ctx context.Context) error
}

func Open(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		log.Info("connected to postgres")
		return &Store{
			Users:      repository.NewUserRepository(pool),
			Challenges: repository.NewChallengeRepository(pool),
			Progress:   repository.NewProgressRepository(pool),
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.StoreDriverMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.WithField("database", cfg.MongoDatabase).Info("connected to mongodb")
		return &Store{
			Users:      mongorepo.NewUserRepository(db),
			Challenges: mongorepo.NewChallengeRepository(db),
			Progress:   mongorepo.NewProgressRepository(db),
			close:      client.Disconnect,
		}, nil

	case config.StoreDriverMemory:
		log.Warn("using in-memory store; data is lost on exit")
		return NewMemory(), nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func NewMemory() *Store {
	mem := memrepo.New()
	return &Store{
		Users:      mem.Users(),
		Challenges: mem.Challenges(),
		Progress:   mem.Progress(),
	}
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

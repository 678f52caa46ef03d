package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/shettytas/fitquest-web/internal/logging"
)

func main() {
	_ = godotenv.Load()
	log := logging.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	dir := flag.String("dir", "", "migrations directory (searched upward from the working directory when empty)")
	steps := flag.Int("steps", 0, "apply or roll back only this many migrations")
	flag.Parse()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL environment variable is required")
	}

	migrationsPath := *dir
	if migrationsPath == "" {
		migrationsPath = findMigrationsDir()
	}
	if migrationsPath == "" {
		log.Fatal("migrations directory not found")
	}
	absMigrationsPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.WithError(err).Fatal("resolve migrations path")
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absMigrationsPath), dbURL)
	if err != nil {
		log.WithError(err).Fatal("open migrator")
	}
	defer m.Close()

	cmd := "up"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	switch cmd {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			log.WithError(verr).Fatal("read version")
		}
		log.WithField("version", version).WithField("dirty", dirty).Info("current migration version")
		return
	default:
		log.WithField("command", cmd).Fatal("unknown command; use up, down or version")
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.WithError(err).WithField("command", cmd).Fatal("migration failed")
	}
	log.WithField("command", cmd).Info("migration successful")
}

func findMigrationsDir() string {
	candidates := []string{}
	if cwd, err := os.Getwd(); err == nil {
		current := cwd
		for i := 0; i < 6; i++ {
			candidates = append(candidates, filepath.Join(current, "migrations"))
			parent := filepath.Dir(current)
			if parent == current {
				break
			}
			current = parent
		}
	}
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		candidates = append(candidates,
			filepath.Join(exeDir, "migrations"),
			filepath.Join(exeDir, "..", "migrations"),
			filepath.Join(exeDir, "..", "..", "migrations"),
		)
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && info.IsDir() {
			return candidate
		}
	}
	return ""
}

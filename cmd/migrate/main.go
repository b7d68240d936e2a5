package main

import (
	"flag"
	"os"

	"github.com/go-faster/errors"
	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/infra/db"
	"storefront/internal/telemetry"
)

func main() {
	lg, err := telemetry.NewLogger("development")
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		lg.Fatal("usage: migrate <up|down|version>")
	}

	cfg, err := config.Load()
	if err != nil {
		lg.Fatal("Load config", zap.Error(err))
	}

	m, err := db.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		lg.Fatal("Create migrator", zap.Error(err))
	}
	defer func() { _, _ = m.Close() }()

	switch args[0] {
	case "up":
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			lg.Info("No pending migrations")
			return
		}
		if err != nil {
			lg.Fatal("Migration up failed", zap.Error(err))
		}
		lg.Info("Migrations applied")

	case "down":
		err = m.Steps(-1)
		if errors.Is(err, migrate.ErrNoChange) {
			lg.Info("No migrations to roll back")
			return
		}
		if err != nil {
			lg.Fatal("Migration down failed", zap.Error(err))
		}
		lg.Info("Migration rolled back")

	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			lg.Info("No migrations applied yet")
			return
		}
		if err != nil {
			lg.Fatal("Get version", zap.Error(err))
		}
		lg.Info("Current version", zap.Uint("version", v), zap.Bool("dirty", dirty))

	default:
		lg.Fatal("Unknown command", zap.String("command", args[0]))
	}
}

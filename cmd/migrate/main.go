package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"study-buddy/internal/config"
	"study-buddy/internal/database"
	"study-buddy/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"
)

func main() {
	down := flag.Bool("down", false, "roll back migrations instead of applying them")
	steps := flag.Int("steps", 0, "number of migrations to apply or roll back (0 = all)")
	flag.Parse()

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(config.LoggerConfig{Level: "info"}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	// DB connection
	db, err := database.Open(context.Background(), dbCfg)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	m, err := database.NewMigrator(db, dbCfg)
	if err != nil {
		l.Fatal("Failed to create migrator", zap.Error(err))
	}

	switch {
	case *steps != 0 && *down:
		err = m.Steps(-*steps)
	case *steps != 0:
		err = m.Steps(*steps)
	case *down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		l.Fatal("Migration failed", zap.Error(err), zap.Bool("down", *down), zap.Int("steps", *steps))
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		l.Fatal("Failed to read migration version", zap.Error(err))
	}
	l.Info("Migrations finished", zap.String("driver", dbCfg.Driver), zap.Uint("version", version), zap.Bool("dirty", dirty))
}

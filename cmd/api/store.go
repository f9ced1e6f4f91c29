package main

import (
	"context"
	"database/sql"
	"errors"

	mem "animal-rfid-relay/internal/adapters/storage/memory"
	pg "animal-rfid-relay/internal/adapters/storage/postgres"
	"animal-rfid-relay/internal/adapters/storage/sqlite"
	"animal-rfid-relay/internal/domain/animals"
	"animal-rfid-relay/internal/platform/config"
	"animal-rfid-relay/internal/platform/errs"
	"animal-rfid-relay/internal/platform/logger"
)

var errUnsupportedDriver = errors.New("unsupported db driver")

type store struct {
	repo animals.Repository
	db   *sql.DB // nil en memory
}

func (s store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// openStore abre el backend elegido por DB_DRIVER. migrate=true crea el schema.
func openStore(ctx context.Context, cfg config.Config, log logger.Logger, migrate bool) (store, error) {
	fields := map[string]any{"driver": cfg.Database.Driver, "max_conns": cfg.Database.MaxConns}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := pg.Open(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return store{}, err
		}
		if migrate {
			if err := pg.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return store{}, err
			}
		}
		log.Info("storage ready", fields)
		return store{repo: pg.NewAnimalsRepo(db), db: db}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return store{}, err
		}
		// sqlite local: el schema se asegura siempre
		if err := sqlite.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return store{}, err
		}
		fields["path"] = cfg.Database.URL
		log.Info("storage ready", fields)
		return store{repo: sqlite.NewAnimalsRepo(db), db: db}, nil

	case config.DriverMemory:
		log.Warn("using in-memory storage; data is not persisted", fields)
		return store{repo: mem.NewAnimalsRepo()}, nil
	}

	return store{}, errs.Wrapf(errUnsupportedDriver, "%q", cfg.Database.Driver)
}

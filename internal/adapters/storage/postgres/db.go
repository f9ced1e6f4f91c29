package postgres

import (
	"context"
	"database/sql"
	"time"

	"animal-rfid-relay/internal/platform/errs"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const DefaultMaxConns = 10

// Open abre un pool a Postgres usando pgx (database/sql).
// maxConns acota cuántas queries corren en paralelo; cada request toma y libera su conexión.
func Open(ctx context.Context, dsn string, maxConns int) (*sql.DB, error) {
	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errs.Wrap(err, "open postgres")
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(err, "ping postgres")
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS animals (
	id               SERIAL PRIMARY KEY,
	rfid_code        TEXT    NOT NULL UNIQUE,
	nama             TEXT    NOT NULL,
	jenis            TEXT    NOT NULL,
	usia             INTEGER NOT NULL CHECK (usia >= 0),
	status_kesehatan TEXT    NOT NULL CHECK (char_length(status_kesehatan) >= 3)
);
CREATE INDEX IF NOT EXISTS idx_animals_nama ON animals (nama);
CREATE INDEX IF NOT EXISTS idx_animals_jenis ON animals (jenis);
`

// Migrate crea la tabla animals si no existe.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return errs.Wrap(err, "migrate postgres")
}

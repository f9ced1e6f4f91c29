package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"animal-rfid-relay/internal/platform/errs"

	_ "modernc.org/sqlite"
)

// Open abre (o crea) la base SQLite en path y asegura el schema.
// ":memory:" usa una sola conexión para que todas las queries vean la misma base.
func Open(ctx context.Context, path string, maxConns int) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path required")
	}

	var dsn string
	if path == ":memory:" {
		dsn = ":memory:"
		maxConns = 1
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errs.Wrap(err, "create sqlite dir")
		}
		// busy_timeout espera locks; WAL permite lectores concurrentes.
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", filepath.Clean(path))
	}
	if maxConns <= 0 {
		maxConns = 4
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errs.Wrap(err, "open sqlite")
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	if path != ":memory:" {
		// en memoria cerrar la conexión ociosa borraría la base
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS animals (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	rfid_code        TEXT    NOT NULL UNIQUE,
	nama             TEXT    NOT NULL,
	jenis            TEXT    NOT NULL,
	usia             INTEGER NOT NULL CHECK (usia >= 0),
	status_kesehatan TEXT    NOT NULL CHECK (length(status_kesehatan) >= 3)
);
CREATE INDEX IF NOT EXISTS idx_animals_nama ON animals (nama);
CREATE INDEX IF NOT EXISTS idx_animals_jenis ON animals (jenis);
`

func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return errs.Wrap(err, "migrate sqlite")
}

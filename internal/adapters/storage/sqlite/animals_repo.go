package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"animal-rfid-relay/internal/domain/animals"
	"animal-rfid-relay/internal/platform/errs"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

func (r *AnimalsRepo) GetByRFID(ctx context.Context, rfid string) (animals.Animal, error) {
	rfid = strings.TrimSpace(rfid)
	if rfid == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	var a animals.Animal
	err := r.db.QueryRowContext(ctx, `
		SELECT id, rfid_code, nama, jenis, usia, status_kesehatan
		FROM animals
		WHERE rfid_code = ?
		LIMIT 1
	`, rfid).Scan(&a.ID, &a.RFIDCode, &a.Name, &a.Species, &a.Age, &a.HealthStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, errs.Wrap(err, "select animal by rfid")
	}
	return a, nil
}

// List usa una sola conexión (Conn) para COUNT y página; se libera con defer.
func (r *AnimalsRepo) List(ctx context.Context, q animals.ListQuery) ([]animals.Animal, int, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, 0, errs.Wrap(err, "acquire conn")
	}
	defer conn.Close()

	where, args := filter(q.Search)

	var total int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM animals`+where, args...).Scan(&total); err != nil {
		return nil, 0, errs.Wrap(err, "count animals")
	}

	order := string(animals.ParseOrder(string(q.Order)))
	query := fmt.Sprintf(
		`SELECT id, rfid_code, nama, jenis, usia, status_kesehatan FROM animals%s ORDER BY %s %s, id %s LIMIT ? OFFSET ?`,
		where, orderColumn(q.SortBy), order, order,
	)
	args = append(args, q.Limit, q.Offset())

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errs.Wrap(err, "select animals page")
	}
	defer rows.Close()

	out := make([]animals.Animal, 0, q.Limit)
	for rows.Next() {
		var a animals.Animal
		if err := rows.Scan(&a.ID, &a.RFIDCode, &a.Name, &a.Species, &a.Age, &a.HealthStatus); err != nil {
			return nil, 0, errs.Wrap(err, "scan animal")
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// Upsert inserta o actualiza por rfid_code (seed / dev local).
func (r *AnimalsRepo) Upsert(ctx context.Context, a animals.Animal) error {
	var id any
	if a.ID > 0 {
		id = a.ID
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (id, rfid_code, nama, jenis, usia, status_kesehatan)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT (rfid_code) DO UPDATE SET
			nama = excluded.nama,
			jenis = excluded.jenis,
			usia = excluded.usia,
			status_kesehatan = excluded.status_kesehatan
	`, id, a.RFIDCode, a.Name, a.Species, a.Age, a.HealthStatus)
	return errs.Wrapf(err, "upsert animal %q", a.RFIDCode)
}

func (r *AnimalsRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// filter arma el WHERE compartido por COUNT y SELECT; ambos lados pasan por casefold.
func filter(search string) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", []any{}
	}
	pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
	return fmt.Sprintf(` WHERE (%[1]s(nama) LIKE ? ESCAPE '\' OR %[1]s(jenis) LIKE ? ESCAPE '\')`, foldFunc),
		[]any{pattern, pattern}
}

// escapeLike: igual que postgres.EscapeLike.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func orderColumn(c animals.SortColumn) string {
	switch c {
	case animals.SortByRFIDCode:
		return "rfid_code"
	case animals.SortByName:
		return "nama"
	case animals.SortBySpecies:
		return "jenis"
	case animals.SortByAge:
		return "usia"
	case animals.SortByHealthStatus:
		return "status_kesehatan"
	default:
		return "id"
	}
}

package postgres

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

const animalColumns = `id, rfid_code, nama, jenis, usia, status_kesehatan`

func (r *AnimalsRepo) GetByRFID(ctx context.Context, rfid string) (animals.Animal, error) {
	rfid = strings.TrimSpace(rfid)
	if rfid == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE rfid_code = $1
		LIMIT 1
	`, rfid)

	a, err := scanAnimal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, errs.Wrap(err, "select animal by rfid")
	}
	return a, nil
}

// List ejecuta COUNT y la página dentro de una transacción read-only:
// mismo filtro, misma conexión y mismo snapshot. La conexión vuelve al pool en todos los caminos.
func (r *AnimalsRepo) List(ctx context.Context, q animals.ListQuery) ([]animals.Animal, int, error) {
	stmt := buildList(q)

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, errs.Wrap(err, "begin list tx")
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.QueryRowContext(ctx, stmt.count, stmt.countArgs...).Scan(&total); err != nil {
		return nil, 0, errs.Wrap(err, "count animals")
	}

	rows, err := tx.QueryContext(ctx, stmt.page, stmt.pageArgs...)
	if err != nil {
		return nil, 0, errs.Wrap(err, "select animals page")
	}
	defer rows.Close()

	out := make([]animals.Animal, 0, q.Limit)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, 0, errs.Wrap(err, "scan animal")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errs.Wrap(err, "iterate animals")
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, errs.Wrap(err, "commit list tx")
	}
	return out, total, nil
}

// listStmt son las dos queries de List; comparten el mismo WHERE y sus parámetros.
type listStmt struct {
	count     string
	countArgs []any
	page      string
	pageArgs  []any
}

func buildList(q animals.ListQuery) listStmt {
	where, args := filter(q.Search)

	order := string(animals.ParseOrder(string(q.Order)))
	n := len(args)

	pageArgs := make([]any, 0, n+2)
	pageArgs = append(pageArgs, args...)
	pageArgs = append(pageArgs, q.Limit, q.Offset())

	return listStmt{
		count:     `SELECT COUNT(*) FROM animals` + where,
		countArgs: args,
		page: fmt.Sprintf(
			`SELECT %s FROM animals%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
			animalColumns, where, orderColumn(q.SortBy), order, order, n+1, n+2,
		),
		pageArgs: pageArgs,
	}
}

func (r *AnimalsRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// filter arma el WHERE compartido por COUNT y SELECT. search siempre va como parámetro.
func filter(search string) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil
	}
	return ` WHERE (nama ILIKE $1 ESCAPE '\' OR jenis ILIKE $1 ESCAPE '\')`,
		[]any{"%" + EscapeLike(search) + "%"}
}

// orderColumn traduce la allow-list a un literal SQL; nada del request llega al texto.
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

// EscapeLike escapa comodines de LIKE para que search sea substring literal.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(s rowScanner) (animals.Animal, error) {
	var a animals.Animal
	err := s.Scan(&a.ID, &a.RFIDCode, &a.Name, &a.Species, &a.Age, &a.HealthStatus)
	return a, err
}

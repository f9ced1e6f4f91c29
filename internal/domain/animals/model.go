package animals

import (
	"fmt"
	"math"
	"strings"
)

// Animal es un registro de la tabla animals. Se crea/modifica fuera de este servicio.
type Animal struct {
	ID           int64
	RFIDCode     string
	Name         string // nama
	Species      string // jenis
	Age          int    // usia, en años
	HealthStatus string // status_kesehatan
}

// SortColumn es una columna permitida para ordenar GET /hewan.
// Solo valores de esta lista llegan al texto SQL.
type SortColumn string

const (
	SortByID           SortColumn = "id"
	SortByRFIDCode     SortColumn = "rfid_code"
	SortByName         SortColumn = "nama"
	SortBySpecies      SortColumn = "jenis"
	SortByAge          SortColumn = "usia"
	SortByHealthStatus SortColumn = "status_kesehatan"
)

var sortColumns = []SortColumn{
	SortByID,
	SortByRFIDCode,
	SortByName,
	SortBySpecies,
	SortByAge,
	SortByHealthStatus,
}

// SortColumns devuelve la allow-list (copia).
func SortColumns() []SortColumn {
	out := make([]SortColumn, len(sortColumns))
	copy(out, sortColumns)
	return out
}

// ParseSortColumn valida s contra la allow-list. Vacío => id.
func ParseSortColumn(s string) (SortColumn, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortByID, nil
	}
	for _, c := range sortColumns {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidSort, s)
}

type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

// ParseOrder normaliza: solo "desc" (sin importar mayúsculas) es DESC; el resto es ASC.
func ParseOrder(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), string(OrderDesc)) {
		return OrderDesc
	}
	return OrderAsc
}

// ListQuery ya normalizada; los repos la usan tal cual.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	SortBy SortColumn
	Order  Order
}

// Offset de la página (1-based). Satura en math.MaxInt si la página no es direccionable.
func (q ListQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

type Page struct {
	Total      int
	Page       int
	Limit      int
	TotalPages int
	Items      []Animal
}

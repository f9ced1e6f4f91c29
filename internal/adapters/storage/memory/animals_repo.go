package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"animal-rfid-relay/internal/domain/animals"
)

type animalsRepo struct {
	mu     sync.RWMutex
	byRFID map[string]animals.Animal
	byID   map[int64]string // id -> rfid_code
	nextID int64
}

// NewAnimalsRepo crea un repo in-memory (dev/tests) con datos iniciales opcionales.
func NewAnimalsRepo(seed ...animals.Animal) animals.Repository {
	r := &animalsRepo{
		byRFID: make(map[string]animals.Animal, len(seed)),
		byID:   make(map[int64]string, len(seed)),
	}
	for _, a := range seed {
		_ = r.Put(a)
	}
	return r
}

var errDuplicateID = errors.New("id already used by another rfid_code")

// Put inserta o reemplaza por rfid_code. No es parte del Repository (no hay endpoint de escritura).
// ID 0 conserva el id del registro reemplazado o toma el siguiente libre, como un SERIAL.
func (r *animalsRepo) Put(a animals.Animal) error {
	if strings.TrimSpace(a.RFIDCode) == "" {
		return errors.New("rfid_code required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, replacing := r.byRFID[a.RFIDCode]
	switch {
	case a.ID == 0 && replacing:
		a.ID = prev.ID
	case a.ID == 0:
		for {
			r.nextID++
			if _, used := r.byID[r.nextID]; !used {
				break
			}
		}
		a.ID = r.nextID
	default:
		if owner, used := r.byID[a.ID]; used && owner != a.RFIDCode {
			return errDuplicateID
		}
	}

	if replacing && prev.ID != a.ID {
		delete(r.byID, prev.ID)
	}
	r.byRFID[a.RFIDCode] = a
	r.byID[a.ID] = a.RFIDCode
	return nil
}

func (r *animalsRepo) GetByRFID(ctx context.Context, rfid string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byRFID[rfid]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *animalsRepo) List(ctx context.Context, q animals.ListQuery) ([]animals.Animal, int, error) {
	r.mu.RLock()
	matched := make([]animals.Animal, 0, len(r.byRFID))
	for _, a := range r.byRFID {
		if matches(a, q.Search) {
			matched = append(matched, a)
		}
	}
	r.mu.RUnlock()

	less := lessBy(q.SortBy)
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if q.Order == animals.OrderDesc {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.ID < b.ID
	})

	total := len(matched)
	start := q.Offset()
	if start >= total {
		return []animals.Animal{}, total, nil
	}
	end := start + q.Limit
	if q.Limit <= 0 || end > total {
		end = total
	}

	return matched[start:end], total, nil
}

// matches replica `nama ILIKE %s% OR jenis ILIKE %s%`.
func matches(a animals.Animal, search string) bool {
	if search == "" {
		return true
	}
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(a.Name), s) ||
		strings.Contains(strings.ToLower(a.Species), s)
}

func lessBy(col animals.SortColumn) func(a, b animals.Animal) bool {
	switch col {
	case animals.SortByRFIDCode:
		return func(a, b animals.Animal) bool { return a.RFIDCode < b.RFIDCode }
	case animals.SortByName:
		return func(a, b animals.Animal) bool { return a.Name < b.Name }
	case animals.SortBySpecies:
		return func(a, b animals.Animal) bool { return a.Species < b.Species }
	case animals.SortByAge:
		return func(a, b animals.Animal) bool { return a.Age < b.Age }
	case animals.SortByHealthStatus:
		return func(a, b animals.Animal) bool { return a.HealthStatus < b.HealthStatus }
	default:
		return func(a, b animals.Animal) bool { return a.ID < b.ID }
	}
}

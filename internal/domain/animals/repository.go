package animals

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidSort  = errors.New("invalid sortBy")
)

// Repository es el gateway de lectura sobre la tabla animals.
// GetByRFID devuelve ErrNotFound si no hay fila.
// List devuelve la página pedida y el total de filas que cumplen el mismo filtro.
type Repository interface {
	GetByRFID(ctx context.Context, rfid string) (Animal, error)
	List(ctx context.Context, q ListQuery) ([]Animal, int, error)
}

// Pinger lo implementan los repos con conexión real (health check).
type Pinger interface {
	Ping(ctx context.Context) error
}

package notify

import (
	"context"
	"errors"
	"time"
)

// Message es lo que se entrega a cada canal. Text es el cuerpo legible;
// el resto lo usan canales estructurados (webhooks).
type Message struct {
	Text      string
	RFIDCode  string
	Found     bool
	ScannedAt time.Time
}

// Notifier entrega un mensaje a todos los destinatarios configurados de un canal.
// Un error no vacío puede agrupar varios fallos (errors.Join), uno por destinatario.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Multi envía a todos los canales aunque alguno falle.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

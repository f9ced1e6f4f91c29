package scans

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"animal-rfid-relay/internal/domain/animals"
	"animal-rfid-relay/internal/platform/errs"
	"animal-rfid-relay/internal/platform/logger"
	"animal-rfid-relay/internal/ports/livefeed"
	"animal-rfid-relay/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrUIDRequired = errors.New("UID required")
)

const DefaultNotifyTimeout = 10 * time.Second

// Finder es la parte del gateway que necesita un scan (lookup por tag).
type Finder interface {
	GetByRFID(ctx context.Context, rfid string) (animals.Animal, error)
}

type Options struct {
	Notifier notify.Notifier      // puede ser nil
	Feed     livefeed.Broadcaster // puede ser nil
	Logger   logger.Logger

	NotifyTimeout time.Duration
	Location      *time.Location // para waktu_scan; nil => local
}

type Service struct {
	finder   Finder
	notifier notify.Notifier
	feed     livefeed.Broadcaster
	log      logger.Logger
	timeout  time.Duration
	loc      *time.Location
	now      func() time.Time

	wg sync.WaitGroup
}

func NewService(finder Finder, opts Options) *Service {
	timeout := opts.NotifyTimeout
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	return &Service{
		finder:   finder,
		notifier: opts.Notifier,
		feed:     opts.Feed,
		log:      log.With(map[string]any{"component": "scans"}),
		timeout:  timeout,
		loc:      loc,
		now:      time.Now,
	}
}

// Scan busca el animal por tag y despacha (sin esperar) las notificaciones:
//   - hit: resumen a todos los canales + rfid-scanned al live feed
//   - miss: aviso "not found" a los canales, sin broadcast
//
// Errores de storage no notifican. Las entregas nunca cambian el resultado.
func (s *Service) Scan(ctx context.Context, uid string) (ScanEvent, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return ScanEvent{}, ErrUIDRequired
	}

	a, err := s.finder.GetByRFID(ctx, uid)
	ev := ScanEvent{
		ID:        uuid.NewString(),
		RFIDCode:  uid,
		ScannedAt: s.now(),
	}

	switch {
	case errors.Is(err, animals.ErrNotFound):
		s.dispatch(ctx, ev)
		return ev, animals.ErrNotFound
	case err != nil:
		return ScanEvent{}, errs.Wrapf(err, "lookup animal %q", uid)
	}

	ev.Found = true
	ev.Animal = a
	s.dispatch(ctx, ev)
	return ev, nil
}

// Describe arma el texto de un tag sin disparar fan-out (comando /cek del bot).
func (s *Service) Describe(ctx context.Context, uid string) (string, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return "", ErrUIDRequired
	}

	a, err := s.finder.GetByRFID(ctx, uid)
	switch {
	case errors.Is(err, animals.ErrNotFound):
		return NotFoundText(uid), nil
	case err != nil:
		return "", errs.Wrapf(err, "lookup animal %q", uid)
	}
	return FoundText(a), nil
}

// Wait bloquea hasta que terminen los dispatches en curso (shutdown / tests).
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) dispatch(parent context.Context, ev ScanEvent) {
	if s.notifier == nil && (s.feed == nil || !ev.Found) {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("dispatch panic", map[string]any{"scan_id": ev.ID, "panic": rec})
			}
		}()

		// El request puede terminar antes que las entregas.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.timeout)
		defer cancel()

		s.deliver(ctx, ev)
	}()
}

func (s *Service) deliver(ctx context.Context, ev ScanEvent) {
	fields := map[string]any{"scan_id": ev.ID, "rfid_code": ev.RFIDCode, "found": ev.Found}

	if s.notifier != nil {
		err := s.notifier.Send(ctx, notify.Message{
			Text:      ev.Text(),
			RFIDCode:  ev.RFIDCode,
			Found:     ev.Found,
			ScannedAt: ev.ScannedAt,
		})
		if err != nil {
			s.log.Warn("notification failed", withErr(fields, err))
		}
	}

	if ev.Found && s.feed != nil {
		if err := s.feed.Broadcast(EventRFIDScanned, ev.Feed(s.loc)); err != nil {
			s.log.Warn("live feed broadcast failed", withErr(fields, err))
		}
	}

	s.log.Debug("scan dispatched", fields)
}

func withErr(fields map[string]any, err error) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["err"] = errs.Loggable(err)
	return out
}

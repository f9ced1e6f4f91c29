package router

import (
	"context"
	"net/http"
	"time"

	_ "animal-rfid-relay/docs"
	mem "animal-rfid-relay/internal/adapters/storage/memory"
	"animal-rfid-relay/internal/domain/animals"
	"animal-rfid-relay/internal/domain/scans"
	"animal-rfid-relay/internal/middleware"
	"animal-rfid-relay/internal/platform/errs"
	"animal-rfid-relay/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const healthTimeout = 2 * time.Second

type Options struct {
	Logger logger.Logger // puede ser nil

	// Opcional: si no viene, in-memory vacío (modo dev).
	Animals animals.Repository

	// Opcional: si no viene, se arma uno sin notificaciones sobre Animals.
	Scans *scans.Service

	// LiveFeed atiende GET /ws. nil => no se monta.
	LiveFeed http.Handler

	// TelegramWebhook atiende POST /telegram/webhook (solo en modo webhook).
	TelegramWebhook http.Handler
	TelegramPath    string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log.With(map[string]any{"component": "http"})))
	r.Use(middleware.Recover(log))
	r.Use(cors.AllowAll().Handler)

	repo := opts.Animals
	if repo == nil {
		repo = mem.NewAnimalsRepo()
	}
	animalsSvc := animals.NewService(repo)

	scansSvc := opts.Scans
	if scansSvc == nil {
		scansSvc = scans.NewService(animalsSvc, scans.Options{Logger: log})
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := animalsSvc.Ping(ctx); err != nil {
			log.Warn("health check failed", map[string]any{"err": errs.Loggable(err)})
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if opts.LiveFeed != nil {
		r.Method(http.MethodGet, "/ws", opts.LiveFeed)
	}
	if opts.TelegramWebhook != nil && opts.TelegramPath != "" {
		r.Method(http.MethodPost, opts.TelegramPath, opts.TelegramWebhook)
	}

	// Rutas por módulo
	animals.RegisterRoutes(r, animalsSvc, log)
	scans.RegisterRoutes(r, scansSvc, log)

	return r
}

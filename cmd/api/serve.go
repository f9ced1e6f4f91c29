package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	wsfeed "animal-rfid-relay/internal/adapters/livefeed/websocket"
	"animal-rfid-relay/internal/adapters/notify/discord"
	"animal-rfid-relay/internal/adapters/notify/telegram"
	"animal-rfid-relay/internal/adapters/notify/webhook"
	"animal-rfid-relay/internal/domain/animals"
	"animal-rfid-relay/internal/domain/scans"
	"animal-rfid-relay/internal/platform/config"
	"animal-rfid-relay/internal/platform/errs"
	"animal-rfid-relay/internal/platform/httpclient"
	"animal-rfid-relay/internal/platform/logger"
	"animal-rfid-relay/internal/ports/notify"
	"animal-rfid-relay/internal/router"
)

const shutdownTimeout = 15 * time.Second

func serve(ctx context.Context, cfg config.Config, log logger.Logger) error {
	st, err := openStore(ctx, cfg, log, cfg.Database.Driver == config.DriverPostgres)
	if err != nil {
		return err
	}
	defer st.Close()

	notifiers, bot := buildNotifiers(cfg, log)

	hub := wsfeed.NewHub(log)

	animalsSvc := animals.NewService(st.repo)
	scansSvc := scans.NewService(animalsSvc, scans.Options{
		Notifier:      notifiers,
		Feed:          hub,
		Logger:        log,
		NotifyTimeout: cfg.NotifyTimeout,
		Location:      cfg.ScanLocation,
	})

	opts := router.Options{
		Logger:   log,
		Animals:  st.repo,
		Scans:    scansSvc,
		LiveFeed: hub,
	}
	if bot != nil {
		if err := bot.Start(ctx, scansSvc); err != nil {
			log.Error("telegram updates disabled", map[string]any{"err": errs.Loggable(err)})
		} else if cfg.Telegram.WebhookURL != "" {
			opts.TelegramWebhook = bot.WebhookHandler()
			opts.TelegramPath = telegram.WebhookPath
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.NewRouter(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "driver": cfg.Database.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down", nil)
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", map[string]any{"err": errs.Loggable(err)})
	}
	if bot != nil {
		bot.Stop()
	}
	scansSvc.Wait()
	hub.Close()

	if serveErr != nil {
		return errs.Wrap(serveErr, "listen")
	}
	return nil
}

// buildNotifiers arma el fan-out con los canales que tengan credenciales.
func buildNotifiers(cfg config.Config, log logger.Logger) (notify.Multi, *telegram.Bot) {
	var (
		out notify.Multi
		bot *telegram.Bot
	)

	if cfg.Telegram.Token != "" {
		b, err := telegram.New(telegram.Config{
			Token:      cfg.Telegram.Token,
			ChatIDs:    cfg.Telegram.ChatIDs,
			WebhookURL: cfg.Telegram.WebhookURL,
		}, log)
		if err != nil {
			log.Error("telegram disabled", map[string]any{"err": errs.Loggable(err)})
		} else {
			bot = b
			out = append(out, b)
			if len(cfg.Telegram.ChatIDs) == 0 {
				log.Warn("telegram has no chat ids; use /start to get one", nil)
			}
		}
	}

	if cfg.Discord.Token != "" {
		d, err := discord.New(cfg.Discord.Token, cfg.Discord.ChannelIDs)
		if err != nil {
			log.Error("discord disabled", map[string]any{"err": errs.Loggable(err)})
		} else {
			out = append(out, d)
		}
	}

	if len(cfg.Webhooks.URLs) > 0 {
		out = append(out, webhook.New(httpclient.New(cfg.NotifyTimeout), cfg.Webhooks.URLs))
	}

	log.Info("notification channels", map[string]any{
		"telegram": bot != nil,
		"discord":  cfg.Discord.Token != "",
		"webhooks": len(cfg.Webhooks.URLs),
	})
	return out, bot
}

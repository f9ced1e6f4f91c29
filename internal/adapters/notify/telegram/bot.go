package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"animal-rfid-relay/internal/platform/errs"
	"animal-rfid-relay/internal/platform/logger"
	"animal-rfid-relay/internal/ports/notify"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WebhookPath es donde se reciben updates en modo webhook.
const WebhookPath = "/telegram/webhook"

var ErrNotConfigured = errors.New("telegram bot not configured")

type Config struct {
	Token   string
	ChatIDs []int64

	// WebhookURL base pública (sin path). Vacío => long polling.
	WebhookURL string

	// APIEndpoint opcional (tests). Formato de tgbotapi.APIEndpoint.
	APIEndpoint string
}

// Describer resuelve el texto de un tag para /cek (sin fan-out).
type Describer interface {
	Describe(ctx context.Context, uid string) (string, error)
}

// Bot es a la vez canal de notificación (notify.Notifier) y receptor de comandos.
type Bot struct {
	api        *tgbotapi.BotAPI
	chatIDs    []int64
	webhookURL string
	log        logger.Logger

	mu        sync.RWMutex
	describer Describer
	polling   bool
}

var _ notify.Notifier = (*Bot)(nil)

func New(cfg Config, log logger.Logger) (*Bot, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, ErrNotConfigured
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if log == nil {
		log = logger.Nop()
	}

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, errs.Wrap(err, "telegram getMe")
	}

	return &Bot{
		api:        api,
		chatIDs:    append([]int64(nil), cfg.ChatIDs...),
		webhookURL: strings.TrimRight(strings.TrimSpace(cfg.WebhookURL), "/"),
		log:        log.With(map[string]any{"component": "telegram", "bot": api.Self.UserName}),
	}, nil
}

// Send manda msg.Text a cada chat configurado; un fallo no corta el resto.
func (b *Bot) Send(ctx context.Context, msg notify.Message) error {
	var failed []error
	for _, id := range b.chatIDs {
		if err := ctx.Err(); err != nil {
			failed = append(failed, errs.Wrapf(err, "telegram chat %d", id))
			continue
		}
		if _, err := b.api.Send(tgbotapi.NewMessage(id, msg.Text)); err != nil {
			failed = append(failed, errs.Wrapf(err, "telegram chat %d", id))
		}
	}
	return errors.Join(failed...)
}

// Start registra el webhook o arranca long polling hasta que ctx termine o se llame Stop.
// Debe llamarse antes de servir WebhookPath.
func (b *Bot) Start(ctx context.Context, d Describer) error {
	b.mu.Lock()
	b.describer = d
	b.mu.Unlock()

	if b.webhookURL != "" {
		wh, err := tgbotapi.NewWebhook(b.webhookURL + WebhookPath)
		if err != nil {
			return errs.Wrap(err, "build telegram webhook")
		}
		if _, err := b.api.Request(wh); err != nil {
			return errs.Wrap(err, "set telegram webhook")
		}
		b.log.Info("telegram webhook registered", map[string]any{"url": b.webhookURL + WebhookPath})
		return nil
	}

	// Telegram rechaza getUpdates mientras haya un webhook activo.
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return errs.Wrap(err, "delete telegram webhook")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.mu.Lock()
	b.polling = true
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case up, ok := <-updates:
				if !ok {
					return
				}
				b.handleUpdate(ctx, up)
			}
		}
	}()

	b.log.Info("telegram polling started", nil)
	return nil
}

func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.polling {
		b.api.StopReceivingUpdates()
		b.polling = false
	}
}

// WebhookHandler procesa un update entrante. Siempre responde 200 a updates válidos
// para que Telegram no los reintente.
func (b *Bot) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up, err := b.api.HandleUpdate(r)
		if err != nil {
			http.Error(w, "invalid update", http.StatusBadRequest)
			return
		}
		b.handleUpdate(r.Context(), *up)
		w.WriteHeader(http.StatusOK)
	}
}

func (b *Bot) handleUpdate(ctx context.Context, up tgbotapi.Update) {
	m := up.Message
	if m == nil || m.Chat == nil || !m.IsCommand() {
		return
	}

	var reply string
	switch m.Command() {
	case "start":
		reply = fmt.Sprintf("Halo! Chat ID kamu: %d\nTambahkan ke TELEGRAM_CHAT_IDS untuk menerima notifikasi scan.", m.Chat.ID)
	case "cek":
		reply = b.describe(ctx, m.CommandArguments())
	default:
		return
	}

	if _, err := b.api.Send(tgbotapi.NewMessage(m.Chat.ID, reply)); err != nil {
		b.log.Warn("telegram reply failed", map[string]any{"chat_id": m.Chat.ID, "err": errs.Loggable(err)})
	}
}

func (b *Bot) describe(ctx context.Context, uid string) string {
	b.mu.RLock()
	d := b.describer
	b.mu.RUnlock()

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return "Gunakan: /cek <rfid>"
	}
	if d == nil {
		return "Bot belum siap."
	}

	text, err := d.Describe(ctx, uid)
	if err != nil {
		b.log.Error("telegram /cek lookup failed", map[string]any{"rfid_code": uid, "err": errs.Loggable(err)})
		return "Terjadi kesalahan, coba lagi nanti."
	}
	return text
}

package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"animal-rfid-relay/internal/ports/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123:abc"

type sentMessage struct {
	ChatID string
	Text   string
}

// fakeAPI imita lo mínimo de la Bot API: getMe, sendMessage y setWebhook.
type fakeAPI struct {
	mu       sync.Mutex
	sent     []sentMessage
	webhooks []string
	failChat string
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := "/bot" + testToken + "/"
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		assert.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")

		switch strings.TrimPrefix(r.URL.Path, prefix) {
		case "getMe":
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"relay","username":"relay_bot"}}`)
		case "sendMessage":
			chat := r.PostForm.Get("chat_id")
			if chat == f.failChat {
				fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
				return
			}
			f.mu.Lock()
			f.sent = append(f.sent, sentMessage{ChatID: chat, Text: r.PostForm.Get("text")})
			f.mu.Unlock()
			fmt.Fprintf(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":%s,"type":"private"}}}`, chat)
		case "setWebhook":
			f.mu.Lock()
			f.webhooks = append(f.webhooks, r.PostForm.Get("url"))
			f.mu.Unlock()
			fmt.Fprint(w, `{"ok":true,"result":true}`)
		default:
			fmt.Fprint(w, `{"ok":true,"result":true}`)
		}
	})
}

func (f *fakeAPI) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func newTestBot(t *testing.T, api *fakeAPI, cfg Config) *Bot {
	t.Helper()

	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	cfg.Token = testToken
	cfg.APIEndpoint = srv.URL + "/bot%s/%s"

	b, err := New(cfg, nil)
	require.NoError(t, err)
	return b
}

type stubDescriber map[string]string

func (s stubDescriber) Describe(_ context.Context, uid string) (string, error) {
	if txt, ok := s[uid]; ok {
		return txt, nil
	}
	return "", errors.New("db down")
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New(Config{Token: "  "}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSend_OneMessagePerChat(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(t, api, Config{ChatIDs: []int64{111, 222}})

	err := b.Send(context.Background(), notify.Message{Text: "hola", RFIDCode: "A1", Found: true})
	require.NoError(t, err)

	assert.Equal(t, []sentMessage{{ChatID: "111", Text: "hola"}, {ChatID: "222", Text: "hola"}}, api.messages())
}

func TestSend_FailedChatDoesNotStopOthers(t *testing.T) {
	api := &fakeAPI{failChat: "111"}
	b := newTestBot(t, api, Config{ChatIDs: []int64{111, 222}})

	err := b.Send(context.Background(), notify.Message{Text: "hola"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram chat 111")

	assert.Equal(t, []sentMessage{{ChatID: "222", Text: "hola"}}, api.messages())
}

func TestSend_CanceledContextSkipsChats(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(t, api, Config{ChatIDs: []int64{111}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Send(ctx, notify.Message{Text: "hola"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, api.messages())
}

func TestStart_RegistersWebhook(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(t, api, Config{WebhookURL: "https://relay.example.com/"})

	require.NoError(t, b.Start(context.Background(), stubDescriber{}))

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, []string{"https://relay.example.com" + WebhookPath}, api.webhooks)
}

func postUpdate(t *testing.T, b *Bot, text string) *httptest.ResponseRecorder {
	t.Helper()

	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i > 0 {
		cmdLen = i
	}
	body := fmt.Sprintf(`{"update_id":1,"message":{"message_id":7,"date":0,"chat":{"id":555,"type":"private"},"text":%q,"entities":[{"type":"bot_command","offset":0,"length":%d}]}}`, text, cmdLen)

	req := httptest.NewRequest(http.MethodPost, WebhookPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	b.WebhookHandler().ServeHTTP(rr, req)
	return rr
}

func TestWebhook_StartRepliesWithChatID(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(t, api, Config{WebhookURL: "https://relay.example.com"})
	require.NoError(t, b.Start(context.Background(), stubDescriber{}))

	rr := postUpdate(t, b, "/start")
	assert.Equal(t, http.StatusOK, rr.Code)

	msgs := api.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "555", msgs[0].ChatID)
	assert.Contains(t, msgs[0].Text, "555")
}

func TestWebhook_CekUsesDescriber(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(t, api, Config{WebhookURL: "https://relay.example.com"})
	require.NoError(t, b.Start(context.Background(), stubDescriber{"A1": "Bella"}))

	postUpdate(t, b, "/cek A1")
	postUpdate(t, b, "/cek")
	postUpdate(t, b, "/cek B2")

	msgs := api.messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "Bella", msgs[0].Text)
	assert.Equal(t, "Gunakan: /cek <rfid>", msgs[1].Text)
	assert.Contains(t, msgs[2].Text, "Terjadi kesalahan")
}

func TestWebhook_IgnoresPlainText(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(t, api, Config{WebhookURL: "https://relay.example.com"})

	body := `{"update_id":2,"message":{"message_id":8,"date":0,"chat":{"id":555,"type":"private"},"text":"hola"}}`
	req := httptest.NewRequest(http.MethodPost, WebhookPath, strings.NewReader(body))
	rr := httptest.NewRecorder()
	b.WebhookHandler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, api.messages())
}

func TestWebhook_RejectsGarbage(t *testing.T) {
	b := newTestBot(t, &fakeAPI{}, Config{})

	req := httptest.NewRequest(http.MethodPost, WebhookPath, strings.NewReader("{"))
	rr := httptest.NewRecorder()
	b.WebhookHandler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

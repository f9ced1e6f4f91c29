package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Clients() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcast_ReachesEveryClient(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	waitClients(t, h, 2)

	payload := map[string]string{"rfid_code": "A1", "nama": "Bella"}
	require.NoError(t, h.Broadcast("rfid-scanned", payload))

	for _, c := range []*websocket.Conn{a, b} {
		_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
		var f struct {
			Event string            `json:"event"`
			Data  map[string]string `json:"data"`
		}
		require.NoError(t, c.ReadJSON(&f))
		assert.Equal(t, "rfid-scanned", f.Event)
		assert.Equal(t, payload, f.Data)
	}
}

func TestBroadcast_NoClientsIsFine(t *testing.T) {
	h := NewHub(nil)
	defer h.Close()

	assert.NoError(t, h.Broadcast("rfid-scanned", struct{}{}))
}

func TestClientDisconnectIsRemoved(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	c := dial(t, srv)
	waitClients(t, h, 1)

	require.NoError(t, c.Close())
	waitClients(t, h, 0)
}

func TestClose_DisconnectsAndRejects(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := dial(t, srv)
	waitClients(t, h, 1)

	h.Close()
	assert.Equal(t, 0, h.Clients())
	assert.ErrorIs(t, h.Broadcast("rfid-scanned", nil), ErrClosed)

	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := c.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

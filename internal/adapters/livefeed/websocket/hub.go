package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"animal-rfid-relay/internal/platform/errs"
	"animal-rfid-relay/internal/platform/logger"
	"animal-rfid-relay/internal/ports/livefeed"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer: frames pendientes por cliente antes de considerarlo lento.
	sendBuffer = 16
)

var ErrClosed = errors.New("live feed closed")

// Frame es lo que reciben los dashboards.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub mantiene los dashboards conectados. Los clientes solo escuchan.
type Hub struct {
	upgrader websocket.Upgrader
	log      logger.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	wg      sync.WaitGroup
}

var _ livefeed.Broadcaster = (*Hub)(nil)

func NewHub(log logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// dashboards de cualquier origen
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log:     log.With(map[string]any{"component": "livefeed"}),
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP hace el upgrade de GET /ws.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade ya respondió con el error HTTP.
		h.log.Debug("websocket upgrade failed", map[string]any{"err": err.Error()})
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.wg.Add(2)
	h.mu.Unlock()

	h.log.Debug("dashboard connected", map[string]any{"remote": r.RemoteAddr})

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast envía event+payload a todos los clientes. Un cliente con el buffer
// lleno se desconecta en vez de bloquear al resto.
func (h *Hub) Broadcast(event string, payload any) error {
	b, err := json.Marshal(Frame{Event: event, Data: payload})
	if err != nil {
		return errs.Wrapf(err, "encode %s frame", event)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}

	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.log.Warn("dropping slow dashboard", map[string]any{"remote": c.conn.RemoteAddr().String()})
			h.removeLocked(c)
		}
	}
	return nil
}

// Clients devuelve cuántos dashboards hay conectados.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close desconecta a todos y espera que terminen sus goroutines.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
	h.mu.Unlock()

	h.wg.Wait()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
}

func (h *Hub) writePump(c *client) {
	defer h.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// readPump descarta lo que mande el cliente; sirve para detectar el cierre y los pongs.
func (h *Hub) readPump(c *client) {
	defer h.wg.Done()
	defer h.remove(c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

package collector

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Uranury/sensornode/forecast"
	"github.com/Uranury/sensornode/internal/log"
	"github.com/Uranury/sensornode/threshold"
)

const (
	writeWait = 5 * time.Second

	// Messages queued per client before new ones are dropped.
	sendBuffer = 16
)

// Message is the envelope pushed to websocket clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

// Hub broadcasts reports and trends to connected websocket clients. Each
// client has its own queue and writer, so a slow client never stalls the
// caller of Transmit or PublishTrend; it loses messages instead.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]bool),
	}
}

// Handle upgrades the request and keeps the client registered until it
// disconnects.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	cl := &client{conn: conn, send: make(chan Message, sendBuffer)}
	h.mu.Lock()
	h.clients[cl] = true
	count := len(h.clients)
	h.mu.Unlock()
	log.Infow("websocket client connected", "remote", c.Request.RemoteAddr, "clients", count)

	written := make(chan struct{})
	go func() {
		defer close(written)
		cl.writeLoop()
	}()

	// Clients never send anything meaningful; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	// send is only closed under mu, after which broadcast cannot reach it.
	h.mu.Lock()
	delete(h.clients, cl)
	close(cl.send)
	count = len(h.clients)
	h.mu.Unlock()
	<-written
	log.Infow("websocket client disconnected", "remote", c.Request.RemoteAddr, "clients", count)
}

// writeLoop drains the client queue until it is closed. After a failed write
// the connection is closed, which ends the read loop in Handle.
func (cl *client) writeLoop() {
	failed := false
	for m := range cl.send {
		if failed {
			continue
		}
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteJSON(m); err != nil {
			log.Warnw("websocket write failed", "error", err)
			cl.conn.Close()
			failed = true
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Transmit(r threshold.Report) {
	h.broadcast(Message{Type: "reading", Data: r})
}

func (h *Hub) PublishTrend(t forecast.Trend) {
	h.broadcast(Message{Type: "forecast", Data: t})
}

// broadcast queues m for every client without blocking.
func (h *Hub) broadcast(m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for cl := range h.clients {
		select {
		case cl.send <- m:
		default:
			log.Warnw("websocket client too slow, dropping message", "type", m.Type)
		}
	}
}

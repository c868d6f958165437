// Package ws pushes inventory alerts to connected staff over websockets.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/events"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// TokenResolver maps an access token to its actor.
type TokenResolver interface {
	ActorForToken(ctx context.Context, accessToken string) (*user.Actor, error)
}

// Message is the frame written to every client.
type Message struct {
	Type       string      `json:"type"`
	ID         string      `json:"id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

type client struct {
	actorID int64
	conn    *websocket.Conn
	send    chan []byte
}

// Hub tracks connected clients and fans alert events out to them.
type Hub struct {
	*transport.BaseHandler
	tokens   TokenResolver
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(baseHandler *transport.BaseHandler, tokens TokenResolver, allowedOrigins []string) *Hub {
	h := &Hub{
		BaseHandler: baseHandler,
		tokens:      tokens,
		clients:     make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Subscribe registers the hub for the alert events on bus.
func (h *Hub) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeLowStockAlert, h.HandleEvent)
	bus.Subscribe(events.EventTypeExpiryAlert, h.HandleEvent)
	bus.Subscribe(events.EventTypeProductSaved, h.HandleEvent)
}

// HandleEvent broadcasts event to every connected client. Slow clients whose
// buffer is full are dropped.
func (h *Hub) HandleEvent(ctx context.Context, event events.Event) error {
	frame, err := json.Marshal(Message{
		Type:       event.EventType(),
		ID:         event.EventID(),
		OccurredAt: event.OccurredAt(),
		Data:       event.Payload(),
	})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			h.Logger.Warn("dropping slow websocket client", "user_id", c.actorID)
			delete(h.clients, c)
			close(c.send)
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades staff connections. Browsers cannot set headers on a
// websocket handshake, so the token may come from ?token= as well.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	actor, err := h.tokens.ActorForToken(r.Context(), token)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := internal.RequireStaff(actor); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{actorID: actor.ID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)
	h.Logger.Info("websocket client connected", "user_id", actor.ID, "clients", h.Clients())

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only drains control frames; clients never send data.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		h.Logger.Debug("websocket client disconnected", "user_id", c.actorID)
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.Logger.Warn("websocket read failed", "user_id", c.actorID, "error", err)
			}
			return
		}
	}
}

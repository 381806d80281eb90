// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package display

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/AccelByte/extend-flick-countdown/pkg/common"
	"github.com/AccelByte/extend-flick-countdown/pkg/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// HubConfig holds WebSocket settings for display clients.
type HubConfig struct {
	WriteTimeout    time.Duration
	PongWait        time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultHubConfig returns default WebSocket configuration
func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteTimeout:    10 * time.Second,
		PongWait:        60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// ClientMessage is what display clients send back.
type ClientMessage struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// FlickFunc handles a flick received from a display client.
type FlickFunc func(ctx context.Context, name string)

// Hub pushes every change of a Memory surface to connected WebSocket clients.
// It is itself a Surface, so the core can write to it directly.
type Hub struct {
	*Memory

	upgrader websocket.Upgrader
	config   HubConfig

	mu      sync.RWMutex
	clients map[*client]bool
	onFlick FlickFunc

	broadcastCh chan []byte
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// NewHub wraps surface and broadcasts its patches.
func NewHub(surface *Memory, config HubConfig) *Hub {
	h := &Hub{
		Memory: surface,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		clients:     make(map[*client]bool),
		broadcastCh: make(chan []byte, 1024),
	}
	surface.Watch(h.enqueue)
	return h
}

// OnFlick sets the handler for flick messages from clients.
func (h *Hub) OnFlick(fn FlickFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFlick = fn
}

// Start fans queued patches out to clients until ctx is done.
func (h *Hub) Start(ctx context.Context) {
	logrus.Info("display hub started")

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			logrus.Info("display hub stopped")
			return
		case msg := <-h.broadcastCh:
			h.fanOut(msg)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and sends the full surface state first.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorf("failed to upgrade display connection: %v", err)
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}

	if err := h.register(c); err != nil {
		logrus.Errorf("failed to send display state: %v", err)
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()

	logrus.WithField("client_id", c.id).Info("display client connected")
}

func (h *Hub) enqueue(p Patch) {
	msg, err := json.Marshal(p)
	if err != nil {
		logrus.Errorf("failed to marshal display patch: %v", err)
		return
	}

	select {
	case h.broadcastCh <- msg:
	default:
		logrus.Warnf("display broadcast channel full, dropping %s patch", p.Type)
	}
}

func (h *Hub) fanOut(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			logrus.WithField("client_id", c.id).Warn("display client send buffer full, dropping patch")
		}
	}
}

// register queues the full state for c and adds it to the fan-out set.
// Both happen under the hub lock so no patch broadcast in between is lost.
func (h *Hub) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	state := h.State()
	initial, err := json.Marshal(Patch{Type: PatchState, State: &state})
	if err != nil {
		return err
	}
	c.send <- initial

	h.clients[c] = true
	metrics.DisplayClients.Set(float64(len(h.clients)))
	return nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		metrics.DisplayClients.Set(float64(len(h.clients)))
		logrus.WithField("client_id", c.id).Info("display client disconnected")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	metrics.DisplayClients.Set(0)
}

func (h *Hub) flick(ctx context.Context, name string) {
	h.mu.RLock()
	fn := h.onFlick
	h.mu.RUnlock()

	if fn != nil {
		fn(ctx, name)
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	defer common.Recover("display client read")

	cfg := c.hub.config
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithField("client_id", c.id).Warnf("display client read error: %v", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logrus.WithField("client_id", c.id).Debugf("ignoring malformed client message: %v", err)
			continue
		}

		if msg.Type == "flick" && msg.Name != "" {
			c.hub.flick(context.Background(), msg.Name)
		}
	}
}

func (c *client) writePump() {
	cfg := c.hub.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logrus.WithField("client_id", c.id).Debugf("display client write error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

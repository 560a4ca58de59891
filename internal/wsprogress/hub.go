// Package wsprogress streams read-only per-fixture progress telemetry
// while a plan_horizon call is in flight — fixture t of T started, solved,
// or propagated. It never feeds back into planning; the core orchestrator
// has no awareness this package exists.
package wsprogress

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Update is one progress event for a single plan_horizon call. Stage is
// either a whole-call event ("started", "failed", "completed") or one of
// the per-fixture pipeline stages the Horizon Orchestrator reports through
// horizon.ProgressFunc ("prepared", "shadow_priced", "solved",
// "propagated", "explained").
type Update struct {
	PlanID     string `json:"plan_id"`
	MatchIndex int    `json:"match_index"`
	Total      int    `json:"total"`
	Stage      string `json:"stage"`
}

// Client is one subscriber watching a single plan's progress.
type Client struct {
	PlanID string
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
}

// Hub fans plan-progress updates out to every subscriber of that plan.
type Hub struct {
	clients     map[*Client]bool
	planClients map[string][]*Client
	register    chan *Client
	unregister  chan *Client
	logger      *logrus.Logger
	mutex       sync.RWMutex
}

// NewHub creates an idle hub; callers must invoke Run in a goroutine.
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		planClients: make(map[string][]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		logger:      logger,
	}
}

// Run processes registration and unregistration until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.planClients[client.PlanID] = append(h.planClients[client.PlanID], client)
			h.mutex.Unlock()
			h.logger.WithField("plan_id", client.PlanID).Info("progress subscriber connected")

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				remaining := h.planClients[client.PlanID][:0]
				for _, c := range h.planClients[client.PlanID] {
					if c != client {
						remaining = append(remaining, c)
					}
				}
				if len(remaining) == 0 {
					delete(h.planClients, client.PlanID)
				} else {
					h.planClients[client.PlanID] = remaining
				}
			}
			h.mutex.Unlock()
		}
	}
}

// HandleWebSocket upgrades a request into a progress subscriber for one
// plan id.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	planID := c.Param("plan_id")
	if planID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan_id is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("failed to upgrade progress websocket")
		return
	}

	client := &Client{PlanID: planID, Conn: conn, Send: make(chan []byte, 64), Hub: h}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// Publish fans an update out to every subscriber of its plan id. Safe to
// call with no subscribers connected (a no-op).
func (h *Hub) Publish(update Update) {
	h.mutex.RLock()
	clients := h.planClients[update.PlanID]
	h.mutex.RUnlock()
	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(update)
	if err != nil {
		h.logger.WithError(err).Error("failed to marshal progress update")
		return
	}

	h.mutex.RLock()
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			close(client.Send)
			delete(h.clients, client)
		}
	}
	h.mutex.RUnlock()
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.Conn.Close()
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.Hub.logger.WithError(err).Error("failed to write progress update")
			return
		}
	}
}

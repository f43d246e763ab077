// Package hub owns the websocket boundary: connection registration,
// match-code groups, and fan-out of match events to subscribers. It
// implements arena.Broadcaster; sends are best effort and never block
// the tick loop.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"

	"ws-arcade/internal/arena"
)

// Envelope is the wire frame for every outbound event.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Hub tracks connected clients and their match-group membership.
type Hub struct {
	logger *log.Logger

	register   chan *Client
	unregister chan *Client

	// OnDisconnect is invoked after a client is dropped so the match
	// layer can detach the connection. Set before Run.
	OnDisconnect func(connID string)

	mu      sync.RWMutex
	clients map[string]*Client
	groups  map[string]map[string]*Client
}

// New creates an empty hub.
func New(logger *log.Logger) *Hub {
	return &Hub{
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
		groups:     make(map[string]map[string]*Client),
	}
}

// Run processes registration until done closes. Fan-out does not go
// through this loop; it takes the map lock directly.
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("client connected", "conn", c.ID, "total", total)

		case c := <-h.unregister:
			h.drop(c)

		case <-done:
			return
		}
	}
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)
	if c.group != "" {
		if members, ok := h.groups[c.group]; ok {
			delete(members, c.ID)
			if len(members) == 0 {
				delete(h.groups, c.group)
			}
		}
	}
	close(c.send)
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("client disconnected", "conn", c.ID, "total", total)
	if h.OnDisconnect != nil {
		h.OnDisconnect(c.ID)
	}
}

// Subscribe moves a client into the group for a match code. A client
// belongs to at most one match at a time.
func (h *Hub) Subscribe(c *Client, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.group != "" && c.group != code {
		if members, ok := h.groups[c.group]; ok {
			delete(members, c.ID)
			if len(members) == 0 {
				delete(h.groups, c.group)
			}
		}
	}
	c.group = code
	if h.groups[code] == nil {
		h.groups[code] = make(map[string]*Client)
	}
	h.groups[code][c.ID] = c
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ToGroup implements arena.Broadcaster.
func (h *Hub) ToGroup(code, event string, payload any) {
	h.sendGroup(code, "", event, payload)
}

// ToGroupExcept implements arena.Broadcaster.
func (h *Hub) ToGroupExcept(code, excludeConn, event string, payload any) {
	h.sendGroup(code, excludeConn, event, payload)
}

// ToConn implements arena.Broadcaster.
func (h *Hub) ToConn(connID, event string, payload any) {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		h.logger.Error("failed to marshal event", "event", event, "err", err)
		return
	}

	// Enqueue under the read lock: drop closes send under the write
	// lock, so a close can never land between lookup and send.
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[connID]; ok {
		c.enqueue(data)
	}
}

func (h *Hub) sendGroup(code, excludeConn, event string, payload any) {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		h.logger.Error("failed to marshal event", "event", event, "err", err)
		return
	}

	// Enqueue under the read lock: drop closes send under the write
	// lock, so a close can never land between snapshot and send.
	// enqueue never blocks, so holding the lock across the loop is safe.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.groups[code] {
		if c.ID != excludeConn {
			c.enqueue(data)
		}
	}
}

// Ensure Hub satisfies the framework's broadcast boundary.
var _ arena.Broadcaster = (*Hub)(nil)

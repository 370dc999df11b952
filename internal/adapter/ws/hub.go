package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Frame is the JSON envelope exchanged on the realtime channel.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outFrame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Hub is the process-wide connection registry: at most one live client per
// participant id. It is empty at process start and never persisted;
// reconnecting clients re-register. All connect/disconnect transitions flow
// through Register and Unregister.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     *slog.Logger

	upgrader websocket.Upgrader
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Register binds the client to a participant id, replacing any prior entry.
// Replacement handles reconnects that beat the old connection's disconnect.
func (h *Hub) Register(participantID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A connection re-registering under a new identity releases its old one.
	if c.participantID != "" && c.participantID != participantID {
		if current, ok := h.clients[c.participantID]; ok && current == c {
			delete(h.clients, c.participantID)
		}
	}

	c.participantID = participantID
	h.clients[participantID] = c

	h.log.Info("client registered", "participant_id", participantID)
}

// Unregister evicts the client only if it is still the registered entry for
// its participant id. A disconnect for a handle that was already superseded
// by a newer registration must not evict the newer entry.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.participantID == "" {
		return
	}
	if current, ok := h.clients[c.participantID]; ok && current == c {
		delete(h.clients, c.participantID)
		h.log.Info("client unregistered", "participant_id", c.participantID)
	}
}

// Lookup returns the live client for a participant, if any.
func (h *Hub) Lookup(participantID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[participantID]
	return c, ok
}

// Notify delivers the event to the participant's connection. An absent
// participant is a successful no-op; a full send buffer drops the frame.
func (h *Hub) Notify(participantID, event string, payload any) {
	c, ok := h.Lookup(participantID)
	if !ok {
		return
	}

	if !c.trySend(outFrame{Event: event, Payload: payload}) {
		h.log.Warn("dropped notification", "participant_id", participantID, "event", event)
	}
}

// Broadcast delivers the event once to every connection registered at call
// time. The target set is snapshotted first so registrations racing the
// delivery loop are not half-included.
func (h *Hub) Broadcast(event string, payload any) {
	type target struct {
		id     string
		client *Client
	}

	h.mu.RLock()
	targets := make([]target, 0, len(h.clients))
	for id, c := range h.clients {
		targets = append(targets, target{id: id, client: c})
	}
	h.mu.RUnlock()

	frame := outFrame{Event: event, Payload: payload}
	for _, t := range targets {
		if !t.client.trySend(frame) {
			h.log.Warn("dropped broadcast frame", "participant_id", t.id, "event", event)
		}
	}
}

// ParticipantIDs lists the currently registered participants.
func (h *Hub) ParticipantIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// Close tears down every live connection, for process shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
}

// ServeHTTP upgrades the request and runs the connection's read and write
// pumps. The connection stays anonymous until its add-user frame arrives.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(h, conn)
	go c.writePump()
	go c.readPump()
}

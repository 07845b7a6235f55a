// file: internal/realtime/events.go
// version: 2.0.0
// guid: 9e8d7f6a-5c4b-3a21-0f9e-8d7c6b5a4392

package realtime

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	ulid "github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/jdfalk/cfr-navigator/internal/metrics"
)

// EventType defines the type of real-time event
type EventType string

const (
	EventConnected       EventType = "connection.established"
	EventCatalogReloaded EventType = "catalog.reloaded"
	EventProgressUpdated EventType = "progress.updated"
	EventHeartbeat       EventType = "heartbeat"
)

// DefaultHeartbeat is how often idle connections get a heartbeat.
const DefaultHeartbeat = 15 * time.Second

// Event represents a real-time event to send to clients. ID is the condition
// an event concerns; catalog-wide events leave it empty.
type Event struct {
	Type      EventType      `json:"type"`
	ID        string         `json:"id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Client represents a connected SSE client
type Client struct {
	ID         string
	Channel    chan *Event
	Conditions map[string]bool // condition ids this client follows; empty means all
	mu         sync.RWMutex
}

// NewClient creates a new SSE client
func NewClient(id string) *Client {
	return &Client{
		ID:         id,
		Channel:    make(chan *Event, 100),
		Conditions: make(map[string]bool),
	}
}

// Subscribe follows events for one condition
func (c *Client) Subscribe(conditionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Conditions[conditionID] = true
}

// Unsubscribe stops following a condition
func (c *Client) Unsubscribe(conditionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Conditions, conditionID)
}

// Wants reports whether the client should receive event.
func (c *Client) Wants(event *Event) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return event.ID == "" || len(c.Conditions) == 0 || c.Conditions[event.ID]
}

// EventHub manages SSE connections and event distribution
type EventHub struct {
	mu        sync.RWMutex
	clients   map[string]*Client
	heartbeat time.Duration
}

// NewEventHub creates a new event hub
func NewEventHub() *EventHub {
	return &EventHub{
		clients:   make(map[string]*Client),
		heartbeat: DefaultHeartbeat,
	}
}

// SetHeartbeat changes the heartbeat interval for new connections.
func (h *EventHub) SetHeartbeat(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if d > 0 {
		h.heartbeat = d
	}
}

// RegisterClient registers a new client
func (h *EventHub) RegisterClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	n := len(h.clients)
	h.mu.Unlock()

	metrics.SetEventClients(n)
	log.Debug().Str("client_id", client.ID).Int("clients", n).Msg("SSE client registered")
}

// UnregisterClient removes a client and closes its channel
func (h *EventHub) UnregisterClient(clientID string) {
	h.mu.Lock()
	client, exists := h.clients[clientID]
	if exists {
		close(client.Channel)
		delete(h.clients, clientID)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if exists {
		metrics.SetEventClients(n)
		log.Debug().Str("client_id", clientID).Int("clients", n).Msg("SSE client unregistered")
	}
}

// Broadcast sends an event to every interested client. Slow clients whose
// buffer is full miss the event.
func (h *EventHub) Broadcast(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, client := range h.clients {
		if !client.Wants(event) {
			continue
		}
		select {
		case client.Channel <- event:
			count++
		default:
			log.Warn().Str("client_id", client.ID).Str("type", string(event.Type)).Msg("SSE client channel full, dropping event")
		}
	}

	if count > 0 {
		log.Debug().Str("type", string(event.Type)).Int("clients", count).Msg("broadcast event")
	}
}

// SendCatalogReloaded announces a new catalog snapshot.
func (h *EventHub) SendCatalogReloaded(generation uint64, conditions int) {
	h.Broadcast(&Event{
		Type:      EventCatalogReloaded,
		Timestamp: time.Now(),
		Data: map[string]any{
			"generation": generation,
			"conditions": conditions,
		},
	})
}

// SendProgressUpdated announces a notes or evidence change for a condition.
func (h *EventHub) SendProgressUpdated(conditionID, kind string) {
	h.Broadcast(&Event{
		Type:      EventProgressUpdated,
		ID:        conditionID,
		Timestamp: time.Now(),
		Data: map[string]any{
			"condition_id": conditionID,
			"kind":         kind,
		},
	})
}

// GetClientCount returns the number of connected clients
func (h *EventHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *EventHub) Close() {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.UnregisterClient(id)
	}
}

func writeEvent(c *gin.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}

// HandleSSE handles Server-Sent Events connection. ?condition=<id> limits
// progress events to one condition.
func (h *EventHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache, no-transform")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	clientID := "client-" + ulid.Make().String()
	client := NewClient(clientID)
	if conditionID := c.Query("condition"); conditionID != "" {
		client.Subscribe(conditionID)
	}

	h.mu.RLock()
	interval := h.heartbeat
	h.mu.RUnlock()

	h.RegisterClient(client)
	defer h.UnregisterClient(clientID)

	_ = writeEvent(c, &Event{
		Type:      EventConnected,
		Timestamp: time.Now(),
		Data:      map[string]any{"client_id": clientID},
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			log.Debug().Str("client_id", clientID).Msg("SSE connection closed")
			return
		case event, ok := <-client.Channel:
			if !ok {
				return
			}
			if err := writeEvent(c, event); err != nil {
				log.Warn().Err(err).Str("client_id", clientID).Msg("error writing to SSE client")
				return
			}
		case <-ticker.C:
			_ = writeEvent(c, &Event{Type: EventHeartbeat, Timestamp: time.Now()})
		}
	}
}

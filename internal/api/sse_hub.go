package api

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"gazecenter/internal"
	"gazecenter/ports"
)

// allScopes is the subscription key of clients that want every summary
const allScopes = ""

// SSEClient represents a connected SSE client
type SSEClient struct {
	Scope   string
	Channel chan SummaryEvent
}

// SummaryEvent is streamed to clients whenever an analysis completes
type SummaryEvent struct {
	EventType string              `json:"event_type"`
	Summary   ports.SummaryRecord `json:"summary"`
	Timestamp time.Time           `json:"timestamp"`
}

// SSEHub fans completed summaries out to Server-Sent Events clients. It
// implements ports.SummaryPublisher.
type SSEHub struct {
	clients    map[string]map[chan SummaryEvent]bool
	clientsMu  sync.RWMutex
	register   chan SSEClient
	unregister chan SSEClient
	broadcast  chan SummaryEvent
	done       chan struct{}
	closeOnce  sync.Once
	logger     *internal.Logger
	keepAlive  time.Duration
}

// NewSSEHub creates a new SSE hub
func NewSSEHub() *SSEHub {
	hub := &SSEHub{
		clients:    make(map[string]map[chan SummaryEvent]bool),
		register:   make(chan SSEClient, 10),
		unregister: make(chan SSEClient, 10),
		broadcast:  make(chan SummaryEvent, 100),
		done:       make(chan struct{}),
		logger:     internal.DefaultLogger.With("SSE"),
		keepAlive:  30 * time.Second,
	}

	go hub.run()
	return hub
}

// run processes SSE hub operations
func (h *SSEHub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			if h.clients[client.Scope] == nil {
				h.clients[client.Scope] = make(map[chan SummaryEvent]bool)
			}
			h.clients[client.Scope][client.Channel] = true
			h.logger.Debug("client registered for scope %q (total clients: %d)",
				client.Scope, len(h.clients[client.Scope]))
			h.clientsMu.Unlock()

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if clients, exists := h.clients[client.Scope]; exists {
				delete(clients, client.Channel)
				if len(clients) == 0 {
					delete(h.clients, client.Scope)
				}
			}
			h.clientsMu.Unlock()

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			for _, scope := range []string{event.Summary.Scope, allScopes} {
				for clientChan := range h.clients[scope] {
					select {
					case clientChan <- event:
					default:
						h.logger.Warn("client channel full for scope %q, skipping event", scope)
					}
				}
			}
			h.clientsMu.RUnlock()

		case <-h.done:
			return
		}
	}
}

// Publish queues a summary for every subscribed client. It never blocks.
func (h *SSEHub) Publish(ctx context.Context, record ports.SummaryRecord) error {
	event := SummaryEvent{EventType: "summary", Summary: record, Timestamp: time.Now()}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping summary %s", record.ID)
	}
	return nil
}

// Close stops the hub loop
func (h *SSEHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// HandleSSE streams summaries. The optional scope query parameter limits
// the stream to one analysis scope.
func (h *SSEHub) HandleSSE(c *gin.Context) {
	scope := c.Query("scope")
	if scope != allScopes && scope != ports.ScopeIndividual && scope != ports.ScopeAggregate {
		c.JSON(400, gin.H{"error": "scope must be individual or aggregate", "code": "INVALID_INPUT"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientChan := make(chan SummaryEvent, 10)
	select {
	case h.register <- SSEClient{Scope: scope, Channel: clientChan}:
	default:
		c.JSON(500, gin.H{"error": "SSE hub registration failed"})
		return
	}
	defer func() {
		select {
		case h.unregister <- SSEClient{Scope: scope, Channel: clientChan}:
		default:
		}
	}()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-clientChan:
			eventJSON, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event: %v", err)
				return true
			}
			c.SSEvent(event.EventType, string(eventJSON))
			return true

		case <-time.After(h.keepAlive):
			c.SSEvent("ping", `{"status": "alive", "timestamp": "`+time.Now().Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			return false

		case <-h.done:
			return false
		}
	})
}

// ClientCount returns the number of clients subscribed to scope
func (h *SSEHub) ClientCount(scope string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[scope])
}

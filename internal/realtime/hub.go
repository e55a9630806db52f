package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"homebase/internal/logging"
)

const heartbeatInterval = 15 * time.Second

// Client is one server-sent-events connection.
type Client struct {
	ID       uuid.UUID
	Channels map[string]bool
	Outbound chan Message
	done     chan struct{}
	once     sync.Once
}

// Hub routes bus messages to SSE clients subscribed to their channel.
type Hub struct {
	mu            sync.RWMutex
	log           *logging.Logger
	subscriptions map[string]map[*Client]bool
	heartbeat     time.Duration
}

func NewHub(log *logging.Logger) *Hub {
	if log == nil {
		log = logging.Nop()
	}
	return &Hub{
		log:           log.With("component", "SSEHub"),
		subscriptions: make(map[string]map[*Client]bool),
		heartbeat:     heartbeatInterval,
	}
}

func (hub *Hub) NewClient() *Client {
	return &Client{
		ID:       uuid.New(),
		Channels: make(map[string]bool),
		Outbound: make(chan Message, 16),
		done:     make(chan struct{}),
	}
}

func (hub *Hub) AddChannel(client *Client, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()

	client.Channels[channel] = true
	clients, exists := hub.subscriptions[channel]
	if !exists {
		clients = make(map[*Client]bool)
		hub.subscriptions[channel] = clients
	}
	clients[client] = true

	hub.log.Debug("SSE client subscribed", "clientID", client.ID, "channel", channel)
}

func (hub *Hub) removeClient(client *Client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for ch := range client.Channels {
		if subMap, ok := hub.subscriptions[ch]; ok {
			delete(subMap, client)
			if len(subMap) == 0 {
				delete(hub.subscriptions, ch)
			}
		}
	}
	client.Channels = make(map[string]bool)
}

// Broadcast queues msg for every client on its channel. Slow clients drop messages.
func (hub *Hub) Broadcast(msg Message) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for c := range hub.subscriptions[msg.Channel] {
		select {
		case c.Outbound <- msg:
		default:
			hub.log.Warn("dropping SSE message; outbound buffer full", "clientID", c.ID)
		}
	}
}

// ClientCount reports how many clients listen on channel.
func (hub *Hub) ClientCount(channel string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.subscriptions[channel])
}

// CloseClient unsubscribes the client and ends its stream. It is safe to call twice.
func (hub *Hub) CloseClient(client *Client) {
	client.once.Do(func() {
		hub.removeClient(client)
		close(client.done)
	})
}

// ServeHTTP streams the client's messages until the request or the client ends.
func (hub *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *Client) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, ": connected %s\n\n", client.ID)
	flusher.Flush()

	heartbeat := time.NewTicker(hub.heartbeat)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			hub.log.Debug("SSE client context done", "clientID", client.ID, "err", ctx.Err())
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg := <-client.Outbound:
			if err := writeEvent(w, msg); err != nil {
				hub.log.Warn("failed to write SSE message", "error", err)
				continue
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, body); err != nil {
		return err
	}
	return nil
}

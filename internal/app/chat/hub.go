/*
Package chat contains the real-time notification layer: the WebSocket hub and
its connected subscriber clients.

This file defines the Hub struct, the single broadcast domain of the relay.
Subscribers receive a payload-less change signal whenever the message log
changes and are expected to re-fetch state through a snapshot request.
*/
package chat

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"glyphchat/internal/pkg/logx"
)

// notifyChannelBuffer bounds pending change notifications. Signals carry no
// payload, so dropping one under pressure loses nothing a later signal does
// not convey.
const notifyChannelBuffer = 64

// TypeBroadcast is the only event type pushed to subscribers.
const TypeBroadcast = "BROADCAST"

// Signal is the wire form of the change notification. It carries no payload;
// clients resynchronize with an empty snapshot request.
type Signal struct {
	Type string `json:"type"`
}

// Hub tracks the dynamic set of connected subscribers and fans change
// notifications out to all of them, fire-and-forget.
type Hub struct {
	// clients is the set of currently connected subscribers.
	clients map[*Client]struct{}

	// register queues clients joining the subscriber set.
	register chan *Client

	// unregister queues clients leaving the subscriber set.
	unregister chan *Client

	// notify queues change notifications from the relay service.
	notify chan struct{}

	// stopChan signals the Run loop to terminate.
	stopChan chan struct{}

	// mu protects access to the clients map.
	mu sync.RWMutex

	// wg waits for the Run loop to finish during shutdown.
	wg sync.WaitGroup

	// structured logger with hub context.
	logger zerolog.Logger
}

// NewHub constructs a Hub and starts its Run loop.
func NewHub() *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	h := &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		notify:     make(chan struct{}, notifyChannelBuffer),
		stopChan:   make(chan struct{}),
		logger:     hubLogger,
	}

	h.wg.Add(1)

	go h.run()

	return h
}

// run is the hub's main event loop: client registration, deregistration, and
// signal fan-out. It exits when Shutdown is called.
func (h *Hub) run() {
	defer func() {
		h.mu.Lock()
		for client := range h.clients {
			client.closeSend()
		}
		h.clients = make(map[*Client]struct{})
		h.mu.Unlock()

		h.logger.Info().Msg("Hub Run loop finished.")
		h.wg.Done()
	}()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()

			h.logger.Info().
				Str("conn_id", client.connID).
				Int("total_subscribers", total).
				Msg("Subscriber connected.")

		case client := <-h.unregister:
			h.mu.Lock()
			_, known := h.clients[client]
			if known {
				delete(h.clients, client)
				client.closeSend()
			}
			total := len(h.clients)
			h.mu.Unlock()

			if known {
				h.logger.Info().
					Str("conn_id", client.connID).
					Int("total_subscribers", total).
					Msg("Subscriber disconnected.")
			}

		case <-h.notify:
			h.fanOut()

		case <-h.stopChan:
			h.logger.Info().Msg("Hub stop initiated.")
			return
		}
	}
}

// fanOut delivers the change signal to every subscriber. Slow consumers are
// skipped; their next snapshot request resynchronizes them.
func (h *Hub) fanOut() {
	signalBytes, err := json.Marshal(Signal{Type: TypeBroadcast})
	if err != nil {
		h.logger.Error().Err(err).Msg("Error marshaling broadcast signal.")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- signalBytes:
		default:
			h.logger.Warn().
				Str("conn_id", client.connID).
				Msg("Subscriber send channel full, dropping signal.")
		}
	}
}

// Broadcast enqueues a change notification. It never blocks: when the queue
// is saturated a pending signal already covers the change.
func (h *Hub) Broadcast() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// RegisterClient adds a client to the subscriber set.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.stopChan:
		client.closeSend()
	}
}

// UnregisterClient removes a client from the subscriber set.
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopChan:
	}
}

// SubscriberCount returns the number of currently connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Shutdown stops the Run loop and disconnects all subscribers.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down hub...")

	select {
	case <-h.stopChan:
	default:
		close(h.stopChan)
	}

	h.wg.Wait()

	h.logger.Info().Msg("Hub shutdown complete.")
}

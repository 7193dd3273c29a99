package socket

import (
	"context"
	"encoding/json"
	"sync"

	"marque/pkg/logger"
)

// Hub fans committed row changes out to every connected session of an owner.
// Rooms are keyed by owner, so two tabs of the same user share a room and
// different users never see each other's events.
type Hub struct {
	rooms map[string]map[*Client]bool

	Broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client

	// bridge, when set, republishes local events to other instances.
	bridge *Bridge

	mu sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		Broadcast:  make(chan Message),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// AttachBridge wires a cross-instance bridge. Must be called before Run.
func (h *Hub) AttachBridge(b *Bridge) {
	h.bridge = b
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.rooms[client.Owner] == nil {
				h.rooms[client.Owner] = make(map[*Client]bool)
			}
			h.rooms[client.Owner][client] = true
			h.mu.Unlock()
			logger.Sugar.Infof("Feed subscription opened for owner %s", client.Owner)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.rooms[client.Owner][client]; ok {
				delete(h.rooms[client.Owner], client)
				close(client.Send)
				if len(h.rooms[client.Owner]) == 0 {
					delete(h.rooms, client.Owner)
				}
			}
			h.mu.Unlock()

		case msg := <-h.Broadcast:
			payload, err := json.Marshal(msg.Event)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling feed event: %v", err)
				continue
			}

			// Copy the recipient list so no I/O happens under the lock.
			// Every session of the owner receives the event, including the
			// one whose request caused it: list state changes only via the
			// feed or a snapshot, never via a local optimistic edit.
			h.mu.Lock()
			clientsToSend := make([]*Client, 0, len(h.rooms[msg.Owner]))
			for client := range h.rooms[msg.Owner] {
				clientsToSend = append(clientsToSend, client)
			}
			h.mu.Unlock()

			for _, client := range clientsToSend {
				select {
				case client.Send <- payload:
				default:
					// Full send buffer means the client is lagging.
					// Unregister it rather than blocking the hub.
					logger.Sugar.Warnf("Feed client for owner %s is lagging, unregistering", client.Owner)
					go func(c *Client) { h.Unregister <- c }(client)
				}
			}

			if h.bridge != nil && !msg.remote {
				if err := h.bridge.Publish(context.Background(), msg); err != nil {
					logger.Sugar.Errorf("Failed to publish feed event to bridge: %v", err)
				}
			}
		}
	}
}

package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event is a message pushed to subscribed clients.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// roomEvent routes an event to a single room.
type roomEvent struct {
	RoomID uuid.UUID
	Event  Event
}

// Hub tracks active clients grouped into rooms and fans events out to them.
// A room is keyed by UUID: branch IDs back the staff order feeds, user IDs
// back each customer's own feed.
type Hub struct {
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	broadcast chan *roomEvent

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomEvent, 256),
	}
}

// Run is the hub's main loop. Call it once as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.roomID] == nil {
				h.rooms[client.roomID] = make(map[*Client]bool)
			}
			h.rooms[client.roomID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.roomID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.roomID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.RoomID]

			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full, drop the client.
					close(client.send)
					delete(h.rooms[event.RoomID], client)
					if len(h.rooms[event.RoomID]) == 0 {
						delete(h.rooms, event.RoomID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToBranch notifies every staff client watching a branch's feed.
func (h *Hub) BroadcastToBranch(branchID uuid.UUID, event Event) {
	h.broadcast <- &roomEvent{RoomID: branchID, Event: event}
}

// BroadcastToUser notifies a customer's own order feed.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event Event) {
	h.broadcast <- &roomEvent{RoomID: userID, Event: event}
}

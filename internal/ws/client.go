package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/savora/api/internal/auth"
	"github.com/savora/api/internal/enum"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins (we validate via JWT)
	},
}

// Client is a single WebSocket connection subscribed to one room.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	roomID uuid.UUID
	send   chan []byte
}

// ReadPump pumps messages from the WebSocket connection to the hub.
// Order feeds are one-way: clients never send, we only watch for disconnects.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeBranchWS subscribes staff to a branch's live order feed.
// Endpoint: WS /ws/branches/{bid}/orders?token=JWT
func ServeBranchWS(hub *Hub, jwtSecret string, w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(jwtSecret, w, r)
	if !ok {
		return
	}

	branchID, err := uuid.Parse(chi.URLParam(r, "bid"))
	if err != nil {
		http.Error(w, "invalid branch id", http.StatusBadRequest)
		return
	}

	// ADMIN can watch any branch, STAFF only their own.
	switch claims.Role {
	case enum.RoleAdmin:
	case enum.RoleStaff:
		if claims.BranchID != branchID {
			http.Error(w, "branch access denied", http.StatusForbidden)
			return
		}
	default:
		http.Error(w, "branch access denied", http.StatusForbidden)
		return
	}

	subscribe(hub, branchID, w, r)
}

// ServeCustomerWS subscribes a customer to their own order feed.
// Endpoint: WS /ws/me/orders?token=JWT
func ServeCustomerWS(hub *Hub, jwtSecret string, w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(jwtSecret, w, r)
	if !ok {
		return
	}
	subscribe(hub, claims.UserID, w, r)
}

func authorize(jwtSecret string, w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	// Browsers can't set headers on WebSocket dials, so the token rides a
	// query param.
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return nil, false
	}

	claims, err := auth.ValidateToken(jwtSecret, tokenStr)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return nil, false
	}
	return claims, true
}

func subscribe(hub *Hub, roomID uuid.UUID, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		roomID: roomID,
		send:   make(chan []byte, 256),
	}
	client.hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}

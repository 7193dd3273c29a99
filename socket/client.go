package socket

import (
	"net/http"
	"time"

	"marque/pkg/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin allows connections from browser dev servers.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one subscribed session (one browser tab) of an owner.
type Client struct {
	Hub   *Hub
	Conn  *websocket.Conn
	Owner string
	Send  chan []byte
}

// ServeWs upgrades the request to a WebSocket and registers the session with
// the hub, subscribed to the authenticated owner's feed.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, owner string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Sugar.Error(err)
		return
	}

	client := &Client{
		Hub:   hub,
		Conn:  conn,
		Owner: owner,
		Send:  make(chan []byte, 256),
	}

	client.Hub.Register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	// The feed is one-way. Inbound frames are read only so the connection's
	// close is noticed; their payloads are discarded.
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Sugar.Errorf("feed read error: %v", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.Send:
			if !ok {
				// Hub closed the channel on unregister.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		// A ping every 30 seconds keeps the connection alive and detects drops.
		case <-ticker.C:
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

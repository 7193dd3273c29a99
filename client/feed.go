package client

import (
	"encoding/json"
	"net/url"
	"sync"

	"marque/pkg/logger"
	"marque/socket"

	"github.com/gorilla/websocket"
)

// Feed is one open Change Feed subscription. Decoded events arrive on Events
// in delivery order; the channel closes when the connection drops or Close is
// called. There is no replay of events missed while disconnected — the only
// way to resynchronize after a gap is a fresh snapshot fetch.
type Feed struct {
	conn   *websocket.Conn
	Events chan socket.Event

	closeOnce sync.Once
}

// SubscribeFeed dials the feed endpoint. The token rides in the query string
// the same way a browser WebSocket would send it.
func SubscribeFeed(feedURL, token string) (*Feed, error) {
	u, err := url.Parse(feedURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	f := &Feed{
		conn:   conn,
		Events: make(chan socket.Event, 16),
	}
	go f.readLoop()
	return f, nil
}

func (f *Feed) readLoop() {
	defer close(f.Events)
	for {
		_, payload, err := f.conn.ReadMessage()
		if err != nil {
			return
		}
		var ev socket.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			logger.Sugar.Errorf("Error unmarshalling feed event: %v", err)
			continue
		}
		f.Events <- ev
	}
}

// Close releases the subscription. Safe to call more than once.
func (f *Feed) Close() {
	f.closeOnce.Do(func() {
		f.conn.Close()
	})
}

package gateway

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"durak/internal/room"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxFrameSize = 65536
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Connection adapts a gorilla/websocket connection to room.Socket. It owns
// a buffered outbound queue so a slow reader never blocks the room actor's
// broadcast loop; a full queue drops the connection rather than stalling.
type Connection struct {
	conn     *websocket.Conn
	send     chan []byte
	playerID string
	roomID   string
	closed   chan struct{}
	closeOnce sync.Once
}

func newConnection(conn *websocket.Conn) *Connection {
	return &Connection{
		conn:   conn,
		send:   make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

// IsClosed reports whether Close has already run, which happens when a
// JOIN on the same playerID replaced this connection. A stale connection's
// readPump goroutine may still deliver one more already-buffered frame
// before it observes the close; handleFrame uses this to drop it instead
// of acting on behalf of a socket the room no longer recognizes.
func (c *Connection) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// Send implements room.Socket. It never blocks: a full outbound buffer
// means the connection is unhealthy and gets torn down instead.
func (c *Connection) Send(data []byte) error {
	select {
	case c.send <- data:
		return nil
	default:
		_ = c.Close("send buffer full")
		return fmt.Errorf("gateway: send buffer full for connection")
	}
}

// Close implements room.Socket. conn is nil only in tests that exercise
// frame dispatch without a live transport; production callers always hand
// newConnection a real *websocket.Conn.
func (c *Connection) Close(reason string) error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.conn == nil {
			return
		}
		deadline := time.Now().Add(writeWait)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason), deadline)
		err = c.conn.Close()
	})
	return err
}

// readPump pumps inbound text frames to handler until the connection
// fails or is closed; it is always run in its own goroutine.
func (c *Connection) readPump(handler func(data []byte)) {
	defer func() {
		_ = c.Close("read loop stopped")
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[gateway] read error: %v", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		handler(data)
	}
}

// writePump drains the outbound queue to the socket and keeps the
// connection alive with periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}

var _ room.Socket = (*Connection)(nil)

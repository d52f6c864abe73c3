package bridge

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/muurk/locsim/internal/logging"
	"github.com/muurk/locsim/internal/mapstate"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Outbound state snapshots queued per connection before new ones are dropped
	sendQueueSize = 16
)

// connection is one map surface. Only writeLoop writes to ws.
type connection struct {
	ws         *websocket.Conn
	remoteAddr string
	limiter    *rate.Limiter

	send      chan Message
	done      chan struct{}
	closeOnce sync.Once
}

func newConnection(ws *websocket.Conn, remoteAddr string, limiter *rate.Limiter) *connection {
	return &connection{
		ws:         ws,
		remoteAddr: remoteAddr,
		limiter:    limiter,
		send:       make(chan Message, sendQueueSize),
		done:       make(chan struct{}),
	}
}

func (c *connection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// enqueue queues msg for the writer without blocking.
func (c *connection) enqueue(msg Message) {
	select {
	case c.send <- msg:
	case <-c.done:
	default:
		logging.Warn("Send queue full, dropping message",
			zap.String("remote_addr", c.remoteAddr),
			zap.String("type", msg.Type),
		)
	}
}

func (c *connection) write(msg Message) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := c.ws.WriteJSON(msg); err != nil {
		return err
	}
	logging.LogBridgeMessage(c.remoteAddr, "sent", msg.Type)
	return nil
}

func (c *connection) writeLoop(goToPoint *mapstate.Subscription[mapstate.Coordinate], centerMap *mapstate.Subscription[struct{}]) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		var err error
		select {
		case <-c.done:
			return

		case msg := <-c.send:
			err = c.write(msg)

		case coord := <-goToPoint.C():
			err = c.write(coordinateMessage(TypeGoToPoint, coord))

		case <-centerMap.C():
			err = c.write(Message{Type: TypeCenterMap})

		case <-ticker.C:
			if err = c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err == nil {
				err = c.ws.WriteMessage(websocket.PingMessage, nil)
			}
		}

		if err != nil {
			logging.Info("Write to surface failed, closing",
				zap.String("remote_addr", c.remoteAddr),
				zap.Error(err),
			)
			c.close()
			return
		}
	}
}

func (c *connection) readLoop(dispatch Dispatcher) {
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Info("Connection closed or error reading message",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		logging.LogBridgeMessage(c.remoteAddr, "received", msg.Type)

		decoded, err := Decode(msg)
		if err != nil {
			logging.Warn("Ignoring malformed surface message",
				zap.String("remote_addr", c.remoteAddr),
				zap.Error(err),
			)
			continue
		}

		if _, ok := decoded.(UserLocationMsg); ok && c.limiter != nil && !c.limiter.Allow() {
			logging.Debug("Throttled user location update", zap.String("remote_addr", c.remoteAddr))
			continue
		}

		dispatch(decoded)
	}
}

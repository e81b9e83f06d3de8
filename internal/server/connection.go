package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client. Its generated ID
// doubles as the player ID inside any session it joins.
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Message
	server    *Server
	sessionID string
	name      string
	logger    *log.Logger
	clock     quartz.Clock
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server, clock quartz.Clock, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()

	return &Connection{
		id:     id,
		conn:   conn,
		send:   make(chan *Message, 256),
		server: server,
		logger: logger.WithPrefix("conn").With("id", id),
		clock:  clock,
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the connection's generated identifier.
func (c *Connection) ID() string { return c.id }

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetSession associates this connection with a session
func (c *Connection) SetSession(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = sessionID
}

// GetSession returns the associated session ID
func (c *Connection) GetSession() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// SetName records the player name supplied on join
func (c *Connection) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// GetName returns the player name, or "" before a join
func (c *Connection) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(c.clock.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(c.clock.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := c.clock.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(c.clock.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(c.clock.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetName())

	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Failed to parse join data")
			return
		}
		c.handleJoin(data)

	case MessageTypeStart:
		var data StartData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Failed to parse start data")
			return
		}
		c.handleStart(data)

	case MessageTypePlayCards:
		var data PlayCardsData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Failed to parse play cards data")
			return
		}
		c.handlePlayCards(data)

	case MessageTypeCallLiar:
		var data CallLiarData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Failed to parse call liar data")
			return
		}
		c.handleCallLiar(data)

	case MessageTypePullTrigger:
		var data PullTriggerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Failed to parse pull trigger data")
			return
		}
		c.handlePullTrigger(data)

	default:
		c.sendError("Unknown message type: " + msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{Message: message}, c.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

// resolveSession prefers the session named in the message and falls back to
// the connection's association from its join.
func (c *Connection) resolveSession(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return c.GetSession()
}

func (c *Connection) handleJoin(data JoinData) {
	c.logger.Info("Join request", "session", data.SessionID, "playerName", data.PlayerName)

	sessionID, events, err := c.server.registry.Join(data.SessionID, c.id, data.PlayerName)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	c.SetSession(sessionID)
	c.SetName(data.PlayerName)
	c.server.publish(sessionID, events)
}

func (c *Connection) handleStart(data StartData) {
	sessionID := c.resolveSession(data.SessionID)
	c.logger.Info("Start request", "session", sessionID, "player", c.GetName())

	events, err := c.server.registry.Start(sessionID, c.id)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.server.publish(sessionID, events)
}

func (c *Connection) handlePlayCards(data PlayCardsData) {
	sessionID := c.resolveSession(data.SessionID)
	c.logger.Info("Play cards", "session", sessionID, "player", c.GetName(), "count", data.CardCount)

	events, err := c.server.registry.PlayCards(sessionID, c.id, data.CardIndices, data.CardCount)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.server.publish(sessionID, events)
}

func (c *Connection) handleCallLiar(data CallLiarData) {
	sessionID := c.resolveSession(data.SessionID)
	c.logger.Info("Call liar", "session", sessionID, "player", c.GetName(), "accused", data.AccusedID)

	events, err := c.server.registry.CallLiar(sessionID, c.id, data.AccusedID)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.server.publish(sessionID, events)
}

func (c *Connection) handlePullTrigger(data PullTriggerData) {
	sessionID := c.resolveSession(data.SessionID)
	c.logger.Info("Pull trigger", "session", sessionID, "player", c.GetName())

	events, err := c.server.registry.PullTrigger(sessionID, c.id)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.server.publish(sessionID, events)
}

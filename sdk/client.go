package sdk

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Client is a WebSocket client for a Liar's Bar server. Reads are
// synchronous: callers pull one event at a time with Next, which suits the
// strictly ordered, turn-based protocol.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	logger    *log.Logger
	mu        sync.RWMutex
	connected bool
	sessionID string
}

// Dial connects to the server. http/https URLs are rewritten to ws/wss.
func Dial(serverURL string, logger *log.Logger) (*Client, error) {
	c := &Client{
		serverURL: serverURL,
		logger:    logger,
	}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connect() error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	normalizeScheme(u)

	c.logger.Info("Connecting to server", "url", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	return nil
}

func normalizeScheme(u *url.URL) {
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		u.Scheme = "ws"
	}
}

// Close shuts the connection down
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false

	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// SessionID returns the session joined by this client, or "" before Join.
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// Next blocks until the next message arrives. timeout <= 0 waits forever.
func (c *Client) Next(timeout time.Duration) (*Message, error) {
	c.mu.RLock()
	conn, connected := c.conn, c.connected
	c.mu.RUnlock()
	if !connected {
		return nil, fmt.Errorf("not connected")
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// NextOfType reads messages until one of the wanted type arrives, skipping
// interleaved broadcasts. The timeout covers the whole wait.
func (c *Client) NextOfType(want MessageType, timeout time.Duration) (*Message, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if timeout > 0 && remaining <= 0 {
			return nil, fmt.Errorf("timed out waiting for %s", want)
		}
		msg, err := c.Next(remaining)
		if err != nil {
			return nil, err
		}
		if msg.Type == want {
			return msg, nil
		}
		if msg.Type == MessageTypeError {
			var errData ErrorData
			if decodeErr := msg.DecodeData(&errData); decodeErr == nil {
				return nil, fmt.Errorf("server error while waiting for %s: %s", want, errData.Message)
			}
		}
		c.logger.Debug("Skipping message", "type", msg.Type, "want", want)
	}
}

func (c *Client) send(messageType MessageType, data interface{}) error {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return fmt.Errorf("not connected")
	}
	return c.conn.WriteJSON(msg)
}

// Join enters a session. An empty sessionID lets the server mint one; the
// resolved ID is discovered from the first lobbyUpdate by the caller.
func (c *Client) Join(sessionID, playerName string) error {
	c.logger.Info("Joining session", "session", sessionID, "playerName", playerName)
	err := c.send(MessageTypeJoin, JoinData{SessionID: sessionID, PlayerName: playerName})
	if err == nil && sessionID != "" {
		c.mu.Lock()
		c.sessionID = sessionID
		c.mu.Unlock()
	}
	return err
}

// Start asks the server to begin the game (host only by default)
func (c *Client) Start() error {
	return c.send(MessageTypeStart, StartData{SessionID: c.SessionID()})
}

// PlayCards plays the cards at the given hand indices
func (c *Client) PlayCards(indices []int) error {
	return c.send(MessageTypePlayCards, PlayCardsData{
		SessionID:   c.SessionID(),
		CardIndices: indices,
		CardCount:   len(indices),
	})
}

// CallLiar challenges the last play by the accused player
func (c *Client) CallLiar(accusedID string) error {
	return c.send(MessageTypeCallLiar, CallLiarData{
		SessionID: c.SessionID(),
		AccusedID: accusedID,
	})
}

// PullTrigger resolves a pending roulette pull against this player
func (c *Client) PullTrigger() error {
	return c.send(MessageTypePullTrigger, PullTriggerData{SessionID: c.SessionID()})
}

package server

import (
	"encoding/json"
	"time"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message stamped with the given time. The caller
// supplies the time so the server can stamp from its injected clock.
func NewMessage(messageType MessageType, data interface{}, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// Client → Server Messages

type JoinData struct {
	SessionID  string `json:"sessionId,omitempty"`
	PlayerName string `json:"playerName"`
}

type StartData struct {
	SessionID string `json:"sessionId,omitempty"`
}

type PlayCardsData struct {
	SessionID   string `json:"sessionId,omitempty"`
	CardIndices []int  `json:"cardIndices"`
	CardCount   int    `json:"cardCount"`
}

type CallLiarData struct {
	SessionID string `json:"sessionId,omitempty"`
	AccusedID string `json:"accusedId"`
}

type PullTriggerData struct {
	SessionID string `json:"sessionId,omitempty"`
}

// Server → Client Messages
//
// Game state payloads are the game.Event structs themselves; they marshal
// with the exact wire field names. Only the error payload is server-level.

type ErrorData struct {
	Message string `json:"message"`
}

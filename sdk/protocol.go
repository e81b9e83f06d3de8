// Package sdk provides a Go client for the Liar's Bar WebSocket protocol.
// It is self-contained: the wire types here mirror the server's protocol
// without importing its internals, so external bots can depend on this
// package alone.
package sdk

import (
	"encoding/json"
	"time"
)

// MessageType identifies a WebSocket message
type MessageType string

const (
	// Client to server
	MessageTypeJoin        MessageType = "join"
	MessageTypeStart       MessageType = "start"
	MessageTypePlayCards   MessageType = "playCards"
	MessageTypeCallLiar    MessageType = "callLiar"
	MessageTypePullTrigger MessageType = "pullTrigger"

	// Server to client
	MessageTypeLobbyUpdate    MessageType = "lobbyUpdate"
	MessageTypeGameStarted    MessageType = "gameStarted"
	MessageTypeNewRound       MessageType = "newRound"
	MessageTypeTurnUpdate     MessageType = "turnUpdate"
	MessageTypeCardsPlayed    MessageType = "cardsPlayed"
	MessageTypeLiarCalled     MessageType = "liarCalled"
	MessageTypeRouletteResult MessageType = "rouletteResult"
	MessageTypeGameOver       MessageType = "gameOver"
	MessageTypeError          MessageType = "error"
)

func (mt MessageType) String() string {
	return string(mt)
}

// Message is the wire envelope
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message stamped with the current time
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now().UTC(),
	}, nil
}

// DecodeData unmarshals the message payload into v
func (m *Message) DecodeData(v interface{}) error {
	return json.Unmarshal(m.Data, v)
}

// Client → Server payloads

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

// Server → Client payloads. Card ranks travel as the strings "Ace", "King",
// "Queen" and "Joker".

type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PlayerStatus struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CardCount     int    `json:"cardCount"`
	RouletteCount int    `json:"rouletteCount"`
	Alive         bool   `json:"alive"`
}

type LobbyUpdateData struct {
	Players []PlayerInfo `json:"players"`
	HostID  string       `json:"hostId"`
}

type GameStartedData struct {
	TableCard   string         `json:"tableCard"`
	Players     []PlayerStatus `json:"players"`
	CurrentTurn string         `json:"currentTurn"`
	YourHand    []string       `json:"yourHand"`
}

// NewRoundData has the same shape as GameStartedData
type NewRoundData = GameStartedData

type TurnUpdateData struct {
	CurrentTurn string `json:"currentTurn"`
	CanCallLiar bool   `json:"canCallLiar"`
}

type CardsPlayedData struct {
	PlayerID     string `json:"playerId"`
	CardCount    int    `json:"cardCount"`
	NextPlayerID string `json:"nextPlayerId"`
}

type LiarCalledData struct {
	AccuserID        string   `json:"accuserId"`
	AccusedID        string   `json:"accusedId"`
	PlayedCards      []string `json:"playedCards"`
	WasTruthful      bool     `json:"wasTruthful"`
	RoulettePlayerID string   `json:"roulettePlayerId"`
	RouletteCount    int      `json:"rouletteCount"`
}

type RouletteResultData struct {
	PlayerID      string `json:"playerId"`
	Survived      bool   `json:"survived"`
	Chamber       int    `json:"chamber"`
	RouletteCount int    `json:"rouletteCount"`
}

type GameOverData struct {
	WinnerID string `json:"winnerId"`
}

type ErrorData struct {
	Message string `json:"message"`
}

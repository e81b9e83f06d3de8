package game

import "liarsbar/internal/deck"

// Event is a state-change notification produced by a session transition.
// Events come out of the engine in the exact order they must reach clients;
// the server layer wraps them in the wire envelope and distributes them.
type Event interface {
	EventType() string
}

// TargetedEvent is delivered to a single player instead of being broadcast
// to the whole session. Hands are only ever carried by targeted events.
type TargetedEvent interface {
	Event
	Recipient() string
}

// PlayerInfo is the public roster entry used in the lobby.
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerStatus is the public in-game view of a seat. Hands are never
// included here, only their size.
type PlayerStatus struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CardCount     int    `json:"cardCount"`
	RouletteCount int    `json:"rouletteCount"`
	Alive         bool   `json:"alive"`
}

// LobbyUpdateEvent is broadcast whenever the pre-start roster changes.
type LobbyUpdateEvent struct {
	Players []PlayerInfo `json:"players"`
	HostID  string       `json:"hostId"`
}

func (LobbyUpdateEvent) EventType() string { return "lobbyUpdate" }

// GameStartedEvent carries the initial state of the game. Sent once per
// player so each recipient sees only their own hand.
type GameStartedEvent struct {
	To          string         `json:"-"`
	TableCard   deck.Rank      `json:"tableCard"`
	Players     []PlayerStatus `json:"players"`
	CurrentTurn string         `json:"currentTurn"`
	YourHand    []deck.Rank    `json:"yourHand"`
}

func (GameStartedEvent) EventType() string   { return "gameStarted" }
func (e GameStartedEvent) Recipient() string { return e.To }

// NewRoundEvent has the same shape as GameStartedEvent and is sent per alive
// player after every reshuffle.
type NewRoundEvent struct {
	To          string         `json:"-"`
	TableCard   deck.Rank      `json:"tableCard"`
	Players     []PlayerStatus `json:"players"`
	CurrentTurn string         `json:"currentTurn"`
	YourHand    []deck.Rank    `json:"yourHand"`
}

func (NewRoundEvent) EventType() string   { return "newRound" }
func (e NewRoundEvent) Recipient() string { return e.To }

// TurnUpdateEvent is broadcast when the current turn changes. CanCallLiar
// mirrors whether the immediately preceding play is still challengeable.
type TurnUpdateEvent struct {
	CurrentTurn string `json:"currentTurn"`
	CanCallLiar bool   `json:"canCallLiar"`
}

func (TurnUpdateEvent) EventType() string { return "turnUpdate" }

// CardsPlayedEvent is broadcast after a legal play. Only the claimed count
// is revealed; the cards themselves stay hidden until a challenge.
type CardsPlayedEvent struct {
	PlayerID     string `json:"playerId"`
	CardCount    int    `json:"cardCount"`
	NextPlayerID string `json:"nextPlayerId"`
}

func (CardsPlayedEvent) EventType() string { return "cardsPlayed" }

// LiarCalledEvent reveals a challenged play and names who faces the
// revolver.
type LiarCalledEvent struct {
	AccuserID        string      `json:"accuserId"`
	AccusedID        string      `json:"accusedId"`
	PlayedCards      []deck.Rank `json:"playedCards"`
	WasTruthful      bool        `json:"wasTruthful"`
	RoulettePlayerID string      `json:"roulettePlayerId"`
	RouletteCount    int         `json:"rouletteCount"`
}

func (LiarCalledEvent) EventType() string { return "liarCalled" }

// RouletteResultEvent is broadcast after a trigger pull. Chamber is the
// attempt number just used (1-6).
type RouletteResultEvent struct {
	PlayerID      string `json:"playerId"`
	Survived      bool   `json:"survived"`
	Chamber       int    `json:"chamber"`
	RouletteCount int    `json:"rouletteCount"`
}

func (RouletteResultEvent) EventType() string { return "rouletteResult" }

// GameOverEvent is broadcast exactly once, when one player remains.
type GameOverEvent struct {
	WinnerID string `json:"winnerId"`
}

func (GameOverEvent) EventType() string { return "gameOver" }

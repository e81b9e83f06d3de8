package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeJoin        MessageType = "join"
	MessageTypeStart       MessageType = "start"
	MessageTypePlayCards   MessageType = "playCards"
	MessageTypeCallLiar    MessageType = "callLiar"
	MessageTypePullTrigger MessageType = "pullTrigger"

	// Server to client messages. Game events carry the same type string as
	// their game.Event counterpart so publish can map them 1:1.
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

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageEnvelope(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msg, err := NewMessage(MessageTypeError, ErrorData{Message: "not your turn"}, now)
	require.NoError(t, err)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "error",
		"data": {"message": "not your turn"},
		"timestamp": "2025-06-01T12:00:00Z"
	}`, string(raw))
}

func TestInboundMessageParsing(t *testing.T) {
	raw := []byte(`{
		"type": "playCards",
		"data": {"sessionId": "e2e", "cardIndices": [0, 2, 4], "cardCount": 3},
		"timestamp": "2025-06-01T12:00:00Z"
	}`)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, MessageTypePlayCards, msg.Type)

	var data PlayCardsData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, "e2e", data.SessionID)
	assert.Equal(t, []int{0, 2, 4}, data.CardIndices)
	assert.Equal(t, 3, data.CardCount)
}

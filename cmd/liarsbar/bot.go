package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"liarsbar/cmd/liarsbar/shared"
	"liarsbar/internal/randutil"
	"liarsbar/internal/server"
	"liarsbar/sdk"
)

// BotCmd runs a random-strategy bot against a running server. Useful for
// demos, load testing, and filling seats.
type BotCmd struct {
	Server     string  `kong:"default='http://localhost:3000/ws',help='Server WebSocket URL'"`
	Session    string  `kong:"required,help='Session ID to join'"`
	Name       string  `kong:"help='Bot display name (generated when empty)'"`
	StartWhen  int     `kong:"default='0',help='Start the game once this many players are in the lobby (bot must be host)'"`
	CallChance float64 `kong:"default='0.25',help='Probability of challenging a play instead of playing cards'"`
	Seed       *int64  `kong:"help='Deterministic RNG seed (optional)'"`
	Debug      bool    `kong:"help='Enable debug logging'"`
}

func (c *BotCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	var rng *rand.Rand
	if c.Seed != nil {
		rng = randutil.New(*c.Seed)
	} else {
		rng = randutil.New(time.Now().UnixNano())
	}

	name := c.Name
	if name == "" {
		name = fmt.Sprintf("bot-%04d", rng.IntN(10000))
	}

	base, err := healthBaseURL(c.Server)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", c.Server, err)
	}
	healthCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = server.WaitForHealthy(healthCtx, base)
	cancel()
	if err != nil {
		return fmt.Errorf("server not healthy at %s: %w", base, err)
	}

	client, err := sdk.Dial(c.Server, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Join(c.Session, name); err != nil {
		return err
	}

	bot := &randomBot{
		client:     client,
		logger:     logger.WithPrefix("bot").With("name", name),
		rng:        rng,
		name:       name,
		startWhen:  c.StartWhen,
		callChance: c.CallChance,
	}
	return bot.run()
}

// healthBaseURL strips the WebSocket path from a server URL and maps ws
// schemes back to http so the /health endpoint can be polled before dialing.
func healthBaseURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	}
	u.Path = ""
	return u.String(), nil
}

// randomBot plays legal moves at random: it plays 1-3 random cards on its
// turn and occasionally challenges the previous play. The protocol carries
// no join acknowledgement, so the bot learns its own ID by finding its name
// in the lobby roster.
type randomBot struct {
	client     *sdk.Client
	logger     *log.Logger
	rng        *rand.Rand
	name       string
	startWhen  int
	callChance float64

	id          string
	hostID      string
	hand        []string
	currentTurn string
	canCallLiar bool
	lastPlayer  string
	acted       bool
}

func (b *randomBot) run() error {
	for {
		msg, err := b.client.Next(0)
		if err != nil {
			return err
		}

		switch msg.Type {
		case sdk.MessageTypeLobbyUpdate:
			var data sdk.LobbyUpdateData
			if err := msg.DecodeData(&data); err != nil {
				return err
			}
			b.handleLobby(data)

		case sdk.MessageTypeGameStarted, sdk.MessageTypeNewRound:
			var data sdk.GameStartedData
			if err := msg.DecodeData(&data); err != nil {
				return err
			}
			b.logger.Info("Round dealt", "tableCard", data.TableCard, "hand", data.YourHand)
			b.hand = data.YourHand
			b.lastPlayer = ""
			b.currentTurn = ""
			b.handleTurn(data.CurrentTurn, false)

		case sdk.MessageTypeTurnUpdate:
			var data sdk.TurnUpdateData
			if err := msg.DecodeData(&data); err != nil {
				return err
			}
			b.handleTurn(data.CurrentTurn, data.CanCallLiar)

		case sdk.MessageTypeCardsPlayed:
			var data sdk.CardsPlayedData
			if err := msg.DecodeData(&data); err != nil {
				return err
			}
			if data.PlayerID != b.id {
				b.lastPlayer = data.PlayerID
			}

		case sdk.MessageTypeLiarCalled:
			var data sdk.LiarCalledData
			if err := msg.DecodeData(&data); err != nil {
				return err
			}
			b.lastPlayer = ""
			if data.RoulettePlayerID == b.id {
				b.logger.Info("Facing the revolver", "count", data.RouletteCount)
				if err := b.client.PullTrigger(); err != nil {
					return err
				}
			}

		case sdk.MessageTypeRouletteResult:
			var data sdk.RouletteResultData
			if err := msg.DecodeData(&data); err != nil {
				return err
			}
			if data.PlayerID == b.id && !data.Survived {
				b.logger.Info("Eliminated", "chamber", data.Chamber)
			}

		case sdk.MessageTypeGameOver:
			var data sdk.GameOverData
			if err := msg.DecodeData(&data); err != nil {
				return err
			}
			if data.WinnerID == b.id {
				b.logger.Info("Won the game")
			} else {
				b.logger.Info("Game over", "winner", data.WinnerID)
			}
			return nil

		case sdk.MessageTypeError:
			var data sdk.ErrorData
			if err := msg.DecodeData(&data); err != nil {
				return err
			}
			b.logger.Warn("Server rejected action", "message", data.Message)

		default:
			b.logger.Debug("Ignoring message", "type", msg.Type)
		}
	}
}

func (b *randomBot) handleLobby(data sdk.LobbyUpdateData) {
	b.hostID = data.HostID
	if b.id == "" {
		// Our join is the most recent one with our name.
		for i := len(data.Players) - 1; i >= 0; i-- {
			if data.Players[i].Name == b.name {
				b.id = data.Players[i].ID
				break
			}
		}
	}
	b.logger.Info("Lobby update", "players", len(data.Players))

	if b.startWhen > 0 && len(data.Players) >= b.startWhen && b.hostID == b.id {
		b.logger.Info("Starting game", "players", len(data.Players))
		if err := b.client.Start(); err != nil {
			b.logger.Error("Failed to start game", "error", err)
		}
	}
}

func (b *randomBot) handleTurn(currentTurn string, canCallLiar bool) {
	b.canCallLiar = canCallLiar
	if currentTurn != b.currentTurn {
		b.currentTurn = currentTurn
		b.acted = false
	}
	if currentTurn != b.id || b.acted {
		return
	}
	b.acted = true
	b.act()
}

func (b *randomBot) act() {
	canChallenge := b.canCallLiar && b.lastPlayer != ""

	if canChallenge && (len(b.hand) == 0 || b.rng.Float64() < b.callChance) {
		b.logger.Info("Calling liar", "accused", b.lastPlayer)
		if err := b.client.CallLiar(b.lastPlayer); err != nil {
			b.logger.Error("Failed to call liar", "error", err)
		}
		return
	}

	if len(b.hand) == 0 {
		b.logger.Warn("No cards and nothing to challenge, passing")
		return
	}

	count := 1 + b.rng.IntN(min(3, len(b.hand)))
	indices := b.rng.Perm(len(b.hand))[:count]
	b.logger.Info("Playing cards", "count", count)
	if err := b.client.PlayCards(indices); err != nil {
		b.logger.Error("Failed to play cards", "error", err)
		return
	}

	// Track the shrinking hand locally; the next deal replaces it anyway.
	remaining := make([]string, 0, len(b.hand)-count)
	drop := make(map[int]bool, count)
	for _, idx := range indices {
		drop[idx] = true
	}
	for i, card := range b.hand {
		if !drop[i] {
			remaining = append(remaining, card)
		}
	}
	b.hand = remaining
}

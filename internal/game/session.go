package game

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"liarsbar/internal/deck"
)

// HandSize is how many cards each player holds at the start of a round. The
// 20-card deck therefore supports at most 4 players without a rebuild.
const HandSize = 5

// Phase is the explicit session state. Transitions only ever move forward:
// Lobby -> Playing -> GameOver.
type Phase int

const (
	Lobby Phase = iota
	Playing
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Lobby:
		return "lobby"
	case Playing:
		return "playing"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Config holds the per-session rules knobs.
type Config struct {
	// MaxPlayers caps the roster. The deck deals 5 cards each, so anything
	// above 4 would trigger the composition rebuild on the first deal.
	MaxPlayers int
	// EnforceHost rejects start requests from anyone but the host.
	EnforceHost bool
}

// DefaultConfig returns the standard four-seat, host-gated rules.
func DefaultConfig() Config {
	return Config{MaxPlayers: 4, EnforceHost: true}
}

// LastPlay records a play that may still be challenged. Claimed is the count
// the actor announced; the cards are what they actually put down.
type LastPlay struct {
	PlayerID string
	Cards    []deck.Rank
	Claimed  int
}

// Session is the authoritative state machine for one game. It is not safe
// for concurrent use; the registry serializes all actions against a session
// behind a single mutex so every transition sees a consistent state.
//
// All randomness (shuffles, table card, first turn, survival draws) comes
// from the session's own rng and never from client input.
type Session struct {
	id     string
	cfg    Config
	rng    *rand.Rand
	logger *log.Logger

	phase       Phase
	players     []*Player // rotation order, fixed at join time
	hostID      string
	deck        *deck.Deck
	tableRank   deck.Rank
	currentTurn string
	lastPlay    *LastPlay
	// challengeOpen gates whether the last play may still be challenged.
	challengeOpen bool
	// rouletteBound names the player who must pull the trigger before the
	// game continues; empty when no pull is pending.
	rouletteBound string
	winnerID      string
}

// NewSession creates an empty session in the Lobby phase.
func NewSession(id string, cfg Config, rng *rand.Rand, logger *log.Logger) *Session {
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = DefaultConfig().MaxPlayers
	}
	return &Session{
		id:     id,
		cfg:    cfg,
		rng:    rng,
		logger: logger.With("session", id),
		phase:  Lobby,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// HostID returns the current host.
func (s *Session) HostID() string { return s.hostID }

// CurrentTurn returns the ID of the player whose turn it is, or "" outside
// the Playing phase.
func (s *Session) CurrentTurn() string { return s.currentTurn }

// TableRank returns the rank plays must match this round.
func (s *Session) TableRank() deck.Rank { return s.tableRank }

// Winner returns the winning player's ID once the phase is GameOver.
func (s *Session) Winner() string { return s.winnerID }

// Roster returns the public lobby view of the players.
func (s *Session) Roster() []PlayerInfo {
	roster := make([]PlayerInfo, len(s.players))
	for i, p := range s.players {
		roster[i] = PlayerInfo{ID: p.ID, Name: p.Name}
	}
	return roster
}

// Join appends a player to the roster. The first joiner becomes host.
func (s *Session) Join(playerID, name string) ([]Event, error) {
	if s.phase != Lobby {
		return nil, ErrSessionStarted
	}
	if len(s.players) >= s.cfg.MaxPlayers {
		return nil, ErrSessionFull
	}

	s.players = append(s.players, &Player{ID: playerID, Name: name, Alive: true})
	if s.hostID == "" {
		s.hostID = playerID
	}

	s.logger.Info("Player joined", "player", name, "id", playerID, "players", len(s.players))
	return []Event{s.lobbyUpdate()}, nil
}

// Leave handles a player departing or dropping their connection. Pre-start
// the seat is removed entirely and the host reassigned if needed; during
// play the seat must survive for card accounting, so this delegates to
// Disconnect. The returned bool reports whether the session is now empty
// and should be deleted.
func (s *Session) Leave(playerID string) ([]Event, bool, error) {
	switch s.phase {
	case Lobby:
		idx := s.indexOf(playerID)
		if idx < 0 {
			return nil, false, ErrUnknownPlayer
		}
		leaving := s.players[idx]
		s.players = append(s.players[:idx], s.players[idx+1:]...)

		if len(s.players) == 0 {
			s.logger.Info("Last player left, session empty", "player", leaving.Name)
			return nil, true, nil
		}
		if s.hostID == playerID {
			s.hostID = s.players[0].ID
			s.logger.Info("Host left, reassigned", "host", s.hostID)
		}
		s.logger.Info("Player left", "player", leaving.Name, "remaining", len(s.players))
		return []Event{s.lobbyUpdate()}, false, nil

	case Playing:
		events, err := s.Disconnect(playerID)
		return events, false, err

	default:
		return nil, false, nil
	}
}

// Start deals the first round and transitions the session into Playing.
func (s *Session) Start(actorID string) ([]Event, error) {
	if s.phase != Lobby {
		return nil, ErrNotInLobby
	}
	if s.cfg.EnforceHost && actorID != s.hostID {
		return nil, ErrNotHost
	}
	if len(s.players) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	s.deck = deck.New(s.rng)
	s.deck.Shuffle()
	for _, p := range s.players {
		p.Hand = s.deck.DealN(HandSize)
	}
	s.tableRank = s.randomTableRank()
	s.currentTurn = s.players[s.rng.IntN(len(s.players))].ID
	s.phase = Playing
	s.challengeOpen = false

	s.logger.Info("Game started",
		"players", len(s.players),
		"tableCard", s.tableRank,
		"firstTurn", s.currentTurn)

	events := make([]Event, 0, len(s.players))
	for _, p := range s.players {
		events = append(events, GameStartedEvent{
			To:          p.ID,
			TableCard:   s.tableRank,
			Players:     s.statuses(),
			CurrentTurn: s.currentTurn,
			YourHand:    append([]deck.Rank(nil), p.Hand...),
		})
	}
	return events, nil
}

// PlayCards removes the selected cards from the actor's hand and records
// them as the last play. The claimed count is attacker-supplied metadata and
// is cross-checked against the selected indices rather than trusted.
func (s *Session) PlayCards(actorID string, indices []int, claimed int) ([]Event, error) {
	if s.phase != Playing {
		return nil, ErrNotPlaying
	}
	if s.rouletteBound != "" {
		return nil, ErrRoulettePending
	}
	if actorID != s.currentTurn {
		return nil, ErrNotYourTurn
	}

	idx := s.indexOf(actorID)
	if idx < 0 {
		return nil, ErrUnknownPlayer
	}
	actor := s.players[idx]
	if claimed != len(indices) || !actor.holdsIndices(indices) {
		return nil, ErrInvalidSelection
	}

	// Resolve the next turn before touching the hand so a failure here
	// leaves the state untouched.
	next, err := nextAlive(s.players, idx, actorID)
	if err != nil {
		return nil, err
	}

	cards := actor.removeCards(indices)
	if s.lastPlay != nil {
		// The superseded play can no longer be challenged; its face-down
		// cards fold back into the deck.
		s.deck.Add(s.lastPlay.Cards...)
	}
	s.lastPlay = &LastPlay{PlayerID: actorID, Cards: cards, Claimed: claimed}
	s.currentTurn = next
	s.challengeOpen = true

	s.logger.Info("Cards played", "player", actor.Name, "count", claimed, "next", next)

	return []Event{
		CardsPlayedEvent{PlayerID: actorID, CardCount: claimed, NextPlayerID: next},
		TurnUpdateEvent{CurrentTurn: next, CanCallLiar: true},
	}, nil
}

// CallLiar challenges the last play. The revealed cards decide who faces
// the revolver: the accused if they lied, the accuser if the play was
// honest. The revealed cards return to the deck immediately so the closed
// 20-card system holds.
func (s *Session) CallLiar(accuserID, accusedID string) ([]Event, error) {
	if s.phase != Playing {
		return nil, ErrNotPlaying
	}
	if s.rouletteBound != "" {
		return nil, ErrRoulettePending
	}
	if !s.challengeOpen || s.lastPlay == nil {
		return nil, ErrNoChallengeablePlay
	}
	if accusedID != s.lastPlay.PlayerID || accuserID == accusedID {
		return nil, ErrNoChallengeablePlay
	}
	accuser := s.playerByID(accuserID)
	if accuser == nil || !accuser.Alive {
		return nil, ErrUnknownPlayer
	}

	truthful := wasTruthful(s.lastPlay.Cards, s.tableRank)
	bound := accusedID
	if truthful {
		bound = accuserID
	}
	boundPlayer := s.playerByID(bound)

	played := append([]deck.Rank(nil), s.lastPlay.Cards...)
	s.deck.Add(s.lastPlay.Cards...)
	s.lastPlay = nil
	s.challengeOpen = false
	s.rouletteBound = bound

	s.logger.Info("Liar called",
		"accuser", accuser.Name,
		"accused", accusedID,
		"wasTruthful", truthful,
		"roulette", bound)

	return []Event{LiarCalledEvent{
		AccuserID:        accuserID,
		AccusedID:        accusedID,
		PlayedCards:      played,
		WasTruthful:      truthful,
		RoulettePlayerID: bound,
		RouletteCount:    boundPlayer.RouletteCount,
	}}, nil
}

// PullTrigger resolves the pending roulette pull. Survivors lead the next
// round; a death folds the victim's hand into the deck, runs the win check,
// and otherwise hands the turn to the next alive player after the victim.
func (s *Session) PullTrigger(playerID string) ([]Event, error) {
	if s.phase != Playing {
		return nil, ErrNotPlaying
	}
	if s.rouletteBound == "" || playerID != s.rouletteBound {
		return nil, ErrNotFacingRoulette
	}

	p := s.playerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}

	survived, chamber := pullTrigger(s.rng, p)
	s.rouletteBound = ""

	s.logger.Info("Trigger pulled",
		"player", p.Name,
		"survived", survived,
		"chamber", chamber)

	events := []Event{RouletteResultEvent{
		PlayerID:      playerID,
		Survived:      survived,
		Chamber:       chamber,
		RouletteCount: p.RouletteCount,
	}}

	if survived {
		return append(events, s.reshuffleAndDeal(playerID)...), nil
	}

	p.Alive = false
	s.foldHand(p)

	if over := s.checkGameOver(); over != nil {
		return append(events, over), nil
	}

	next, err := nextAlive(s.players, s.indexOf(playerID), "")
	if err != nil {
		return nil, err
	}
	events = append(events, s.reshuffleAndDeal(next)...)
	events = append(events, TurnUpdateEvent{CurrentTurn: s.currentTurn, CanCallLiar: false})
	return events, nil
}

// Disconnect marks a player dead during play without removing their seat.
// Their cards fold back into the deck immediately so the conservation
// invariant holds continuously instead of waiting for the next reshuffle.
func (s *Session) Disconnect(playerID string) ([]Event, error) {
	if s.phase != Playing {
		return nil, ErrNotPlaying
	}
	p := s.playerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if !p.Alive {
		return nil, nil
	}

	p.Alive = false
	s.foldHand(p)
	if s.lastPlay != nil && s.lastPlay.PlayerID == playerID {
		// A vanished play can no longer be challenged; reclaim its cards.
		s.deck.Add(s.lastPlay.Cards...)
		s.lastPlay = nil
		s.challengeOpen = false
	}

	s.logger.Info("Player disconnected during play", "player", p.Name)

	if over := s.checkGameOver(); over != nil {
		return []Event{over}, nil
	}

	idx := s.indexOf(playerID)
	var events []Event
	switch {
	case s.rouletteBound == playerID:
		// The pending pull dissolves with the player; start a fresh round
		// with the turn handed past their seat.
		s.rouletteBound = ""
		next, err := nextAlive(s.players, idx, "")
		if err != nil {
			return nil, err
		}
		events = append(events, s.reshuffleAndDeal(next)...)
		events = append(events, TurnUpdateEvent{CurrentTurn: s.currentTurn, CanCallLiar: false})

	case s.currentTurn == playerID:
		next, err := nextAlive(s.players, idx, "")
		if err != nil {
			return nil, err
		}
		s.currentTurn = next
		s.challengeOpen = false
		events = append(events, TurnUpdateEvent{CurrentTurn: next, CanCallLiar: false})
	}

	return events, nil
}

// checkGameOver is the single win-condition check, run after every mutation
// of the alive set. It fires exactly when one player remains.
func (s *Session) checkGameOver() Event {
	if s.phase != Playing {
		return nil
	}
	var last *Player
	count := 0
	for _, p := range s.players {
		if p.Alive {
			last = p
			count++
		}
	}
	if count != 1 {
		return nil
	}

	s.phase = GameOver
	s.winnerID = last.ID
	s.currentTurn = ""
	s.rouletteBound = ""
	s.challengeOpen = false

	s.logger.Info("Game over", "winner", last.Name)
	return GameOverEvent{WinnerID: last.ID}
}

func (s *Session) lobbyUpdate() LobbyUpdateEvent {
	return LobbyUpdateEvent{Players: s.Roster(), HostID: s.hostID}
}

func (s *Session) statuses() []PlayerStatus {
	statuses := make([]PlayerStatus, len(s.players))
	for i, p := range s.players {
		statuses[i] = PlayerStatus{
			ID:            p.ID,
			Name:          p.Name,
			CardCount:     len(p.Hand),
			RouletteCount: p.RouletteCount,
			Alive:         p.Alive,
		}
	}
	return statuses
}

func (s *Session) randomTableRank() deck.Rank {
	return deck.TableRanks[s.rng.IntN(len(deck.TableRanks))]
}

func (s *Session) foldHand(p *Player) {
	s.deck.Add(p.Hand...)
	p.Hand = nil
}

func (s *Session) playerByID(id string) *Player {
	if idx := s.indexOf(id); idx >= 0 {
		return s.players[idx]
	}
	return nil
}

func (s *Session) indexOf(id string) int {
	for i, p := range s.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) aliveCount() int {
	count := 0
	for _, p := range s.players {
		if p.Alive {
			count++
		}
	}
	return count
}

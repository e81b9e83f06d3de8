package server

import (
	"errors"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"liarsbar/internal/game"
	"liarsbar/internal/randutil"
	"liarsbar/internal/sessionid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNameRequired    = errors.New("player name required")
)

// managedSession pairs a session with the mutex that serializes every action
// against it. members counts connections that successfully joined, so the
// registry knows when a mid-game session has been abandoned entirely.
type managedSession struct {
	mu      sync.Mutex
	session *game.Session
	members int
}

// Registry owns all live sessions. Its own lock covers only the session map;
// game actions run under the per-session lock, so slow sessions never block
// each other.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*managedSession
	cfg      game.Config
	rng      *rand.Rand
	logger   *log.Logger
	// gameLogger is handed to sessions so their log lines carry the game
	// prefix instead of the registry's.
	gameLogger *log.Logger
}

// NewRegistry creates an empty registry. Each new session derives its own
// rng from the given process-level source.
func NewRegistry(cfg game.Config, rng *rand.Rand, logger *log.Logger) *Registry {
	return &Registry{
		sessions:   make(map[string]*managedSession),
		cfg:        cfg,
		rng:        rng,
		logger:     logger.WithPrefix("registry"),
		gameLogger: logger.WithPrefix("game"),
	}
}

// Join adds a player to the named session, creating it on first reference.
// An empty sessionID asks the registry to mint one. Returns the resolved
// session ID alongside the resulting events.
func (r *Registry) Join(sessionID, playerID, playerName string) (string, []game.Event, error) {
	if playerName == "" {
		return "", nil, ErrNameRequired
	}

	r.mu.Lock()
	if sessionID == "" {
		sessionID = sessionid.New()
	}
	ms, ok := r.sessions[sessionID]
	if !ok {
		ms = &managedSession{
			session: game.NewSession(sessionID, r.cfg, randutil.New(r.rng.Int64()), r.gameLogger),
		}
		r.sessions[sessionID] = ms
		r.logger.Info("Session created", "session", sessionID)
	}
	r.mu.Unlock()

	ms.mu.Lock()
	defer ms.mu.Unlock()

	events, err := ms.session.Join(playerID, playerName)
	if err != nil {
		return "", nil, err
	}
	ms.members++
	return sessionID, events, nil
}

// Leave removes a player from a session and deletes the session once nobody
// is left in it.
func (r *Registry) Leave(sessionID, playerID string) ([]game.Event, error) {
	ms := r.lookup(sessionID)
	if ms == nil {
		return nil, ErrSessionNotFound
	}

	ms.mu.Lock()
	events, empty, err := ms.session.Leave(playerID)
	if err == nil && ms.members > 0 {
		ms.members--
	}
	abandoned := empty || ms.members == 0
	ms.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if abandoned {
		r.mu.Lock()
		delete(r.sessions, sessionID)
		r.mu.Unlock()
		r.logger.Info("Session removed", "session", sessionID)
	}
	return events, nil
}

// Start begins the game in the named session.
func (r *Registry) Start(sessionID, actorID string) ([]game.Event, error) {
	return r.withSession(sessionID, func(s *game.Session) ([]game.Event, error) {
		return s.Start(actorID)
	})
}

// PlayCards plays cards from the actor's hand.
func (r *Registry) PlayCards(sessionID, actorID string, indices []int, claimed int) ([]game.Event, error) {
	return r.withSession(sessionID, func(s *game.Session) ([]game.Event, error) {
		return s.PlayCards(actorID, indices, claimed)
	})
}

// CallLiar challenges the last play.
func (r *Registry) CallLiar(sessionID, accuserID, accusedID string) ([]game.Event, error) {
	return r.withSession(sessionID, func(s *game.Session) ([]game.Event, error) {
		return s.CallLiar(accuserID, accusedID)
	})
}

// PullTrigger resolves a pending roulette pull.
func (r *Registry) PullTrigger(sessionID, playerID string) ([]game.Event, error) {
	return r.withSession(sessionID, func(s *game.Session) ([]game.Event, error) {
		return s.PullTrigger(playerID)
	})
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) lookup(sessionID string) *managedSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[sessionID]
}

func (r *Registry) withSession(sessionID string, fn func(*game.Session) ([]game.Event, error)) ([]game.Event, error) {
	ms := r.lookup(sessionID)
	if ms == nil {
		return nil, ErrSessionNotFound
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return fn(ms.session)
}

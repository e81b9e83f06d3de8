package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"liarsbar/internal/game"
)

// Server represents the WebSocket server
type Server struct {
	addr        string
	httpServer  *http.Server
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	registry    *Registry
	clock       quartz.Clock
	logger      *log.Logger
	mu          sync.RWMutex
	runOnce     sync.Once
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewServer creates a new WebSocket server
func NewServer(addr string, registry *Registry, clock quartz.Clock, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Anyone may connect; the protocol carries no credentials
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		registry:    registry,
		clock:       clock,
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Handler returns the HTTP handler serving /ws and /health, starting the
// connection lifecycle loop on first use.
func (s *Server) Handler() http.Handler {
	s.runOnce.Do(func() { go s.run() })

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start starts the WebSocket server
func (s *Server) Start() error {
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.Handler()}

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the WebSocket server without waiting for in-flight requests
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// Shutdown closes all connections and drains the HTTP listener
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			if ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()

			if ok {
				// Pull the player out of their session; the engine folds
				// their cards and reassigns turn/host as needed.
				sessionID := conn.GetSession()
				if sessionID != "" {
					s.logger.Info("Cleaning up disconnected player", "player", conn.GetName(), "session", sessionID)
					events, err := s.registry.Leave(sessionID, conn.ID())
					if err != nil {
						s.logger.Debug("Disconnect cleanup skipped", "error", err)
					} else {
						s.publish(sessionID, events)
					}
				}
			}
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s, s.clock, s.logger)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// publish fans a session transition's events out to clients. Targeted events
// (the ones carrying a hand) go only to their recipient; everything else is
// broadcast to the session. Order within the slice is preserved per client.
func (s *Server) publish(sessionID string, events []game.Event) {
	for _, ev := range events {
		msg, err := NewMessage(MessageType(ev.EventType()), ev, s.clock.Now())
		if err != nil {
			s.logger.Error("Failed to encode event", "type", ev.EventType(), "error", err)
			continue
		}

		if targeted, ok := ev.(game.TargetedEvent); ok {
			if err := s.SendToPlayer(targeted.Recipient(), msg); err != nil {
				s.logger.Debug("Dropped targeted event", "type", ev.EventType(), "player", targeted.Recipient(), "error", err)
			}
			continue
		}
		s.BroadcastToSession(sessionID, msg)
	}
}

// BroadcastToSession sends a message to all connections in a session
func (s *Server) BroadcastToSession(sessionID string, msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.GetSession() == sessionID {
			if err := conn.SendMessage(msg); err != nil {
				s.logger.Error("Failed to send message to client", "error", err, "player", conn.GetName())
			} else {
				count++
			}
		}
	}

	s.logger.Debug("Broadcasted message to session", "session", sessionID, "type", msg.Type, "recipients", count)
}

// SendToPlayer sends a message to a specific player's connection
func (s *Server) SendToPlayer(playerID string, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.ID() == playerID {
			return conn.SendMessage(msg)
		}
	}

	return fmt.Errorf("player not found: %s", playerID)
}

// ConnectionCount returns the number of live connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

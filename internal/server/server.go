// Package server exposes a recorder over WebSocket. Clients send seat, board
// and action events; every change is broadcast to all clients as a "state"
// message carrying the table view-model.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/handreplayer/internal/game"
	"github.com/lox/handreplayer/internal/recorder"
)

// Server represents the WebSocket server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	recorder    *recorder.Recorder
	logger      *log.Logger
	connections map[*Connection]bool
	unregister  chan *Connection
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	runOnce     sync.Once
	unsubscribe func()
	httpServer  *http.Server
}

// NewServer creates a server for a recorder. It starts broadcasting the
// recorder's changes immediately.
func NewServer(addr string, rec *recorder.Recorder, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// The recorder is a local tool; any origin may connect.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		recorder:    rec,
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]bool),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}
	s.unsubscribe = rec.Subscribe(s.broadcastState)
	return s
}

// Handler returns the HTTP handler serving /ws and /health.
func (s *Server) Handler() http.Handler {
	s.runOnce.Do(func() { go s.run() })

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return nil
	}
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections, closes the open ones and stops
// listening to the recorder.
func (s *Server) Shutdown(ctx context.Context) error {
	s.unsubscribe()
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// run removes connections as they close.
func (s *Server) run() {
	for {
		select {
		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
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

	client := NewConnection(conn, s.logger, s.recorder)
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		_ = client.Close()
		return
	}
	s.connections[client] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)

	client.Start()

	// New clients start from the current state.
	if msg, err := NewMessage(MessageTypeState, s.recorder.View()); err == nil {
		_ = client.SendMessage(msg)
	}

	go func() {
		<-client.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// HealthData is the /health response body.
type HealthData struct {
	Status    string `json:"status"`
	HandID    string `json:"handId"`
	Actions   int    `json:"actions"`
	Replaying bool   `json:"replaying"`
	Clients   int    `json:"clients"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	playing, _, _ := s.recorder.ReplayStatus()
	s.mu.RLock()
	clients := len(s.connections)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(HealthData{
		Status:    "ok",
		HandID:    s.recorder.HandID(),
		Actions:   len(s.recorder.Records()),
		Replaying: playing,
		Clients:   clients,
	})
}

// broadcastState sends the view to every connected client.
func (s *Server) broadcastState(v game.View) {
	msg, err := NewMessage(MessageTypeState, v)
	if err != nil {
		s.logger.Error("Failed to encode state", "error", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Debug("Failed to send state to client", "error", err)
			continue
		}
		count++
	}
	s.logger.Debug("Broadcast state", "street", v.Street, "actions", len(v.Actions), "recipients", count)
}

// ConnectionCount returns the number of connected clients.
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

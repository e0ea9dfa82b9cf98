// Package ws provides the WebSocket transport for the relay: it
// upgrades HTTP connections, decodes inbound JSON frames into typed
// events for the routing engine, and drains session outboxes back to
// clients. The engine never touches raw bytes; framing, decoding, and
// serialization all live here.
package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/relay/internal/config"
	"github.com/cory-johannsen/relay/internal/relay/engine"
)

const shutdownTimeout = 5 * time.Second

// Server is the WebSocket listener. It implements server.Service.
type Server struct {
	cfg        config.WebSocketConfig
	engine     *engine.Engine
	logger     *zap.Logger
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// NewServer creates a WebSocket Server routing inbound events to eng.
//
// Precondition: eng and logger must be non-nil.
func NewServer(cfg config.WebSocketConfig, eng *engine.Engine, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		engine: eng,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleConnect)
	s.httpServer = &http.Server{
		Addr:    cfg.Addr(),
		Handler: mux,
	}
	return s
}

// Handler returns the HTTP handler serving the /ws endpoint.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured address and blocks until Stop is
// called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("websocket listener starting",
		zap.String("addr", s.cfg.Addr()),
	)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = s.httpServer.Shutdown(ctx)
}

// handleConnect upgrades one HTTP request to a WebSocket session.
// The display name arrives as the required "name" query parameter;
// a missing name refuses the connection before the upgrade.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing required name parameter", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("upgrade failed", zap.Error(err))
		return
	}

	sess := s.engine.Connect(name)
	c := &client{
		conn:   conn,
		sess:   sess,
		cfg:    s.cfg,
		logger: s.logger.With(zap.String("session_id", sess.ID)),
	}

	go c.writeLoop()
	c.readLoop(s.engine)
}

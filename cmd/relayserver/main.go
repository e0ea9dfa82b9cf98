// Package main provides the relay server binary: a WebSocket relay
// routing chat messages among connected players by scope (direct,
// party, lobby, global) with per-player mute filtering.
package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/cory-johannsen/relay/internal/config"
	"github.com/cory-johannsen/relay/internal/observability"
	"github.com/cory-johannsen/relay/internal/relay/engine"
	"github.com/cory-johannsen/relay/internal/relay/lobby"
	"github.com/cory-johannsen/relay/internal/relay/mute"
	"github.com/cory-johannsen/relay/internal/relay/party"
	"github.com/cory-johannsen/relay/internal/relay/session"
	"github.com/cory-johannsen/relay/internal/server"
	"github.com/cory-johannsen/relay/internal/transport/ws"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty = defaults plus RELAY_* environment")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting relay server",
		zap.String("ws_addr", cfg.WebSocket.Addr()),
	)

	sessions := session.NewRegistry()
	parties := party.NewDirectory(sessions)
	roster := lobby.NewRoster()
	mutes := mute.NewTable()
	eng := engine.New(sessions, parties, roster, mutes, logger)

	wsServer := ws.NewServer(cfg.WebSocket, eng, logger)

	lc := server.NewLifecycle(logger)
	lc.Add("websocket", wsServer)

	if err := lc.Run(ctx); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}
}

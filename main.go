package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chatrelaygo/internal/chat"
	"chatrelaygo/internal/config"
	"chatrelaygo/internal/http/http_server"
	"chatrelaygo/internal/ws"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Room registry with the bootstrap rooms
	registry := chat.NewRegistry(cfg.DefaultRooms...)

	// 4. WebSockets hub (connection registry + fan-out)
	hub := ws.NewHub()

	// 5. Chat service: presence, room messages, private messages
	chatSvc := chat.NewChatService(registry, hub)

	// 6. Initialize the WS server
	wsSrv := ws.NewWsServer(hub, chatSvc, cfg.WsReadLimit)

	// 7. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv, registry, chatSvc)

	go func() {
		<-ctx.Done()
		if err := httpServer.Dispose(); err != nil {
			Log.Error("Failed to shut the HTTP server down", zap.Error(err))
		}
	}()

	Log.Info("Server is running", zap.Uint16("port", cfg.HttpServerPort))
	if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}

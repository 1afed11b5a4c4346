package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/attartravel/concierge/internal/agent"
	"github.com/attartravel/concierge/internal/auth"
	"github.com/attartravel/concierge/internal/config"
	"github.com/attartravel/concierge/internal/observe"
)

// agentIdentity is the participant name the agent joins rooms under.
const agentIdentity = "concierge-agent"

func main() {
	godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	rooms := roomNames()
	if len(rooms) == 0 {
		logger.Fatal("No rooms to join: pass room names as arguments or set AGENT_ROOMS")
	}

	shutdownMetrics, err := observe.InitProvider(context.Background(), "concierge-agent")
	if err != nil {
		logger.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Scrape endpoint for the agent's own counters.
	metricsAddr := os.Getenv("AGENT_METRICS_ADDR")
	if metricsAddr == "" {
		metricsAddr = ":9464"
	}
	e := echo.New()
	e.HideBanner = true
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	go func() {
		if err := e.Start(metricsAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	backendURL := config.BackendURL()
	engineURL := config.EngineURL()
	issuer := auth.NewTokenIssuer(config.EngineAPIKey(), config.EngineAPISecret())
	binder := agent.NewSessionBinder(backendURL, logger)

	var wg sync.WaitGroup
	for _, roomName := range rooms {
		wg.Add(1)
		go func(roomName string) {
			defer wg.Done()
			runRoom(ctx, roomName, engineURL, backendURL, issuer, binder, logger)
		}(roomName)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Agent is shutting down...")
	cancel()
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	e.Shutdown(shutdownCtx)
	shutdownMetrics(shutdownCtx)

	logger.Info("Agent exited")
}

// runRoom keeps one room session alive, rejoining after transient engine
// disconnects until the process shuts down.
func runRoom(ctx context.Context, roomName, engineURL, backendURL string, issuer *auth.TokenIssuer, binder *agent.SessionBinder, logger *zap.Logger) {
	for {
		if ctx.Err() != nil {
			return
		}

		token, err := issuer.RoomToken(roomName, agentIdentity)
		if err != nil {
			logger.Error("Failed to mint room token", zap.String("room", roomName), zap.Error(err))
			return
		}

		room, err := agent.JoinRoom(ctx, engineURL, roomName, token, logger)
		if err != nil {
			logger.Warn("Failed to join room, retrying",
				zap.String("room", roomName),
				zap.Error(err))
			select {
			case <-time.After(5 * time.Second):
				continue
			case <-ctx.Done():
				return
			}
		}

		session := agent.NewRoomSession(ctx, room, binder, backendURL, logger)
		if err := session.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("Room session ended", zap.String("room", roomName), zap.Error(err))
		}
		room.Close()
	}
}

func roomNames() []string {
	if args := os.Args[1:]; len(args) > 0 {
		return args
	}
	raw := os.Getenv("AGENT_ROOMS")
	if raw == "" {
		return nil
	}
	var rooms []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			rooms = append(rooms, r)
		}
	}
	return rooms
}

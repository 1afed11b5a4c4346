package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/attartravel/concierge/adapters/llm"
	"github.com/attartravel/concierge/adapters/memory"
	adaptermongo "github.com/attartravel/concierge/adapters/mongo"
	"github.com/attartravel/concierge/domain/repositories"
	"github.com/attartravel/concierge/internal/api"
	"github.com/attartravel/concierge/internal/auth"
	"github.com/attartravel/concierge/internal/config"
	"github.com/attartravel/concierge/internal/mail"
	"github.com/attartravel/concierge/internal/observe"
	"github.com/attartravel/concierge/usecase"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	shutdownMetrics, err := observe.InitProvider(context.Background(), "concierge-server")
	if err != nil {
		logger.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	var (
		conversations repositories.ConversationRepository
		sessions      repositories.SessionRepository
		customers     repositories.CustomerRepository
		bookings      repositories.BookingRepository
		mongoClient   *adaptermongo.Client
	)

	if os.Getenv("MONGODB_URI") != "" {
		mongoClient, err = adaptermongo.NewClient(logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		conversations = adaptermongo.NewConversationRepository(mongoClient.Database)
		sessions = adaptermongo.NewSessionRepository(mongoClient.Database)
		customers = adaptermongo.NewCustomerRepository(mongoClient.Database)
		bookings = adaptermongo.NewBookingRepository(mongoClient.Database)
	} else {
		logger.Warn("MONGODB_URI not set, using in-memory storage")
		conversations = memory.NewConversationRepository()
		sessions = memory.NewSessionRepository()
		customers = memory.NewCustomerRepository()
		bookings = memory.NewBookingRepository()
	}

	var model repositories.LargeLanguageModel
	if os.Getenv("GEMINI_API_KEY") != "" {
		gemini, err := llm.NewGeminiLLM(logger, llm.GeminiConfig{})
		if err != nil {
			logger.Fatal("Failed to initialize Gemini", zap.Error(err))
		}
		model = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, using mock assistant")
		model = llm.NewMockClient()
	}

	issuer := auth.NewTokenIssuer(config.EngineAPIKey(), config.EngineAPISecret())
	mailer := mail.NewMailer(config.SMTPConfig(), logger)

	server := api.NewServer(
		usecase.NewAccessService(sessions, issuer, config.EngineURL(), logger),
		usecase.NewTranscriptService(conversations, sessions, logger),
		usecase.NewHistoryService(conversations, logger),
		usecase.NewAccountService(customers, issuer, logger),
		usecase.NewBookingService(bookings, mailer, logger),
		usecase.NewAssistantService(model, conversations, logger),
		logger,
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	server.InitRoutes(e)

	addr := config.ServerAddress()
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if mongoClient != nil {
		mongoClient.Close(ctx)
	}
	shutdownMetrics(ctx)

	logger.Info("Server exited")
}

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/domain/repositories"
	"github.com/attartravel/concierge/usecase"
)

// Server bundles the services behind the HTTP surface.
type Server struct {
	access      *usecase.AccessService
	transcripts *usecase.TranscriptService
	history     *usecase.HistoryService
	accounts    *usecase.AccountService
	bookings    *usecase.BookingService
	assistant   *usecase.AssistantService
	logger      *zap.Logger
}

// NewServer creates the API server.
func NewServer(
	access *usecase.AccessService,
	transcripts *usecase.TranscriptService,
	history *usecase.HistoryService,
	accounts *usecase.AccountService,
	bookings *usecase.BookingService,
	assistant *usecase.AssistantService,
	logger *zap.Logger,
) *Server {
	return &Server{
		access:      access,
		transcripts: transcripts,
		history:     history,
		accounts:    accounts,
		bookings:    bookings,
		assistant:   assistant,
		logger:      logger,
	}
}

// InitRoutes initializes all API routes
func (s *Server) InitRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "concierge-server",
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/get-token", s.getToken)
	e.GET("/session-info/:room", s.sessionInfo)
	e.POST("/transcript", s.storeTranscript)
	e.GET("/conversations", s.getConversations)

	e.POST("/customers/register", s.register)
	e.POST("/customers/login", s.login)

	e.POST("/bookings", s.createBooking)
	e.GET("/bookings", s.listBookings)
	e.POST("/bookings/:id/cancel", s.cancelBooking)
	e.POST("/bookings/:id/reschedule", s.rescheduleBooking)

	e.POST("/chat", s.chat)
}

func (s *Server) getToken(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.RoomName == "" || req.ParticipantName == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "roomName and participantName are required",
		})
	}

	grant, err := s.access.GrantRoomAccess(c.Request().Context(), req.RoomName, req.ParticipantName, req.CustomerEmail, req.Language)
	if err != nil {
		s.logger.Error("Failed to grant room access", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate access token",
		})
	}

	return c.JSON(http.StatusOK, TokenResponse{
		Token:     grant.Token,
		URL:       grant.EngineURL,
		SessionID: grant.Session.ID,
	})
}

func (s *Server) sessionInfo(c echo.Context) error {
	roomName := c.Param("room")

	session, err := s.access.SessionInfo(c.Request().Context(), roomName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "session_not_found",
				Message: "No session for room " + roomName,
			})
		}
		s.logger.Error("Failed to look up session", zap.String("room", roomName), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal_error",
		})
	}

	return c.JSON(http.StatusOK, SessionInfoResponse{
		SessionID:     session.ID,
		RoomName:      session.RoomName,
		CustomerEmail: session.CustomerEmail,
		Status:        string(session.Status),
		Metadata:      SessionMetadata{Language: session.Metadata.Language},
	})
}

func (s *Server) storeTranscript(c echo.Context) error {
	var req TranscriptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.Text == "" || req.Speaker == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "speaker and text are required",
		})
	}

	speaker := entities.Speaker(req.Speaker)
	if speaker != entities.SpeakerUser && speaker != entities.SpeakerAssistant {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_speaker",
			Message: "speaker must be user or assistant",
		})
	}

	identity, err := s.transcripts.Ingest(c.Request().Context(), usecase.TranscriptInput{
		RoomName:      req.RoomName,
		SessionID:     req.SessionID,
		CustomerEmail: req.CustomerEmail,
		Speaker:       speaker,
		Text:          req.Text,
		Language:      req.Language,
	})
	if err != nil {
		s.logger.Error("Failed to store transcript",
			zap.String("room", req.RoomName),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "storage_failed",
		})
	}

	return c.JSON(http.StatusOK, TranscriptResponse{
		Status:        "stored",
		SessionID:     identity.SessionID,
		CustomerEmail: identity.CustomerEmail,
	})
}

func (s *Server) getConversations(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "email query parameter is required",
		})
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_limit",
				Message: "limit must be a non-negative integer",
			})
		}
		limit = parsed
	}

	turns, err := s.history.Turns(c.Request().Context(), email, limit)
	if err != nil {
		s.logger.Error("Failed to load conversations", zap.String("email", email), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal_error",
		})
	}

	if turns == nil {
		turns = []entities.ConversationTurn{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"conversations": turns,
	})
}

func (s *Server) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	customer, token, err := s.accounts.Register(c.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "email_taken",
				Message: "An account with this email already exists",
			})
		}
		s.logger.Error("Registration failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "registration_failed",
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Token: token,
		Email: customer.Email,
		Name:  customer.Name,
	})
}

func (s *Server) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	customer, token, err := s.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "authentication_failed",
				Message: "Invalid email or password",
			})
		}
		s.logger.Error("Login failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal_error",
		})
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		Email: customer.Email,
		Name:  customer.Name,
	})
}

func (s *Server) createBooking(c echo.Context) error {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	booking, err := s.bookings.Create(c.Request().Context(), usecase.BookingRequest{
		CustomerEmail:   req.CustomerEmail,
		ServiceType:     req.ServiceType,
		Destination:     req.Destination,
		DepartureDate:   req.DepartureDate,
		ReturnDate:      req.ReturnDate,
		NumTravelers:    req.NumTravelers,
		ServiceDetails:  req.ServiceDetails,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		s.logger.Warn("Booking creation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "booking_failed",
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, booking)
}

func (s *Server) listBookings(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "email query parameter is required",
		})
	}

	bookings, err := s.bookings.ListByCustomer(c.Request().Context(), email)
	if err != nil {
		s.logger.Error("Failed to list bookings", zap.String("email", email), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal_error",
		})
	}

	if bookings == nil {
		bookings = []*entities.Booking{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"bookings": bookings,
	})
}

func (s *Server) cancelBooking(c echo.Context) error {
	var req CancelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	booking, err := s.bookings.Cancel(c.Request().Context(), c.Param("id"), req.CustomerEmail)
	if err != nil {
		return s.bookingError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

func (s *Server) rescheduleBooking(c echo.Context) error {
	var req RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	booking, err := s.bookings.Reschedule(c.Request().Context(), c.Param("id"), req.CustomerEmail, req.DepartureDate, req.ReturnDate)
	if err != nil {
		return s.bookingError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

func (s *Server) bookingError(c echo.Context, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "booking_not_found",
			Message: "No such booking for this customer",
		})
	}
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "booking_update_failed",
		Message: err.Error(),
	})
}

func (s *Server) chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "text is required",
		})
	}

	reply, err := s.assistant.Chat(c.Request().Context(), req.CustomerEmail, req.SessionID, req.Text, req.Language)
	if err != nil {
		s.logger.Error("Chat failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "chat_failed",
		})
	}

	return c.JSON(http.StatusOK, ChatResponse{Response: reply})
}

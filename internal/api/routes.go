package api

import (
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satori-health/meridia/domain/entities"
	"github.com/satori-health/meridia/domain/repositories"
	"github.com/satori-health/meridia/internal/auth"
	"github.com/satori-health/meridia/internal/websocket"
)

const maxReportBytes = 5 << 20 // 5 MiB upload ceiling

// InitRoutes initializes all API routes
func InitRoutes(
	e *echo.Echo,
	hub *websocket.Hub,
	authenticator *auth.Authenticator,
	store repositories.ContextStore,
	analyzer repositories.ReportAnalyzer,
	logger *zap.Logger,
) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "meridia-server",
		})
	})

	v1 := e.Group("/api/v1")

	v1.POST("/sessions", func(c echo.Context) error {
		return createSession(c, authenticator, logger)
	})
	v1.POST("/sessions/:id/report", func(c echo.Context) error {
		return uploadReport(c, store, analyzer, logger)
	})
	v1.POST("/sessions/:id/vitals", func(c echo.Context) error {
		return ingestVitals(c, store, logger)
	})

	// WebSocket endpoint with JWT validation
	e.GET("/ws", func(c echo.Context) error {
		return websocketWithAuth(hub, c, authenticator, logger)
	})
}

func createSession(c echo.Context, authenticator *auth.Authenticator, logger *zap.Logger) error {
	sessionID := uuid.New().String()

	token, err := authenticator.GenerateSessionToken(sessionID)
	if err != nil {
		logger.Error("Failed to generate session token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate session token",
		})
	}

	logger.Info("Session created", zap.String("session_id", sessionID))
	return c.JSON(http.StatusCreated, CreateSessionResponse{
		SessionID: sessionID,
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
}

func uploadReport(c echo.Context, store repositories.ContextStore, analyzer repositories.ReportAnalyzer, logger *zap.Logger) error {
	sessionID := c.Param("id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "missing_session_id",
		})
	}

	fileHeader, err := c.FormFile("report")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_file",
			Message: "A 'report' file field is required",
		})
	}
	if fileHeader.Size > maxReportBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "file_too_large",
			Message: "Report exceeds the upload size limit",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded report", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "upload_read_failed",
		})
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxReportBytes))
	if err != nil {
		logger.Error("Failed to read uploaded report", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "upload_read_failed",
		})
	}

	analysis, err := analyzer.AnalyzeReport(c.Request().Context(), fileHeader.Filename, content)
	if err != nil {
		logger.Error("Report analysis failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "analysis_failed",
			Message: "Failed to analyze the uploaded report",
		})
	}

	report := entities.ReportSummary{
		FileName:  fileHeader.Filename,
		Analysis:  analysis,
		CreatedAt: time.Now(),
	}
	if err := store.AppendReport(c.Request().Context(), sessionID, report); err != nil {
		logger.Error("Failed to store report", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "storage_failed",
		})
	}

	logger.Info("Report analyzed and stored",
		zap.String("session_id", sessionID),
		zap.String("file_name", fileHeader.Filename))
	return c.JSON(http.StatusOK, ReportUploadResponse{
		FileName: fileHeader.Filename,
		Analysis: analysis,
	})
}

func ingestVitals(c echo.Context, store repositories.ContextStore, logger *zap.Logger) error {
	sessionID := c.Param("id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "missing_session_id",
		})
	}

	var req VitalsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.HeartRateBPM <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_vitals",
			Message: "heart_rate_bpm must be positive",
		})
	}

	vitals := entities.VitalsObservation{
		HeartRateBPM:       req.HeartRateBPM,
		PupilDiameterLeft:  req.PupilDiameterLeft,
		PupilDiameterRight: req.PupilDiameterRight,
		BlinkRate:          req.BlinkRate,
		JustCompleted:      true,
		MeasuredAt:         time.Now(),
	}
	if err := store.AppendVitals(c.Request().Context(), sessionID, vitals); err != nil {
		logger.Error("Failed to store vitals", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "storage_failed",
		})
	}

	logger.Info("Vitals recorded",
		zap.String("session_id", sessionID),
		zap.Float64("heart_rate_bpm", req.HeartRateBPM))
	return c.NoContent(http.StatusAccepted)
}

// websocketWithAuth handles WebSocket connections with JWT authentication.
// Browsers cannot set headers on WebSocket upgrades, so a token query
// parameter is accepted alongside the Authorization header.
func websocketWithAuth(hub *websocket.Hub, c echo.Context, authenticator *auth.Authenticator, logger *zap.Logger) error {
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}
	if token == "" {
		token = c.QueryParam("token")
	}
	if token == "" {
		logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "A session token is required",
		})
	}

	claims, err := authenticator.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired session token",
		})
	}
	if claims.SessionID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_token_claims",
			Message: "Session ID not found in token",
		})
	}

	logger.Info("WebSocket connection authenticated",
		zap.String("session_id", claims.SessionID))
	return websocket.HandleWebSocket(hub, c, claims.SessionID, logger)
}

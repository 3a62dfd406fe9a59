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

	"github.com/satori-health/meridia/adapters/llm"
	"github.com/satori-health/meridia/adapters/memory"
	"github.com/satori-health/meridia/adapters/mongo"
	"github.com/satori-health/meridia/adapters/stt"
	"github.com/satori-health/meridia/adapters/tts"
	"github.com/satori-health/meridia/domain/repositories"
	"github.com/satori-health/meridia/internal/api"
	"github.com/satori-health/meridia/internal/auth"
	"github.com/satori-health/meridia/internal/config"
	"github.com/satori-health/meridia/internal/tools"
	"github.com/satori-health/meridia/internal/websocket"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Speech recognition
	var speechToText repositories.SpeechToText
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		speechToText = stt.NewGoogleSpeechToText(logger)
		logger.Info("Using Google Cloud Speech for transcription")
	} else {
		speechToText = stt.NewMockSpeechToText(logger)
		logger.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, using mock transcription")
	}

	// Response generation and report analysis
	var generator repositories.ResponseGenerator
	var analyzer repositories.ReportAnalyzer
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiGenerator(context.Background(), llm.GeminiConfig{APIKey: cfg.GeminiAPIKey}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Gemini", zap.Error(err))
		}
		generator = gemini
		analyzer = gemini
	} else {
		mock := llm.NewMockGenerator()
		generator = mock
		analyzer = mock
		logger.Warn("GEMINI_API_KEY not set, using mock generator")
	}

	// Speech synthesis is optional; without it sessions are text only
	var textToSpeech repositories.TextToSpeech
	if ttsConfig := tts.NewElevenLabsConfigFromEnv(); ttsConfig.APIKey != "" {
		elevenLabs, err := tts.NewElevenLabsTTS(ttsConfig, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Eleven Labs", zap.Error(err))
		}
		textToSpeech = elevenLabs
	} else {
		logger.Warn("ELEVEN_LABS_API_KEY not set, voice output disabled")
	}

	// Session context storage
	var store repositories.ContextStore
	if cfg.MongoURI != "" {
		client, err := mongo.NewClient(cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			client.Close(ctx)
		}()
		store = mongo.NewContextStore(client.Database)
	} else {
		store = memory.NewContextStore()
		logger.Warn("MONGODB_URI not set, session context is in-memory only")
	}

	dispatcher := tools.NewDispatcher(logger)
	authenticator := auth.NewAuthenticator(cfg.JWTSecret)

	audioConfig := repositories.AudioConfig{
		SampleRate: cfg.STTSampleRate,
		Encoding:   cfg.STTEncoding,
		Language:   cfg.STTLanguage,
	}

	hub := websocket.NewHub(speechToText, generator, textToSpeech, store, dispatcher, audioConfig, logger)
	go hub.Run()

	api.InitRoutes(e, hub, authenticator, store, analyzer, logger)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()
	logger.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

package config

import (
	"os"
	"strconv"
)

// Config carries every environment-driven setting the server needs.
type Config struct {
	Port          string
	JWTSecret     string
	GeminiAPIKey  string
	MongoURI      string
	MongoDatabase string

	STTLanguage   string
	STTSampleRate int
	STTEncoding   string
}

// Load reads configuration from the environment, applying development
// defaults where a value is absent.
func Load() Config {
	return Config{
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "development-secret"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "meridia"),
		STTLanguage:   getEnv("STT_LANGUAGE", "en-US"),
		STTSampleRate: getEnvInt("STT_SAMPLE_RATE", 16000),
		STTEncoding:   getEnv("STT_ENCODING", "linear16"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

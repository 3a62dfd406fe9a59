package tts

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestNewElevenLabsTTS(t *testing.T) {
	logger := zaptest.NewLogger(t)

	os.Unsetenv("ELEVEN_LABS_API_KEY")
	config := NewElevenLabsConfigFromEnv()
	_, err := NewElevenLabsTTS(config, logger)
	if err == nil {
		t.Error("Expected error when API key is not set")
	}

	os.Setenv("ELEVEN_LABS_API_KEY", "test-api-key")
	defer os.Unsetenv("ELEVEN_LABS_API_KEY")

	config = NewElevenLabsConfigFromEnv()
	tts, err := NewElevenLabsTTS(config, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	if tts.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", tts.apiKey)
	}
	if tts.voiceID != defaultVoiceID {
		t.Errorf("Expected default voice ID '%s', got '%s'", defaultVoiceID, tts.voiceID)
	}
	if tts.outputFormat != defaultOutputFormat {
		t.Errorf("Expected default output format '%s', got '%s'", defaultOutputFormat, tts.outputFormat)
	}
}

func TestValidateElevenLabsConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  ElevenLabsConfig
		wantErr bool
	}{
		{"valid minimal", ElevenLabsConfig{APIKey: "k"}, false},
		{"missing api key", ElevenLabsConfig{}, true},
		{"stability too high", ElevenLabsConfig{APIKey: "k", Stability: 1.5}, true},
		{"clarity negative", ElevenLabsConfig{APIKey: "k", Clarity: -0.1}, true},
		{"full valid", ElevenLabsConfig{APIKey: "k", Stability: 0.4, Clarity: 0.8}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateElevenLabsConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateElevenLabsConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSampleRateFromFormat(t *testing.T) {
	tests := []struct {
		format string
		want   int
	}{
		{"pcm_24000", 24000},
		{"pcm_16000", 16000},
		{"mp3_44100_128", 0},
		{"pcm_abc", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := sampleRateFromFormat(tt.format); got != tt.want {
			t.Errorf("sampleRateFromFormat(%q) = %d, want %d", tt.format, got, tt.want)
		}
	}
}

func TestElevenLabsTTS_Synthesize(t *testing.T) {
	logger := zaptest.NewLogger(t)
	audio := []byte{0x01, 0x02, 0x03, 0x04}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "test-api-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("Accept") != "audio/pcm" {
			t.Errorf("Accept = %q, want audio/pcm", r.Header.Get("Accept"))
		}
		w.Write(audio)
	}))
	defer server.Close()

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL,
	}, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	got, err := tts.Synthesize(context.Background(), "hello patient")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if !bytes.Equal(got, audio) {
		t.Errorf("Synthesize() = %v, want %v", got, audio)
	}

	if _, err := tts.Synthesize(context.Background(), "   "); err == nil {
		t.Error("Expected error for empty text")
	}

	if tts.SampleRate() != 24000 {
		t.Errorf("SampleRate() = %d, want 24000", tts.SampleRate())
	}
}

func TestElevenLabsTTS_SynthesizeAPIError(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "k", APIBaseURL: server.URL}, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	if _, err := tts.Synthesize(context.Background(), "hi"); err == nil {
		t.Error("Expected error on non-200 response")
	}
}

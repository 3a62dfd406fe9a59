package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "JWT_SECRET", "STT_SAMPLE_RATE", "STT_LANGUAGE"} {
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.STTSampleRate != 16000 {
		t.Errorf("STTSampleRate = %d, want 16000", cfg.STTSampleRate)
	}
	if cfg.STTLanguage != "en-US" {
		t.Errorf("STTLanguage = %q, want en-US", cfg.STTLanguage)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("STT_SAMPLE_RATE", "24000")
	defer os.Unsetenv("PORT")
	defer os.Unsetenv("STT_SAMPLE_RATE")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.STTSampleRate != 24000 {
		t.Errorf("STTSampleRate = %d, want 24000", cfg.STTSampleRate)
	}
}

func TestLoadIgnoresInvalidInt(t *testing.T) {
	os.Setenv("STT_SAMPLE_RATE", "not-a-number")
	defer os.Unsetenv("STT_SAMPLE_RATE")

	if cfg := Load(); cfg.STTSampleRate != 16000 {
		t.Errorf("STTSampleRate = %d, want fallback 16000", cfg.STTSampleRate)
	}
}

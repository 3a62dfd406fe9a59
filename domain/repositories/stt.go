package repositories

import (
	"context"

	"github.com/satori-health/meridia/domain/entities"
)

// SpeechToText abstracts streaming speech recognition services.
type SpeechToText interface {
	// OpenStream starts a streaming transcription session. The backend
	// connection may be established asynchronously; the returned stream
	// accepts audio immediately and buffers it until the backend is ready.
	OpenStream(ctx context.Context, config AudioConfig) (TranscriptStream, error)
}

// AudioConfig represents audio configuration for speech recognition.
type AudioConfig struct {
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
	Language   string `json:"language"`
}

// TranscriptStream is one live recognition session.
type TranscriptStream interface {
	// OnTranscript registers the single transcript subscriber. It must be
	// called before any audio is sent and at most once.
	OnTranscript(fn func(entities.TranscriptEvent))
	// SendAudio accepts raw audio at any time, including before the
	// backend session is ready. It never fails; backend errors put the
	// stream back into buffering mode and are logged internally.
	SendAudio(data []byte)
	// Close tears down the backend session and discards buffered audio.
	Close()
}

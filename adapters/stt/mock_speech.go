package stt

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/satori-health/meridia/domain/entities"
	"github.com/satori-health/meridia/domain/repositories"
)

// MockSpeechToText is a placeholder recognizer for local development
// without Google credentials. It emits a canned interim and final
// transcript once enough audio has arrived.
type MockSpeechToText struct {
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*MockSpeechToText)(nil)

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{logger: logger}
}

func (s *MockSpeechToText) OpenStream(ctx context.Context, cfg repositories.AudioConfig) (repositories.TranscriptStream, error) {
	s.logger.Info("Opening mock transcription stream",
		zap.Int("sampleRate", cfg.SampleRate),
		zap.String("encoding", cfg.Encoding),
		zap.String("language", cfg.Language))
	return &mockStream{logger: s.logger}, nil
}

type mockStream struct {
	logger *zap.Logger

	mu       sync.Mutex
	callback func(entities.TranscriptEvent)
	received int
	emitted  bool
	closed   bool
}

func (m *mockStream) OnTranscript(fn func(entities.TranscriptEvent)) {
	m.mu.Lock()
	m.callback = fn
	m.mu.Unlock()
}

func (m *mockStream) SendAudio(data []byte) {
	m.mu.Lock()
	if m.closed || m.emitted {
		m.mu.Unlock()
		return
	}
	m.received += len(data)
	ready := m.received > 8000 && m.callback != nil
	if ready {
		m.emitted = true
	}
	cb := m.callback
	m.mu.Unlock()

	if !ready {
		return
	}
	cb(entities.TranscriptEvent{Text: "I have been having", IsFinal: false, Timestamp: time.Now()})
	cb(entities.TranscriptEvent{Text: "I have been having headaches for a few days.", IsFinal: true, Timestamp: time.Now()})
}

func (m *mockStream) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.logger.Debug("Closed mock transcription stream")
}

package stt

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/satori-health/meridia/domain/entities"
	"github.com/satori-health/meridia/domain/repositories"
	"github.com/satori-health/meridia/internal/audio"
)

const (
	// flushChunkDelay paces the buffered-audio flush so the backend is
	// not hit with back-to-back bursts.
	flushChunkDelay = 10 * time.Millisecond

	// heartbeatInterval keeps an idle backend stream from timing out.
	heartbeatInterval = 5 * time.Second
)

// result is one normalized observation from the recognition backend.
type result struct {
	Text  string
	Final bool
}

// recognizeStream is the backend-specific surface of one streaming
// recognition session. Send with empty audio acts as a keep-alive.
type recognizeStream interface {
	Send(audio []byte) error
	Recv() (result, error)
	CloseSend() error
	Close() error
}

// dialFunc establishes a backend session. It may block; the stream dials
// in the background while audio accumulates in the frame buffer.
type dialFunc func(ctx context.Context, cfg repositories.AudioConfig) (recognizeStream, error)

// stream adapts one backend recognition session to the TranscriptStream
// contract. Audio sent before the backend is ready lands in a bounded
// frame buffer (drop-newest on overflow) and is flushed in arrival order
// once the connection is up; after that audio is chunk-split and
// forwarded immediately. A backend error flips the stream back to
// buffering; SendAudio itself never fails.
type stream struct {
	logger *zap.Logger
	cfg    repositories.AudioConfig
	dial   dialFunc

	ctx    context.Context
	cancel context.CancelFunc

	heartbeatEvery time.Duration

	mu       sync.Mutex
	backend  recognizeStream
	buffer   *audio.FrameBuffer
	callback func(entities.TranscriptEvent)
	ready    bool
	closed   bool
	lastSend time.Time
}

var _ repositories.TranscriptStream = (*stream)(nil)

func newStream(ctx context.Context, logger *zap.Logger, cfg repositories.AudioConfig, dial dialFunc) *stream {
	return newStreamWithHeartbeat(ctx, logger, cfg, dial, heartbeatInterval)
}

func newStreamWithHeartbeat(ctx context.Context, logger *zap.Logger, cfg repositories.AudioConfig, dial dialFunc, every time.Duration) *stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &stream{
		logger:         logger,
		cfg:            cfg,
		dial:           dial,
		ctx:            ctx,
		cancel:         cancel,
		heartbeatEvery: every,
		buffer:         audio.NewFrameBuffer(audio.DefaultFrameCapacity),
	}
	go s.connect()
	return s
}

// OnTranscript registers the single transcript subscriber.
func (s *stream) OnTranscript(fn func(entities.TranscriptEvent)) {
	s.mu.Lock()
	s.callback = fn
	s.mu.Unlock()
}

// SendAudio accepts raw audio at any time. Before readiness the frame is
// buffered; afterwards it is chunk-split and forwarded. Errors put the
// stream back into buffering mode instead of propagating to the caller.
func (s *stream) SendAudio(data []byte) {
	if len(data) == 0 {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if !s.ready {
		if !s.buffer.Push(data) {
			s.logger.Debug("Frame buffer full, dropping newest frame",
				zap.Int("size", len(data)))
		}
		s.mu.Unlock()
		return
	}
	backend := s.backend
	s.lastSend = time.Now()
	s.mu.Unlock()

	for _, chunk := range audio.SplitChunks(data, audio.MaxChunkBytes) {
		if err := backend.Send(chunk); err != nil {
			s.logger.Warn("Audio forward failed, resuming buffering", zap.Error(err))
			s.markNotReady()
			return
		}
	}
}

// Close tears down the backend session and discards buffered audio.
func (s *stream) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.ready = false
	backend := s.backend
	s.backend = nil
	s.mu.Unlock()

	s.cancel()
	s.buffer.Drain()

	if backend != nil {
		if err := backend.CloseSend(); err != nil {
			s.logger.Debug("CloseSend failed", zap.Error(err))
		}
		if err := backend.Close(); err != nil {
			s.logger.Debug("Backend close failed", zap.Error(err))
		}
	}
}

func (s *stream) connect() {
	backend, err := s.dial(s.ctx, s.cfg)
	if err != nil {
		if s.ctx.Err() == nil {
			s.logger.Error("Failed to open recognition backend", zap.Error(err))
		}
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		backend.CloseSend()
		backend.Close()
		return
	}
	s.backend = backend
	s.mu.Unlock()

	go s.receiveLoop(backend)
	go s.heartbeatLoop(backend)

	s.flushBufferedAudio(backend)
}

// flushBufferedAudio drains buffered frames in arrival order, chunk-split
// and paced, then marks the stream ready. Frames arriving mid-flush keep
// buffering and are picked up by the next drain pass.
func (s *stream) flushBufferedAudio(backend recognizeStream) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		frames := s.buffer.Drain()
		if len(frames) == 0 {
			s.ready = true
			s.lastSend = time.Now()
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		for _, frame := range frames {
			for _, chunk := range audio.SplitChunks(frame, audio.MaxChunkBytes) {
				if err := backend.Send(chunk); err != nil {
					s.logger.Warn("Buffered flush failed", zap.Error(err))
					return
				}
				time.Sleep(flushChunkDelay)
			}
		}
	}
}

func (s *stream) receiveLoop(backend recognizeStream) {
	for {
		res, err := backend.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			if s.ctx.Err() == nil {
				s.logger.Warn("Recognition receive failed", zap.Error(err))
			}
			s.markNotReady()
			return
		}
		if res.Text == "" {
			continue
		}

		s.mu.Lock()
		cb := s.callback
		s.mu.Unlock()
		if cb == nil {
			continue
		}
		cb(entities.TranscriptEvent{
			Text:      res.Text,
			IsFinal:   res.Final,
			Timestamp: time.Now(),
		})
	}
}

// heartbeatLoop sends an empty audio frame while the session is open and
// idle. Failures are logged, never escalated.
func (s *stream) heartbeatLoop(backend recognizeStream) {
	ticker := time.NewTicker(s.heartbeatEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			idle := s.ready && time.Since(s.lastSend) >= s.heartbeatEvery
			s.mu.Unlock()
			if !idle {
				continue
			}
			if err := backend.Send(nil); err != nil {
				s.logger.Warn("Keep-alive failed", zap.Error(err))
			}
		}
	}
}

func (s *stream) markNotReady() {
	s.mu.Lock()
	s.ready = false
	s.mu.Unlock()
}

func (s *stream) isReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/satori-health/meridia/domain/entities"
	"github.com/satori-health/meridia/domain/repositories"
	"github.com/satori-health/meridia/internal/assembler"
)

const (
	greetingUtterance = "Hi, I'm Meridia. You can talk to me about your symptoms, upload a report, or ask me to measure your vitals on camera."
	greetingIntent    = "greeting"

	genericProcessError = "failed to process request"

	// finalQueueSize bounds pending final transcripts per session. The
	// queue only fills if the generator is slower than the speaker for
	// many turns in a row; overflow drops the newest final with a log.
	finalQueueSize = 16

	pipelineTimeout  = 60 * time.Second
	synthesisTimeout = 30 * time.Second
)

// outbound is the write side of one client channel. Send reports false
// when the channel is closed or its queue is full, so late replies can be
// dropped instead of delivered to a dead peer.
type outbound interface {
	Send(msg WriteData) bool
}

// Controller owns one channel's entire session lifecycle: it sequences
// the transcription stream, the response generator, and the optional
// synthesizer, and emits all outbound protocol messages.
//
// Final-transcript processing is serialized per session: one pipeline
// goroutine drains a FIFO queue, so replies always leave in the order
// their transcripts were finalized.
type Controller struct {
	out    outbound
	hub    *Hub
	logger *zap.Logger

	mu      sync.Mutex
	session entities.Session
	stream  repositories.TranscriptStream
	interim string
	history []string

	finals    chan string
	done      chan struct{}
	closeOnce sync.Once
}

func newController(out outbound, sessionID string, hub *Hub, logger *zap.Logger) *Controller {
	c := &Controller{
		out:     out,
		hub:     hub,
		logger:  logger,
		session: entities.Session{ID: sessionID},
		finals:  make(chan string, finalQueueSize),
		done:    make(chan struct{}),
	}
	go c.pipelineLoop()
	return c
}

// HandleControl processes one inbound text frame. Malformed frames are
// logged and dropped; the channel is otherwise unaffected.
func (c *Controller) HandleControl(raw []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.logger.Warn("Dropping malformed control message", zap.Error(err))
		return
	}
	if msg.Type != MessageTypeControl {
		c.logger.Warn("Dropping message with unknown type", zap.String("type", msg.Type))
		return
	}

	switch msg.Action {
	case ActionStart:
		c.handleStart()
	case ActionStop:
		c.handleStop()
	case ActionSetSessionID:
		c.handleSetSessionID(msg.SessionID)
	default:
		c.logger.Warn("Unknown control action", zap.String("action", msg.Action))
	}
}

// HandleAudio forwards one binary audio frame to the transcription
// stream. Audio received while the session is idle is discarded.
func (c *Controller) HandleAudio(data []byte) {
	c.mu.Lock()
	active := c.session.Active
	stream := c.stream
	c.mu.Unlock()

	if !active || stream == nil {
		c.logger.Debug("Discarding audio outside active session", zap.Int("size", len(data)))
		return
	}
	stream.SendAudio(data)
}

// Close releases all per-session resources. Safe to call more than once;
// invoked when the channel closes for any reason.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		stream := c.stream
		c.stream = nil
		c.session.Active = false
		c.mu.Unlock()

		if stream != nil {
			stream.Close()
		}
		close(c.done)
		c.logger.Info("Session controller closed", zap.String("sessionID", c.SessionID()))
	})
}

// SessionID returns the current session identifier.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ID
}

func (c *Controller) handleStart() {
	c.mu.Lock()
	if !c.session.Activate() {
		c.mu.Unlock()
		c.logger.Info("Ignoring start for already active session",
			zap.String("sessionID", c.session.ID))
		return
	}
	sessionID := c.session.ID
	greet := c.session.MarkGreeted()
	c.mu.Unlock()

	stream, err := c.hub.stt.OpenStream(context.Background(), c.hub.audioConfig)
	if err != nil {
		// The conversation continues without transcription.
		c.logger.Error("Failed to open transcription stream",
			zap.String("sessionID", sessionID),
			zap.Error(err))
	} else {
		stream.OnTranscript(c.onTranscript)
		c.mu.Lock()
		c.stream = stream
		c.mu.Unlock()
	}

	c.out.Send(newStatusMessage(StatusSessionStarted))
	c.logger.Info("Session started", zap.String("sessionID", sessionID))

	if greet {
		c.out.Send(newReplyMessage(entities.StructuredReply{
			Utterance: greetingUtterance,
			Intent:    greetingIntent,
		}))
		if c.hub.tts != nil {
			go c.sendUtteranceAudio(greetingUtterance)
		}
	}
}

func (c *Controller) handleStop() {
	c.mu.Lock()
	if !c.session.Deactivate() {
		c.mu.Unlock()
		c.logger.Info("Ignoring stop for inactive session",
			zap.String("sessionID", c.session.ID))
		return
	}
	stream := c.stream
	c.stream = nil
	c.interim = ""
	sessionID := c.session.ID
	c.mu.Unlock()

	if stream != nil {
		stream.Close()
	}
	c.out.Send(newStatusMessage(StatusSessionStopped))
	c.logger.Info("Session stopped", zap.String("sessionID", sessionID))
}

func (c *Controller) handleSetSessionID(id string) {
	if id == "" {
		c.logger.Warn("Ignoring set_session_id with empty identifier")
		return
	}
	c.mu.Lock()
	previous := c.session.ID
	c.session.Rebind(id)
	c.mu.Unlock()

	c.logger.Info("Session identifier rebound",
		zap.String("previous", previous),
		zap.String("sessionID", id))
}

// onTranscript receives normalized transcript events from the adapter.
// An interim event replaces the prior interim; a final event is appended
// to history and queued for exactly one processing pass.
func (c *Controller) onTranscript(ev entities.TranscriptEvent) {
	c.mu.Lock()
	if ev.IsFinal {
		c.history = append(c.history, ev.Text)
		c.interim = ""
	} else {
		c.interim = ev.Text
	}
	c.mu.Unlock()

	c.out.Send(newTranscriptMessage(ev))

	if !ev.IsFinal || ev.Text == "" {
		return
	}
	select {
	case c.finals <- ev.Text:
	default:
		c.logger.Warn("Final transcript queue full, dropping",
			zap.String("text", ev.Text))
	}
}

func (c *Controller) pipelineLoop() {
	for {
		select {
		case <-c.done:
			return
		case text := <-c.finals:
			c.processFinalTranscript(text)
		}
	}
}

// processFinalTranscript runs the context-assembly and generation
// pipeline for one non-empty final transcript. The reply is emitted
// first; synthesis, vitals-consent signaling, and tool dispatch are
// independent post steps whose failures never roll back the reply.
func (c *Controller) processFinalTranscript(text string) {
	if text == "" {
		return
	}

	c.mu.Lock()
	sessionID := c.session.ID
	active := c.session.Active
	c.mu.Unlock()
	if !active {
		c.logger.Warn("Skipping final transcript with no active session",
			zap.String("sessionID", sessionID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
	defer cancel()

	snapshot, err := c.hub.store.Read(ctx, sessionID)
	if err != nil {
		c.logger.Error("Failed to read session context, proceeding without it",
			zap.String("sessionID", sessionID),
			zap.Error(err))
		snapshot = entities.ContextSnapshot{}
	}
	// An old measurement is history, not a fresh result.
	if lv := snapshot.LatestVitals; lv != nil && !lv.JustMeasured(time.Now()) {
		lv.JustCompleted = false
	}

	prompt := assembler.Build(text, snapshot)

	reply, err := c.hub.generator.Generate(ctx, prompt)
	if err != nil {
		c.logger.Error("Response generation failed",
			zap.String("sessionID", sessionID),
			zap.Error(err))
		c.out.Send(newErrorMessage(genericProcessError))
		return
	}

	if !c.out.Send(newReplyMessage(reply)) {
		c.logger.Info("Channel closed, dropping late reply",
			zap.String("sessionID", sessionID))
		return
	}

	if c.hub.tts != nil {
		c.sendUtteranceAudio(reply.Utterance)
	}
	c.signalVitalsConsent(reply)
	c.dispatchToolAction(ctx, reply)
}

// sendUtteranceAudio synthesizes an utterance and emits the audio
// message. Failures are logged and skipped; the text reply was already
// delivered.
func (c *Controller) sendUtteranceAudio(utterance string) {
	ctx, cancel := context.WithTimeout(context.Background(), synthesisTimeout)
	defer cancel()

	pcm, err := c.hub.tts.Synthesize(ctx, utterance)
	if err != nil {
		c.logger.Error("Speech synthesis failed", zap.Error(err))
		return
	}
	c.out.Send(newAudioMessage(pcm, c.hub.tts.SampleRate()))
}

func (c *Controller) signalVitalsConsent(reply entities.StructuredReply) {
	switch {
	case reply.WantsVitalsStart():
		c.out.Send(newVitalsStartMessage())
	case reply.WantsVitalsDecline():
		c.out.Send(newVitalsDeclinedMessage())
	}
}

// dispatchToolAction executes a recognized tool action and forwards any
// resulting camera command. Unrecognized operations are silently ignored.
func (c *Controller) dispatchToolAction(ctx context.Context, reply entities.StructuredReply) {
	if reply.ToolAction == nil || c.hub.tools == nil {
		return
	}
	if !c.hub.tools.CanHandle(reply.ToolAction.Operation) {
		c.logger.Debug("Ignoring unrecognized tool action",
			zap.String("operation", reply.ToolAction.Operation))
		return
	}

	result, err := c.hub.tools.Execute(ctx, *reply.ToolAction)
	if err != nil {
		c.logger.Error("Tool dispatch failed",
			zap.String("operation", reply.ToolAction.Operation),
			zap.Error(err))
		return
	}
	if result.CameraCommand != nil {
		c.out.Send(newCameraCommandMessage(result.CameraCommand))
	}
}

// InterimTranscript returns the current interim transcript view.
func (c *Controller) InterimTranscript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interim
}

// FinalTranscripts returns the finalized transcript history.
func (c *Controller) FinalTranscripts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

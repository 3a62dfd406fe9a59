package websocket

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gorilla/websocket"

	"github.com/satori-health/meridia/domain/entities"
)

// Inbound control actions.
const (
	MessageTypeControl = "control"

	ActionStart        = "start"
	ActionStop         = "stop"
	ActionSetSessionID = "set_session_id"
)

// Outbound message types.
const (
	MessageTypeTranscript      = "transcript"
	MessageTypeLLMResponse     = "llm_response"
	MessageTypeAudio           = "audio"
	MessageTypeStatus          = "status"
	MessageTypeError           = "error"
	MessageTypeStartVitals     = "start_video_vitals"
	MessageTypeVitalsDeclined  = "vitals_declined"
	MessageTypeCameraCommand   = "camera_command"
)

const (
	StatusSessionStarted = "session_started"
	StatusSessionStopped = "session_stopped"
)

// InboundMessage is a JSON control message from the client. Binary frames
// carry raw audio and never reach this type.
type InboundMessage struct {
	Type      string `json:"type"`
	Action    string `json:"action,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// TranscriptPayload mirrors one transcript event on the wire.
type TranscriptPayload struct {
	Text      string `json:"text"`
	IsFinal   bool   `json:"isFinal"`
	Timestamp int64  `json:"timestamp"`
}

// AudioPayload carries synthesized speech to the client.
type AudioPayload struct {
	Data       string `json:"data"` // base64 PCM
	Format     string `json:"format"`
	SampleRate int    `json:"sampleRate"`
}

// OutboundMessage is the envelope for every JSON message sent to the
// client. Exactly one payload field is set per message type.
type OutboundMessage struct {
	Type          string                    `json:"type"`
	Transcript    *TranscriptPayload        `json:"transcript,omitempty"`
	LLMResponse   *entities.StructuredReply `json:"llmResponse,omitempty"`
	Audio         *AudioPayload             `json:"audio,omitempty"`
	Status        string                    `json:"status,omitempty"`
	Error         string                    `json:"error,omitempty"`
	CameraCommand map[string]interface{}    `json:"cameraCommand,omitempty"`
}

func marshalMessage(msg OutboundMessage) WriteData {
	payload, _ := json.Marshal(msg)
	return WriteData{Type: websocket.TextMessage, Payload: payload}
}

func newTranscriptMessage(ev entities.TranscriptEvent) WriteData {
	return marshalMessage(OutboundMessage{
		Type: MessageTypeTranscript,
		Transcript: &TranscriptPayload{
			Text:      ev.Text,
			IsFinal:   ev.IsFinal,
			Timestamp: ev.Timestamp.UnixMilli(),
		},
	})
}

func newReplyMessage(reply entities.StructuredReply) WriteData {
	return marshalMessage(OutboundMessage{
		Type:        MessageTypeLLMResponse,
		LLMResponse: &reply,
	})
}

func newAudioMessage(pcm []byte, sampleRate int) WriteData {
	return marshalMessage(OutboundMessage{
		Type: MessageTypeAudio,
		Audio: &AudioPayload{
			Data:       base64.StdEncoding.EncodeToString(pcm),
			Format:     "pcm_s16le",
			SampleRate: sampleRate,
		},
	})
}

func newStatusMessage(status string) WriteData {
	return marshalMessage(OutboundMessage{Type: MessageTypeStatus, Status: status})
}

func newErrorMessage(message string) WriteData {
	return marshalMessage(OutboundMessage{Type: MessageTypeError, Error: message})
}

func newVitalsStartMessage() WriteData {
	return marshalMessage(OutboundMessage{Type: MessageTypeStartVitals})
}

func newVitalsDeclinedMessage() WriteData {
	return marshalMessage(OutboundMessage{Type: MessageTypeVitalsDeclined})
}

func newCameraCommandMessage(cmd map[string]interface{}) WriteData {
	return marshalMessage(OutboundMessage{Type: MessageTypeCameraCommand, CameraCommand: cmd})
}

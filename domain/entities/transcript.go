package entities

import "time"

// TranscriptEvent is one normalized observation from the transcription
// backend. Interim events (IsFinal false) are subject to revision and
// replace the previous interim event in any transcript view; final events
// are appended permanently.
type TranscriptEvent struct {
	Text      string    `json:"text"`
	IsFinal   bool      `json:"isFinal"`
	Timestamp time.Time `json:"timestamp"`
}

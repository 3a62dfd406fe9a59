package repositories

import "context"

// TextToSpeech converts an utterance into raw PCM audio. The service is
// optional: an unconfigured synthesizer is represented by a nil interface
// value, not an error.
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	// SampleRate reports the PCM sample rate of synthesized audio.
	SampleRate() int
}

package stt

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/satori-health/meridia/domain/repositories"
)

// GoogleSpeechToText opens streaming recognition sessions against Google
// Cloud Speech. Credentials come from the ambient application-default
// environment.
type GoogleSpeechToText struct {
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

func NewGoogleSpeechToText(logger *zap.Logger) *GoogleSpeechToText {
	return &GoogleSpeechToText{logger: logger}
}

// OpenStream returns immediately; the gRPC session is dialed in the
// background while early audio accumulates in the stream's frame buffer.
func (g *GoogleSpeechToText) OpenStream(ctx context.Context, cfg repositories.AudioConfig) (repositories.TranscriptStream, error) {
	return newStream(ctx, g.logger, cfg, dialGoogle), nil
}

func dialGoogle(ctx context.Context, cfg repositories.AudioConfig) (recognizeStream, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	stream, err := client.StreamingRecognize(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to open streaming recognize: %w", err)
	}

	req := &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        audioEncoding(cfg.Encoding),
					SampleRateHertz: int32(cfg.SampleRate),
					LanguageCode:    cfg.Language,
				},
				InterimResults: true,
			},
		},
	}
	if err := stream.Send(req); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to send streaming config: %w", err)
	}

	return &googleStream{client: client, stream: stream}, nil
}

// googleStream adapts the generated gRPC stream to recognizeStream.
type googleStream struct {
	client *speech.Client
	stream speechpb.Speech_StreamingRecognizeClient
}

func (g *googleStream) Send(audio []byte) error {
	return g.stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audio,
		},
	})
}

func (g *googleStream) Recv() (result, error) {
	resp, err := g.stream.Recv()
	if err != nil {
		return result{}, err
	}
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		return result{
			Text:  r.Alternatives[0].Transcript,
			Final: r.IsFinal,
		}, nil
	}
	return result{}, nil
}

func (g *googleStream) CloseSend() error {
	return g.stream.CloseSend()
}

func (g *googleStream) Close() error {
	return g.client.Close()
}

func audioEncoding(encoding string) speechpb.RecognitionConfig_AudioEncoding {
	switch strings.ToLower(encoding) {
	case "linear16", "pcm", "pcm_s16le":
		return speechpb.RecognitionConfig_LINEAR16
	case "flac":
		return speechpb.RecognitionConfig_FLAC
	case "mulaw":
		return speechpb.RecognitionConfig_MULAW
	case "ogg_opus", "opus":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "webm_opus":
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_LINEAR16
	}
}

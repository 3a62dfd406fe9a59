package repositories

import (
	"context"

	"github.com/satori-health/meridia/domain/entities"
)

// ResponseGenerator turns an augmented prompt into a structured reply.
type ResponseGenerator interface {
	// Generate returns a structured reply for the prompt. Implementations
	// must not surface parse failures: unparsable model output degrades to
	// a reply whose utterance is the raw text with the fallback intent.
	// A returned error means the backend itself failed.
	Generate(ctx context.Context, prompt string) (entities.StructuredReply, error)
}

// ReportAnalyzer produces a textual analysis of an uploaded document.
type ReportAnalyzer interface {
	AnalyzeReport(ctx context.Context, fileName string, content []byte) (string, error)
}

package llm

import (
	"context"
	"fmt"

	"github.com/satori-health/meridia/domain/entities"
	"github.com/satori-health/meridia/domain/repositories"
)

// MockGenerator is a placeholder generator for local development without
// a Gemini API key.
type MockGenerator struct{}

var (
	_ repositories.ResponseGenerator = (*MockGenerator)(nil)
	_ repositories.ReportAnalyzer    = (*MockGenerator)(nil)
)

// NewMockGenerator creates a new mock generator
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate implements repositories.ResponseGenerator
func (g *MockGenerator) Generate(ctx context.Context, prompt string) (entities.StructuredReply, error) {
	return entities.StructuredReply{
		Utterance: "Thank you for telling me. Could you describe when the symptoms started?",
		Intent:    entities.IntentGeneralConversation,
	}, nil
}

// AnalyzeReport implements repositories.ReportAnalyzer
func (g *MockGenerator) AnalyzeReport(ctx context.Context, fileName string, content []byte) (string, error) {
	return fmt.Sprintf("Summary of %s: the report was received and contains %d characters of content. No automated analysis is configured.", fileName, len(content)), nil
}

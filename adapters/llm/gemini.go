package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satori-health/meridia/domain/entities"
	"github.com/satori-health/meridia/domain/repositories"
)

const (
	defaultModel          = "gemini-2.0-flash"
	defaultTemperature    = 0.7
	defaultTopP           = 0.9
	defaultMaxTokens      = 1024
	defaultTimeoutSeconds = 45
)

const systemPrompt = `You are Meridia, a calm and professional medical voice assistant.
You help patients describe their symptoms, understand uploaded medical reports,
and review freshly measured vital signs. You never diagnose; you inform and,
when warranted, recommend seeing a clinician.

Respond with a single JSON object and nothing else:
{
  "utterance": "<what you say to the patient, plain spoken language>",
  "intent": "general_conversation" | "vitals_consent_granted" | "vitals_consent_declined",
  "tool_action": {"operation": "<name>", "parameters": {}} or null
}

Use intent "vitals_consent_granted" only when the patient has just agreed to a
camera-based vital signs measurement, and "vitals_consent_declined" when they
have just refused one. Otherwise use "general_conversation".

Available tool operations: navigate_to_viewpoint (parameters: viewpoint, one of
"front", "back", "left_shoulder", "right_shoulder"), focus_anatomy (parameters:
objectId, objectName), show_front_view, show_back_view.
Set tool_action to null unless the patient asked to look at part of the body.`

const reportAnalysisPrompt = `You are a medical assistant summarizing a patient's uploaded report.
Summarize the key findings, measurements, and any flagged values in plain
language a patient can understand. Be factual; do not diagnose. File name: %s

Report content:
%s`

// GeminiConfig holds the tunable generation parameters.
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	TopP            float32
	MaxOutputTokens int
	TimeoutSeconds  int
}

// ValidateGeminiConfig validates the GeminiConfig
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("Google AI API key is required")
	}
	if config.Temperature != 0 && (config.Temperature < 0 || config.Temperature > 1) {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}
	if config.TopP != 0 && (config.TopP < 0 || config.TopP > 1) {
		return fmt.Errorf("topP must be between 0 and 1, got %f", config.TopP)
	}
	if config.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must be positive, got %d", config.TimeoutSeconds)
	}
	return nil
}

// GeminiGenerator produces structured assistant replies and report
// analyses through the Gemini API.
type GeminiGenerator struct {
	client          *genai.Client
	logger          *zap.Logger
	model           string
	temperature     float32
	topP            float32
	maxOutputTokens int
	timeoutSeconds  int
}

var (
	_ repositories.ResponseGenerator = (*GeminiGenerator)(nil)
	_ repositories.ReportAnalyzer    = (*GeminiGenerator)(nil)
)

// NewGeminiGenerator creates a new Gemini-backed generator
func NewGeminiGenerator(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiGenerator, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default model", zap.String("model", model))
	}
	temperature := config.Temperature
	if temperature == 0 {
		temperature = float32(defaultTemperature)
	}
	topP := config.TopP
	if topP == 0 {
		topP = float32(defaultTopP)
	}
	maxOutputTokens := config.MaxOutputTokens
	if maxOutputTokens == 0 {
		maxOutputTokens = defaultMaxTokens
	}
	timeoutSeconds := config.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	return &GeminiGenerator{
		client:          client,
		logger:          logger,
		model:           model,
		temperature:     temperature,
		topP:            topP,
		maxOutputTokens: maxOutputTokens,
		timeoutSeconds:  timeoutSeconds,
	}, nil
}

// Generate sends the assembled prompt and parses the reply. Transient API
// failures are retried before the error reaches the caller.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (entities.StructuredReply, error) {
	text, err := g.generateText(ctx, systemPrompt, prompt)
	if err != nil {
		return entities.StructuredReply{}, err
	}
	return ParseReply(text), nil
}

// AnalyzeReport produces a patient-readable summary of an uploaded report.
func (g *GeminiGenerator) AnalyzeReport(ctx context.Context, fileName string, content []byte) (string, error) {
	return g.generateText(ctx, "", fmt.Sprintf(reportAnalysisPrompt, fileName, content))
}

func (g *GeminiGenerator) generateText(ctx context.Context, system string, prompt string) (string, error) {
	var contents []*genai.Content
	if system != "" {
		contents = append(contents, genai.NewContentFromText(system, genai.RoleUser))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		TopP:            genai.Ptr(g.topP),
		MaxOutputTokens: int32(g.maxOutputTokens),
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.timeoutSeconds)*time.Second)
	defer cancel()

	var response *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		response, err = g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err == nil {
			break
		}
		g.logger.Warn("Failed to generate content, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		if attempt < 2 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content generated")
	}

	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", fmt.Errorf("empty response")
	}
	return text, nil
}

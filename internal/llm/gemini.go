package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	genai "google.golang.org/genai"

	"github.com/workdesk-labs/work-mediator/internal/domain"
)

var errEmptyCandidate = errors.New("llm: empty candidate from model")

// GeminiGenerator calls the Gemini API through the official genai client.
type GeminiGenerator struct {
	cli         *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewGeminiGenerator builds a client for the Gemini developer API.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, temperature float64, timeout time.Duration, logger *zap.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key required")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{
		cli:         cli,
		model:       model,
		temperature: float32(temperature),
		timeout:     timeout,
		logger:      logger,
	}, nil
}

func (g *GeminiGenerator) Name() string { return "gemini:" + g.model }

func (g *GeminiGenerator) Close() error { return nil }

// Generate sends the prompt as a multi-turn conversation. Structured mode
// sets the application/json response type.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt Prompt, mode Mode) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var contents []*genai.Content
	for _, m := range prompt.Messages() {
		role := "user"
		if m.Speaker == SpeakerAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}

	temperature := g.temperature
	cfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if mode == ModeStructuredJSON {
		cfg.ResponseMIMEType = "application/json"
	}

	g.logger.Debug("gemini request", zap.String("mode", mode.String()), zap.Int("turns", len(contents)))
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", domain.Unavailable("gemini generate", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", domain.Unavailable("gemini generate", errEmptyCandidate)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	out := sb.String()
	g.logger.Debug("gemini response", zap.String("text", truncateForLogging(out)))
	return out, nil
}

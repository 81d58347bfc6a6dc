package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/workdesk-labs/work-mediator/internal/domain"
)

// LangchainGenerator drives any langchaingo chat model. It backs the
// local Ollama variant and OpenAI-compatible endpoints.
type LangchainGenerator struct {
	llm         llms.Model
	name        string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// LangchainOptions tunes generation calls.
type LangchainOptions struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewOllamaGenerator connects to a local Ollama server.
func NewOllamaGenerator(serverURL, model string, opts LangchainOptions, logger *zap.Logger) (*LangchainGenerator, error) {
	m, err := ollama.New(ollama.WithServerURL(serverURL), ollama.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama: %w", err)
	}
	return newLangchainGenerator(m, "ollama:"+model, opts, logger), nil
}

// NewOpenAIGenerator connects to OpenAI or a compatible base URL.
func NewOpenAIGenerator(token, model, baseURL string, opts LangchainOptions, logger *zap.Logger) (*LangchainGenerator, error) {
	clientOpts := []openai.Option{openai.WithToken(token), openai.WithModel(model)}
	if baseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(baseURL))
	}
	m, err := openai.New(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize openai: %w", err)
	}
	return newLangchainGenerator(m, "openai:"+model, opts, logger), nil
}

func newLangchainGenerator(m llms.Model, name string, opts LangchainOptions, logger *zap.Logger) *LangchainGenerator {
	return &LangchainGenerator{
		llm:         m,
		name:        name,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		timeout:     opts.Timeout,
		logger:      logger,
	}
}

func (g *LangchainGenerator) Name() string { return g.name }

func (g *LangchainGenerator) Close() error { return nil }

// Generate sends the prompt and returns the first choice.
func (g *LangchainGenerator) Generate(ctx context.Context, prompt Prompt, mode Mode) (string, error) {
	if g.llm == nil {
		return "", domain.Unavailable("langchain generate", errors.New("LLM client not initialized"))
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var content []llms.MessageContent
	for _, m := range prompt.Messages() {
		role := llms.ChatMessageTypeHuman
		if m.Speaker == SpeakerAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, m.Content))
	}

	callOpts := []llms.CallOption{llms.WithTemperature(g.temperature)}
	if g.maxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(g.maxTokens))
	}
	if mode == ModeStructuredJSON {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	g.logger.Debug("llm request", zap.String("backend", g.name), zap.String("mode", mode.String()), zap.Int("turns", len(content)))
	resp, err := g.llm.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		return "", domain.Unavailable("langchain generate", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", domain.Unavailable("langchain generate", errEmptyCandidate)
	}

	out := StripThinking(resp.Choices[0].Content)
	g.logger.Debug("llm response", zap.String("backend", g.name), zap.String("text", truncateForLogging(out)))
	return out, nil
}

package synth

import (
	"context"
	"fmt"
	"log/slog"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
	"charm.land/fantasy/providers/google"
	"charm.land/fantasy/providers/openai"
	"charm.land/fantasy/providers/openaicompat"
)

// FantasySynthesizerConfig holds settings for the unified Fantasy-based
// synthesizer.
type FantasySynthesizerConfig struct {
	ProviderName string // "anthropic", "openai", "google", or any openai-compat name
	APIKey       string
	Model        string
	Logger       *slog.Logger
}

// FantasySynthesizer is a synthesizer backed by charm.land/fantasy, which
// supports Anthropic, OpenAI, Google, and any OpenAI-compatible endpoint.
// It is stateless: every call sends a single prompt and returns the reply.
type FantasySynthesizer struct {
	model  fantasy.LanguageModel
	logger *slog.Logger
}

// NewFantasySynthesizer creates a synthesizer backed by charm.land/fantasy.
func NewFantasySynthesizer(ctx context.Context, cfg FantasySynthesizerConfig) (*FantasySynthesizer, error) {
	var provider fantasy.Provider
	var err error

	switch cfg.ProviderName {
	case "anthropic":
		provider, err = anthropic.New(
			anthropic.WithAPIKey(cfg.APIKey),
		)
	case "google":
		provider, err = google.New(
			google.WithGeminiAPIKey(cfg.APIKey),
		)
	case "openai":
		provider, err = openai.New(
			openai.WithAPIKey(cfg.APIKey),
		)
	default:
		// Any other provider name: use openai-compatible endpoint.
		provider, err = openaicompat.New(
			openaicompat.WithAPIKey(cfg.APIKey),
			openaicompat.WithName(cfg.ProviderName),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("fantasy: create provider %q: %w", cfg.ProviderName, err)
	}

	model, err := provider.LanguageModel(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("fantasy: create model %q: %w", cfg.Model, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FantasySynthesizer{model: model, logger: logger}, nil
}

// newFantasySynthesizerWithModel creates a FantasySynthesizer from an
// existing model. Used for testing with mock models.
func newFantasySynthesizerWithModel(model fantasy.LanguageModel) *FantasySynthesizer {
	return &FantasySynthesizer{model: model, logger: slog.Default()}
}

func (s *FantasySynthesizer) GenerateTool(ctx context.Context, spec, deps string) (string, error) {
	s.logger.Debug("synthesizing tool", "op", "synth.tool", "specLen", len(spec))
	return s.generate(ctx, buildToolPrompt(spec, deps))
}

func (s *FantasySynthesizer) GenerateUpdate(ctx context.Context, currentCode, spec, deps string) (string, error) {
	s.logger.Debug("synthesizing update", "op", "synth.update", "specLen", len(spec))
	return s.generate(ctx, buildUpdatePrompt(currentCode, spec, deps))
}

func (s *FantasySynthesizer) GenerateTests(ctx context.Context, toolCode string) (string, error) {
	s.logger.Debug("synthesizing tests", "op", "synth.tests", "codeLen", len(toolCode))
	return s.generate(ctx, buildTestPrompt(toolCode))
}

func (s *FantasySynthesizer) GenerateDoc(ctx context.Context, toolCode string) (string, error) {
	s.logger.Debug("synthesizing documentation", "op", "synth.doc", "codeLen", len(toolCode))
	return s.generate(ctx, buildDocPrompt(toolCode))
}

// generate sends one prompt to the model and returns the reply text.
// Agent creation is cheap (just a struct allocation, no connections).
func (s *FantasySynthesizer) generate(ctx context.Context, prompt string) (string, error) {
	agent := fantasy.NewAgent(s.model,
		fantasy.WithMaxRetries(3),
		fantasy.WithSystemPrompt(systemPrompt),
	)

	result, err := agent.Generate(ctx, fantasy.AgentCall{
		Prompt: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("fantasy: generate: %w", err)
	}

	return result.Response.Content.Text(), nil
}

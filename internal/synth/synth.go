// Package synth turns tool specifications into Python source through an LLM
// backend. The Synthesizer interface keeps the generator pipeline independent
// of any concrete provider; FantasySynthesizer is the production backend and
// StubSynthesizer stands in when no API key is configured.
package synth

import (
	"context"
	"fmt"
	"log/slog"
)

// Compile-time checks.
var (
	_ Synthesizer = (*FantasySynthesizer)(nil)
	_ Synthesizer = (*StubSynthesizer)(nil)
)

// Synthesizer produces the three artifacts of a tool: implementation, test
// suite, and documentation. Implementations must honor ctx cancellation;
// every call may block on a network round trip.
type Synthesizer interface {
	// GenerateTool produces tool source from a free-form specification.
	// deps describes already-registered tools the new code may build on.
	GenerateTool(ctx context.Context, spec, deps string) (string, error)

	// GenerateUpdate produces a revised tool source from the current source
	// and an update specification.
	GenerateUpdate(ctx context.Context, currentCode, spec, deps string) (string, error)

	// GenerateTests produces a pytest suite exercising toolCode.
	GenerateTests(ctx context.Context, toolCode string) (string, error)

	// GenerateDoc produces Markdown documentation for toolCode.
	GenerateDoc(ctx context.Context, toolCode string) (string, error)
}

// ---------------------------------------------------------------------------
// StubSynthesizer: placeholder when no API key is configured
// ---------------------------------------------------------------------------

// StubSynthesizer satisfies Synthesizer without calling any model. Every
// method fails, so misconfiguration surfaces at the first synthesis attempt
// rather than as a silent empty tool.
type StubSynthesizer struct {
	logger *slog.Logger
}

// NewStubSynthesizer creates a stub synthesizer for development wiring.
func NewStubSynthesizer(logger *slog.Logger) *StubSynthesizer {
	return &StubSynthesizer{logger: logger}
}

func (s *StubSynthesizer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func (s *StubSynthesizer) GenerateTool(_ context.Context, spec, _ string) (string, error) {
	s.log().Info("stub synthesizer called", "op", "synth.tool", "specLen", len(spec))
	return "", fmt.Errorf("synthesizer not configured: set a provider API key")
}

func (s *StubSynthesizer) GenerateUpdate(_ context.Context, _, spec, _ string) (string, error) {
	s.log().Info("stub synthesizer called", "op", "synth.update", "specLen", len(spec))
	return "", fmt.Errorf("synthesizer not configured: set a provider API key")
}

func (s *StubSynthesizer) GenerateTests(_ context.Context, toolCode string) (string, error) {
	s.log().Info("stub synthesizer called", "op", "synth.tests", "codeLen", len(toolCode))
	return "", fmt.Errorf("synthesizer not configured: set a provider API key")
}

func (s *StubSynthesizer) GenerateDoc(_ context.Context, toolCode string) (string, error) {
	s.log().Info("stub synthesizer called", "op", "synth.doc", "codeLen", len(toolCode))
	return "", fmt.Errorf("synthesizer not configured: set a provider API key")
}

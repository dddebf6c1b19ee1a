// Package oracle provides the text-generation backends a debate talks to.
//
// Every backend implements [TextOracle]: one prompt in, one completion out.
// Backends do not retry. An empty completion is a valid result; errors are
// reported as *errors.OracleError carrying the backend name and HTTP status.
package oracle

import "context"

// TextOracle generates a completion for a single user prompt.
type TextOracle interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Func adapts an ordinary function to the TextOracle interface.
type Func func(ctx context.Context, prompt string, maxTokens int) (string, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return f(ctx, prompt, maxTokens)
}

// Backend names accepted by NewFromConfig.
const (
	BackendAnthropic = "anthropic"
	BackendOpenAI    = "openai"
	BackendEcho      = "echo"
)

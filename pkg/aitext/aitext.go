// Package aitext defines the text generation capability consumed by the
// enrichment stage. The engine depends only on the Generator interface and
// always carries a deterministic non-AI fallback, so providers are
// swappable and tests run fully offline.
package aitext

import "context"

// Constraints bound a single generation request.
type Constraints struct {
	MaxTokens int64
	MaxWords  int
	Tone      string
}

// TokenUsage tracks token consumption for one call.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

// Text is the result of a generation call.
type Text struct {
	Content string
	Usage   TokenUsage
}

// Generator is the single injected AI text capability. Implementations must
// honor ctx cancellation; callers bound every call with a timeout.
type Generator interface {
	// Name returns the provider identifier for logs and cost attribution.
	Name() string
	// GenerateText produces prose for the given prompt within constraints.
	GenerateText(ctx context.Context, prompt string, c Constraints) (*Text, error)
}

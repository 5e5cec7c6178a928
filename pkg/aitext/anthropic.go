package aitext

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/pagegen-cli/internal/resilience"
)

// AnthropicConfig configures the Anthropic-backed generator.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
	// RequestsPerSecond throttles outbound calls. Zero disables throttling.
	RequestsPerSecond float64
}

// AnthropicGenerator implements Generator via the official SDK, with a rate
// limiter and circuit breaker in front of the API.
type AnthropicGenerator struct {
	client  sdk.Client
	model   string
	maxTok  int64
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
}

// NewAnthropic creates an Anthropic-backed generator.
func NewAnthropic(cfg AnthropicConfig) *AnthropicGenerator {
	maxTok := cfg.MaxTokens
	if maxTok <= 0 {
		maxTok = 1024
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &AnthropicGenerator{
		client:  sdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   cfg.Model,
		maxTok:  maxTok,
		limiter: limiter,
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitConfig()),
	}
}

// Name returns the provider identifier.
func (g *AnthropicGenerator) Name() string { return "anthropic" }

// GenerateText calls the Messages API once. No retries here: the enrichment
// boundary converts any failure into the deterministic fallback, so a
// second attempt would only slow the batch down.
func (g *AnthropicGenerator) GenerateText(ctx context.Context, prompt string, c Constraints) (*Text, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "aitext: rate limit wait")
		}
	}

	maxTok := g.maxTok
	if c.MaxTokens > 0 && c.MaxTokens < maxTok {
		maxTok = c.MaxTokens
	}

	return resilience.ExecuteVal(ctx, g.breaker, func(ctx context.Context) (*Text, error) {
		msg, err := g.client.Messages.New(ctx, sdk.MessageNewParams{
			Model:     sdk.Model(g.model),
			MaxTokens: maxTok,
			System: []sdk.TextBlockParam{
				{Text: systemPrompt(c)},
			},
			Messages: []sdk.MessageParam{
				sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return nil, eris.Wrap(resilience.Transient(err), "aitext: create message")
		}

		var sb strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}

		return &Text{
			Content: strings.TrimSpace(sb.String()),
			Usage: TokenUsage{
				InputTokens:  msg.Usage.InputTokens,
				OutputTokens: msg.Usage.OutputTokens,
			},
		}, nil
	})
}

func systemPrompt(c Constraints) string {
	tone := c.Tone
	if tone == "" {
		tone = "informative and factual"
	}
	prompt := fmt.Sprintf("You write short %s paragraphs for business landing pages. Plain prose, no headings, no lists, no placeholders.", tone)
	if c.MaxWords > 0 {
		prompt += fmt.Sprintf(" Stay under %d words.", c.MaxWords)
	}
	return prompt
}

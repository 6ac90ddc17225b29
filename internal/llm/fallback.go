package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// chatClient is the slice of the OpenAI client used here, so tests can
// substitute a scripted fake.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// FallbackClient generates text by trying each candidate model in order and
// returning the first success. One attempt per candidate per call; the chain
// is sequential by design, so total latency is bounded by the sum of the
// attempted candidates' latencies.
type FallbackClient struct {
	client chatClient
	models []string
	logger *zap.Logger
}

// NewFallbackClient creates a client against baseURL (empty for the OpenAI
// default). models is the ordered candidate list, primary first; it must be
// non-empty and is resolved once at startup, not per request.
func NewFallbackClient(apiKey, baseURL string, models []string, logger *zap.Logger) (*FallbackClient, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("at least one model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &FallbackClient{
		client: openai.NewClientWithConfig(cfg),
		models: models,
		logger: logger,
	}, nil
}

// Models returns the ordered candidate list.
func (c *FallbackClient) Models() []string {
	return append([]string(nil), c.models...)
}

// Generate tries each candidate model in order, returning the first successful
// completion. Every failure is logged with its position in the chain. When all
// candidates fail, returns *AllModelsFailedError carrying the last error.
func (c *FallbackClient) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for i, model := range c.models {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err == nil && len(resp.Choices) == 0 {
			err = fmt.Errorf("model %s returned no choices", model)
		}
		if err != nil {
			lastErr = err
			c.logger.Warn("model failed, trying next candidate",
				zap.String("model", model),
				zap.Int("chain_position", i),
				zap.Int("remaining", len(c.models)-i-1),
				zap.Error(err),
			)
			continue
		}
		if i > 0 {
			c.logger.Info("fallback model succeeded",
				zap.String("model", model),
				zap.Int("chain_position", i),
			)
		}
		return resp.Choices[0].Message.Content, nil
	}
	return "", &AllModelsFailedError{Attempted: len(c.models), Err: lastErr}
}

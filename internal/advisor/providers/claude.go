package providers

import (
	"context"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultClaudeModel = "claude-3-5-haiku-latest"

type ClaudeProvider struct {
	client  anthropic.Client
	config  Config
	retrier Retrier
}

func NewClaudeProvider(config Config) *ClaudeProvider {
	if config.Model == "" {
		config.Model = defaultClaudeModel
	}
	return &ClaudeProvider{
		client:  anthropic.NewClient(option.WithAPIKey(config.APIKey)),
		config:  config,
		retrier: Retrier{Attempts: 3, Delay: 500 * time.Millisecond},
	}
}

func (c *ClaudeProvider) Name() string { return "claude" }

func (c *ClaudeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeoutOrDefault(c.config.Timeout))
	defer cancel()

	var response *anthropic.Message
	err := c.retrier.Do(ctx, func() error {
		result, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(c.config.Model),
			MaxTokens:   int64(c.config.MaxTokens),
			Temperature: anthropic.Float(c.config.Temperature),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return err
		}
		response = result
		return nil
	})
	if err != nil {
		return "", err
	}
	if response == nil || len(response.Content) == 0 {
		return "", ErrEmptyResponse
	}
	return response.Content[0].Text, nil
}

package providers

import (
	"context"
	"errors"
	"time"

	cohere "github.com/cohere-ai/cohere-go"
)

const defaultCohereModel = "command"

type CohereProvider struct {
	client  *cohere.Client
	config  Config
	retrier Retrier
}

func NewCohereProvider(config Config) (*CohereProvider, error) {
	if config.Model == "" {
		config.Model = defaultCohereModel
	}
	client, err := cohere.CreateClient(config.APIKey)
	if err != nil {
		return nil, err
	}
	return &CohereProvider{
		client:  client,
		config:  config,
		retrier: Retrier{Attempts: 3, Delay: 400 * time.Millisecond},
	}, nil
}

func (c *CohereProvider) Name() string { return "cohere" }

// Complete runs a generation. The cohere client has no context support, so
// ctx only bounds the retries.
func (c *CohereProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", errors.New("cohere client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, timeoutOrDefault(c.config.Timeout))
	defer cancel()

	var response *cohere.GenerateResponse
	err := c.retrier.Do(ctx, func() error {
		maxTokens := uint(c.config.MaxTokens)
		temperature := c.config.Temperature
		result, err := c.client.Generate(cohere.GenerateOptions{
			Model:       c.config.Model,
			Prompt:      prompt,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
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
	if response == nil || len(response.Generations) == 0 {
		return "", ErrEmptyResponse
	}
	return response.Generations[0].Text, nil
}

package providers

import (
	"context"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const defaultOpenAIModel = "gpt-4o-mini"

type OpenAIProvider struct {
	client  openai.Client
	config  Config
	retrier Retrier
}

func NewOpenAIProvider(config Config) *OpenAIProvider {
	if config.Model == "" {
		config.Model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		client:  openai.NewClient(option.WithAPIKey(config.APIKey)),
		config:  config,
		retrier: Retrier{Attempts: 3, Delay: 400 * time.Millisecond},
	}
}

func (o *OpenAIProvider) Name() string { return "openai" }

// Complete asks for a JSON object response.
func (o *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeoutOrDefault(o.config.Timeout))
	defer cancel()

	var resp *openai.ChatCompletion
	err := o.retrier.Do(ctx, func() error {
		format := shared.NewResponseFormatJSONObjectParam()
		result, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       shared.ChatModel(o.config.Model),
			Temperature: openai.Float(o.config.Temperature),
			MaxTokens:   openai.Int(int64(o.config.MaxTokens)),
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &format,
			},
			Messages: []openai.ChatCompletionMessageParamUnion{
				userMessage(prompt),
			},
		})
		if err != nil {
			return err
		}
		resp = result
		return nil
	})
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func userMessage(content string) openai.ChatCompletionMessageParamUnion {
	return openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfString: openai.String(content),
			},
		},
	}
}

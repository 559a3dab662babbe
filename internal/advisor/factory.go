package advisor

import (
	"fmt"
	"strings"

	"centraldoconsumidor/backend/internal/advisor/providers"
)

// NewProvider builds the provider named by name. An empty name disables the
// advisor and returns nil without error.
func NewProvider(name string, config providers.Config) (Provider, error) {
	if config.MaxTokens <= 0 {
		config.MaxTokens = 800
	}
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return nil, nil
	case "claude", "anthropic":
		return providers.NewClaudeProvider(config), nil
	case "openai":
		return providers.NewOpenAIProvider(config), nil
	case "cohere":
		p, err := providers.NewCohereProvider(config)
		if err != nil {
			return nil, fmt.Errorf("cohere provider: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown advisor provider %q", name)
	}
}

package llm

import (
	"fmt"
	"time"

	"folio/internal/config"
	domainllm "folio/internal/domain/services/llm"
	"folio/internal/service/llm/providers/lorem"
	"folio/internal/service/llm/providers/openai"
)

// ProviderFactory creates model provider instances
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "openai" - OpenAI chat completions (or a compatible OPENAI_BASE_URL)
//   - "lorem" - Mock provider for development (no API key required)
func (f *ProviderFactory) GetProvider(providerName string) (domainllm.ModelProvider, error) {
	switch providerName {
	case "openai":
		if f.config.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		return openai.NewProvider(f.config.OpenAIAPIKey, f.config.OpenAIBaseURL), nil

	case "lorem":
		return lorem.NewProvider(time.Duration(f.config.LoremDelayMS) * time.Millisecond), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: openai, lorem)", providerName)
	}
}

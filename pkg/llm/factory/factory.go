package factory

import (
	"fmt"

	"bill-research-be/pkg/llm"
	"bill-research-be/pkg/llm/ollama"
	"bill-research-be/pkg/llm/openai"

	gocache "github.com/patrickmn/go-cache"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewOpenAIProvider(apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

// ProviderCache memoizes provider instances keyed by "<type>/<model>".
// The pipeline uses a cheap model for query shaping and grading and a
// stronger model for report compilation, so the same provider type is
// requested under several model names per run.
type ProviderCache struct {
	providerType string
	baseURL      string
	apiKey       string
	cache        *gocache.Cache
}

func NewProviderCache(providerType, baseURL, apiKey string) *ProviderCache {
	return &ProviderCache{
		providerType: providerType,
		baseURL:      baseURL,
		apiKey:       apiKey,
		cache:        gocache.New(gocache.NoExpiration, gocache.NoExpiration),
	}
}

// Get returns a memoized provider for the given model name.
func (c *ProviderCache) Get(modelName string) (llm.LLMProvider, error) {
	key := c.providerType + "/" + modelName
	if cached, found := c.cache.Get(key); found {
		return cached.(llm.LLMProvider), nil
	}

	provider, err := NewLLMProvider(c.providerType, modelName, c.baseURL, c.apiKey)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, provider, gocache.NoExpiration)
	return provider, nil
}

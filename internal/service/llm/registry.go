package llm

import (
	"fmt"
	"sync"

	domainllm "folio/internal/domain/services/llm"
)

// ProviderRegistry creates providers through the factory and caches them by name.
type ProviderRegistry struct {
	factory *ProviderFactory
	cache   map[string]domainllm.ModelProvider
	mu      sync.RWMutex
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry(factory *ProviderFactory) *ProviderRegistry {
	return &ProviderRegistry{
		factory: factory,
		cache:   make(map[string]domainllm.ModelProvider),
	}
}

// GetProvider returns the (cached) provider for the given name.
func (r *ProviderRegistry) GetProvider(provider string) (domainllm.ModelProvider, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}

	// Fast path: check cache with read lock
	r.mu.RLock()
	if cached, exists := r.cache[provider]; exists {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have created the provider while we waited for the lock
	if cached, exists := r.cache[provider]; exists {
		return cached, nil
	}

	created, err := r.factory.GetProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider '%s': %w", provider, err)
	}

	r.cache[provider] = created
	return created, nil
}

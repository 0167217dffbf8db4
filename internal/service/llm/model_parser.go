package llm

import (
	"fmt"
	"strings"
)

// ModelInfo contains parsed provider and model information
type ModelInfo struct {
	Provider string // Provider name: "openai", "lorem"
	Model    string // Model identifier for that provider
}

// ParseModel extracts provider information from a model string
//
// Supported formats:
//   - "gpt-4o-mini" → {Provider: "openai", Model: "gpt-4o-mini"}
//   - "lorem" → {Provider: "lorem", Model: "lorem"}
//   - "openai/gpt-4.1" → {Provider: "openai", Model: "gpt-4.1"}
//
// Rules:
//   - If model contains "/" → split on first "/" to extract provider
//   - Else → infer provider from model prefix
func ParseModel(modelStr string) (*ModelInfo, error) {
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	if strings.Contains(modelStr, "/") {
		parts := strings.SplitN(modelStr, "/", 2)
		provider, model := parts[0], parts[1]

		if provider == "" {
			return nil, fmt.Errorf("provider cannot be empty in model string: %s", modelStr)
		}
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty in model string: %s", modelStr)
		}

		return &ModelInfo{Provider: provider, Model: model}, nil
	}

	provider := inferProvider(modelStr)
	if provider == "" {
		return nil, fmt.Errorf("unable to infer provider from model: %s", modelStr)
	}

	return &ModelInfo{Provider: provider, Model: modelStr}, nil
}

// ResolveModel combines an explicit provider setting with a model string.
// An explicit provider wins unless the model string names its own.
func ResolveModel(provider, modelStr string) (*ModelInfo, error) {
	if provider != "" && !strings.Contains(modelStr, "/") {
		if modelStr == "" {
			return nil, fmt.Errorf("model string cannot be empty")
		}
		return &ModelInfo{Provider: provider, Model: modelStr}, nil
	}
	return ParseModel(modelStr)
}

// inferProvider infers the provider from model name prefix
func inferProvider(model string) string {
	modelLower := strings.ToLower(model)

	for _, prefix := range []string{"gpt-", "o1", "o3", "o4", "chatgpt-"} {
		if strings.HasPrefix(modelLower, prefix) {
			return "openai"
		}
	}

	// Lorem mock provider (for testing)
	if strings.HasPrefix(modelLower, "lorem") {
		return "lorem"
	}

	return ""
}

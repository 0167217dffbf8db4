package capabilities

import "testing"

func TestRegistryLoadsEmbeddedProviders(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	providers := r.GetAllProviders()
	if len(providers) != 2 || providers[0] != "lorem" || providers[1] != "openai" {
		t.Errorf("providers = %v", providers)
	}

	models, err := r.ListProviderModels("openai")
	if err != nil {
		t.Fatalf("ListProviderModels: %v", err)
	}
	if len(models) == 0 || models[0].ID != "gpt-4o-mini" {
		t.Errorf("first openai model = %+v, want gpt-4o-mini in file order", models)
	}

	caps, err := r.GetModelCapabilities("openai", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("GetModelCapabilities: %v", err)
	}
	if !caps.SupportsTools || !caps.SupportsJSONOutput || caps.ContextWindow != 128000 {
		t.Errorf("gpt-4o-mini = %+v", caps)
	}

	lorem, err := r.GetModelCapabilities("lorem", "lorem")
	if err != nil {
		t.Fatalf("lorem: %v", err)
	}
	if lorem.SupportsTools {
		t.Error("lorem should not advertise tools")
	}
}

func TestRegistryUnknown(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if _, err := r.GetModelCapabilities("anthropic", "claude"); err == nil {
		t.Error("expected unknown provider error")
	}
	if _, err := r.GetModelCapabilities("openai", "gpt-2"); err == nil {
		t.Error("expected unknown model error")
	}
	if _, err := r.ListProviderModels("nope"); err == nil {
		t.Error("expected unknown provider error")
	}
}

package cli

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"folio/internal/capabilities"
	"folio/internal/config"
	serviceLLM "folio/internal/service/llm"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Environment:        "test",
		CORSOrigins:        "http://localhost:3000",
		LLMProvider:        "lorem",
		LLMModel:           "lorem",
		ArchiveURL:         "http://127.0.0.1:1",
		ToolMaxResultChars: config.DefaultToolMaxResultChars,
		ArchiveResultLimit: config.DefaultArchiveResultLimit,
		KeepAliveSeconds:   config.DefaultKeepAliveSeconds,
	}
}

func TestBuildHandlerRoutes(t *testing.T) {
	h, err := buildHandler(testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("buildHandler: %v", err)
	}
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/sheets")
	if err != nil {
		t.Fatalf("sheets: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("sheets without id status = %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/chat", "application/json", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"type":"final"`) {
		t.Errorf("chat stream has no final: %s", body)
	}
}

func TestBuildHandlerRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.LLMProvider = "mystery"
	if _, err := buildHandler(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Error("expected error for unknown provider")
	}

	cfg = testConfig()
	cfg.LLMProvider = "openai"
	cfg.LLMModel = "gpt-4o-mini"
	if _, err := buildHandler(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Error("expected error for openai without API key")
	}
}

func TestModelSupportsTools(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		provider, model string
		want            bool
	}{
		{"openai", "gpt-4o-mini", true},
		{"lorem", "lorem", false},
		{"openai", "my-finetune", true},
	}
	for _, tt := range tests {
		got, err := modelSupportsTools(&serviceLLM.ModelInfo{Provider: tt.provider, Model: tt.model}, logger)
		if err != nil {
			t.Errorf("%s/%s: %v", tt.provider, tt.model, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s/%s tools = %v, want %v", tt.provider, tt.model, got, tt.want)
		}
	}
}

func TestPrintModels(t *testing.T) {
	registry, err := capabilities.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	var out strings.Builder
	if err := printModels(&out, registry); err != nil {
		t.Fatalf("printModels: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !strings.HasPrefix(lines[0], "PROVIDER") {
		t.Errorf("header = %q", lines[0])
	}
	if fields := strings.Fields(lines[1]); len(fields) != 5 || fields[0] != "lorem" || fields[2] != "no" || fields[4] != "-" {
		t.Errorf("lorem row = %q", lines[1])
	}
	if fields := strings.Fields(lines[2]); len(fields) != 5 || fields[0] != "openai" || fields[1] != "gpt-4o-mini" || fields[2] != "yes" {
		t.Errorf("first openai row = %q", lines[2])
	}
}

func TestRootCommands(t *testing.T) {
	want := map[string]bool{"serve": false, "chat": false, "sheet": false, "models": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %s", name)
		}
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"folio/internal/capabilities"
	"folio/internal/config"
	"folio/internal/handler"
	"folio/internal/middleware"
	serviceLLM "folio/internal/service/llm"
	"folio/internal/service/llm/orchestrator"
	"folio/internal/service/llm/prompts"
	"folio/internal/service/llm/tools"
	"folio/internal/service/llm/tools/external"
	"folio/internal/transport/ndjson"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, "server", cfg.LogMaxFiles)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = io.MultiWriter(os.Stdout, f)
	}
	logger := config.NewLogger(cfg, logOut)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"provider", cfg.LLMProvider,
		"model", cfg.LLMModel,
	)

	h, err := buildHandler(cfg, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived chat streams
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// buildHandler assembles the provider, tools, engine and routes.
func buildHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	modelInfo, err := serviceLLM.ResolveModel(cfg.LLMProvider, cfg.LLMModel)
	if err != nil {
		return nil, fmt.Errorf("resolve model: %w", err)
	}
	providers := serviceLLM.NewProviderRegistry(serviceLLM.NewProviderFactory(cfg))
	provider, err := providers.GetProvider(modelInfo.Provider)
	if err != nil {
		return nil, err
	}

	promptSet, err := loadPrompts(cfg)
	if err != nil {
		return nil, err
	}

	useTools, err := modelSupportsTools(modelInfo, logger)
	if err != nil {
		return nil, err
	}

	sheetsClient := external.NewGoogleSheetsClient(cfg.GoogleClientEmail, cfg.GooglePrivateKey)
	if cfg.GoogleClientEmail == "" || cfg.GooglePrivateKey == "" {
		logger.Warn("google sheets credentials not set; read_google_sheet will report errors")
	}
	registry := tools.NewToolRegistry()
	if useTools {
		registry = tools.NewToolRegistryBuilder().
			WithConfig(&tools.ToolConfig{
				SheetMaxResultChars: cfg.ToolMaxResultChars,
				ArchiveResultLimit:  cfg.ArchiveResultLimit,
			}).
			WithSheets(sheetsClient).
			WithArchive(external.NewArchiveClient(cfg.ArchiveURL)).
			Build()
	}

	engine := orchestrator.NewEngine(provider, modelInfo.Model, registry, promptSet, logger)
	logger.Info("services initialized",
		"provider", provider.Name(),
		"model", modelInfo.Model,
		"tools", len(registry.Definitions()),
	)

	chatHandler := handler.NewChatHandler(engine, &ndjson.Config{
		KeepAliveInterval: time.Duration(cfg.KeepAliveSeconds) * time.Second,
	}, logger)
	sheetsHandler := handler.NewSheetsHandler(sheetsClient, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.HandleFunc("POST /chat", chatHandler.Chat)
	mux.HandleFunc("GET /sheets", sheetsHandler.GetSheet)

	// Order: CORS → RequestLogger → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOriginList(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	return corsHandler.Handler(h), nil
}

// modelSupportsTools reports whether the decision call should offer tools.
// Models missing from the capability files are assumed capable.
func modelSupportsTools(info *serviceLLM.ModelInfo, logger *slog.Logger) (bool, error) {
	caps, err := capabilities.NewRegistry()
	if err != nil {
		return false, fmt.Errorf("load model capabilities: %w", err)
	}
	modelCaps, err := caps.GetModelCapabilities(info.Provider, info.Model)
	if err != nil {
		var known []string
		if models, listErr := caps.ListProviderModels(info.Provider); listErr == nil {
			for _, m := range models {
				known = append(known, m.ID)
			}
		}
		logger.Warn("no capability entry for model, assuming tool support",
			"provider", info.Provider,
			"model", info.Model,
			"known_models", known,
		)
		return true, nil
	}
	if !modelCaps.SupportsJSONOutput {
		return false, fmt.Errorf("model %s cannot produce JSON output", info.Model)
	}
	return modelCaps.SupportsTools, nil
}

func loadPrompts(cfg *config.Config) (*prompts.Set, error) {
	if cfg.PromptFile != "" {
		set, err := prompts.LoadFile(cfg.PromptFile)
		if err != nil {
			return nil, fmt.Errorf("load prompt file: %w", err)
		}
		return set, nil
	}
	return prompts.Default()
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// LLM Configuration
	LLMProvider   string // "openai" or "lorem"; empty infers from LLMModel
	LLMModel      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	LoremDelayMS  int
	PromptFile    string // Optional TOML prompt set overriding the embedded one
	// Tools
	ArchiveURL         string
	GoogleClientEmail  string
	GooglePrivateKey   string
	ToolMaxResultChars int
	ArchiveResultLimit int
	// Streaming
	KeepAliveSeconds int
	// Logging
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool
}

// Load reads configuration from the environment. Callers load .env first.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("LLM_PROVIDER", "")
	v.SetDefault("LLM_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("LOREM_DELAY_MS", 0)
	v.SetDefault("PROMPT_FILE", "")
	v.SetDefault("ARCHIVE_URL", "http://localhost:8002")
	v.SetDefault("GOOGLE_CLIENT_EMAIL", "")
	v.SetDefault("GOOGLE_PRIVATE_KEY", "")
	v.SetDefault("TOOL_MAX_RESULT_CHARS", DefaultToolMaxResultChars)
	v.SetDefault("ARCHIVE_RESULT_LIMIT", DefaultArchiveResultLimit)
	v.SetDefault("KEEPALIVE_SECONDS", DefaultKeepAliveSeconds)
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("LOG_MAX_FILES", DefaultLogMaxFiles)

	env := v.GetString("ENVIRONMENT")
	// Debug defaults to true outside production
	v.SetDefault("DEBUG", env != "prod")

	return &Config{
		Port:               v.GetString("PORT"),
		Environment:        env,
		CORSOrigins:        v.GetString("CORS_ORIGINS"),
		LLMProvider:        strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		LLMModel:           strings.TrimSpace(v.GetString("LLM_MODEL")),
		OpenAIAPIKey:       v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:      v.GetString("OPENAI_BASE_URL"),
		LoremDelayMS:       v.GetInt("LOREM_DELAY_MS"),
		PromptFile:         v.GetString("PROMPT_FILE"),
		ArchiveURL:         v.GetString("ARCHIVE_URL"),
		GoogleClientEmail:  v.GetString("GOOGLE_CLIENT_EMAIL"),
		GooglePrivateKey:   v.GetString("GOOGLE_PRIVATE_KEY"),
		ToolMaxResultChars: v.GetInt("TOOL_MAX_RESULT_CHARS"),
		ArchiveResultLimit: v.GetInt("ARCHIVE_RESULT_LIMIT"),
		KeepAliveSeconds:   v.GetInt("KEEPALIVE_SECONDS"),
		LogDir:             v.GetString("LOG_DIR"),
		LogMaxFiles:        v.GetInt("LOG_MAX_FILES"),
		Debug:              v.GetBool("DEBUG"),
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.LLMModel == "" {
		return fmt.Errorf("LLM_MODEL must not be empty")
	}
	if c.ToolMaxResultChars <= 0 {
		return fmt.Errorf("TOOL_MAX_RESULT_CHARS must be positive, got %d", c.ToolMaxResultChars)
	}
	if c.ArchiveResultLimit <= 0 || c.ArchiveResultLimit > MaxArchiveResultLimit {
		return fmt.Errorf("ARCHIVE_RESULT_LIMIT must be between 1 and %d, got %d", MaxArchiveResultLimit, c.ArchiveResultLimit)
	}
	if c.KeepAliveSeconds < 0 {
		return fmt.Errorf("KEEPALIVE_SECONDS must not be negative, got %d", c.KeepAliveSeconds)
	}
	return nil
}

// CORSOriginList splits CORS_ORIGINS on commas.
func (c *Config) CORSOriginList() []string {
	var out []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

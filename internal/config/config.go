package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        int
	NatsURL     string
	NatsToken   string
	DatabaseURL string
	LogLevel    string
	APIToken    string
	WebhookURL  string

	LLM LLM

	AuditDebounce     time.Duration
	FrameworksPath    string
	MaxUploadBytes    int64
	ImportConcurrency int
}

// LLM selects and configures the generation backend.
type LLM struct {
	Provider string // anthropic, openai or gemini

	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	GeminiAPIKey    string
	GeminiModel     string
}

// APIKey returns the credential for the selected provider.
func (l LLM) APIKey() string {
	switch l.Provider {
	case "openai":
		return l.OpenAIAPIKey
	case "gemini":
		return l.GeminiAPIKey
	default:
		return l.AnthropicAPIKey
	}
}

func Load() Config {
	return Config{
		Port:        envInt("OFFERDESK_PORT", 8760),
		NatsURL:     envStr("NATS_URL", ""),
		NatsToken:   envStr("NATS_TOKEN", ""),
		DatabaseURL: envStr("DATABASE_URL", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		APIToken:    envStr("OFFERDESK_API_TOKEN", ""),
		WebhookURL:  envStr("OFFERDESK_WEBHOOK_URL", ""),
		LLM: LLM{
			Provider:        strings.ToLower(envStr("OFFERDESK_PROVIDER", "anthropic")),
			AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
			AnthropicModel:  envStr("OFFERDESK_MODEL", "claude-sonnet-4-5"),
			OpenAIAPIKey:    envStr("OPENAI_API_KEY", ""),
			OpenAIModel:     envStr("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:   envStr("OPENAI_BASE_URL", ""),
			GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
			GeminiModel:     envStr("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		AuditDebounce:     envDuration("OFFERDESK_AUDIT_DEBOUNCE", 1500*time.Millisecond),
		FrameworksPath:    envStr("OFFERDESK_FRAMEWORKS", ""),
		MaxUploadBytes:    int64(envInt("OFFERDESK_MAX_UPLOAD_BYTES", 10<<20)),
		ImportConcurrency: envInt("OFFERDESK_IMPORT_CONCURRENCY", 4),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	Provider     string
	GeminiModel  string
	GroqModel    string
	Temperature  float32
	DatabasePath string
	Port         string
	LogLevel     string

	// Ghost Config (optional, enables draft publishing)
	GhostURL      string
	GhostAdminKey string

	// Telegram Config (optional for CLI, required for Bot)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64

	env *viper.Viper
}

// NewFromEnv creates a new Config object from environment variables.
// Provider credentials are not required here; they are looked up on each
// call through GeminiAPIKey and GroqAPIKey.
func NewFromEnv() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PLAN_PROVIDER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GROQ_MODEL", "openai/gpt-oss-120b")
	v.SetDefault("PLAN_TEMPERATURE", 0.7)
	v.SetDefault("DATABASE_PATH", "data/content-planner.db")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")

	// API_KEY is the variable name the hosted web build used.
	if err := v.BindEnv("GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	provider := strings.ToLower(v.GetString("PLAN_PROVIDER"))
	if provider != "gemini" && provider != "groq" {
		return nil, fmt.Errorf("PLAN_PROVIDER must be one of gemini, groq; got %q", provider)
	}

	temperature := v.GetFloat64("PLAN_TEMPERATURE")
	if temperature < 0 || temperature > 2 {
		return nil, fmt.Errorf("PLAN_TEMPERATURE must be between 0 and 2; got %v", temperature)
	}

	allowedIDs, err := parseIDList(v.GetString("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}

	var adminID int64
	if raw := v.GetString("ADMIN_TELEGRAM_ID"); raw != "" {
		adminID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	return &Config{
		Provider:               provider,
		GeminiModel:            v.GetString("GEMINI_MODEL"),
		GroqModel:              v.GetString("GROQ_MODEL"),
		Temperature:            float32(temperature),
		DatabasePath:           v.GetString("DATABASE_PATH"),
		Port:                   v.GetString("PORT"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		GhostURL:               strings.TrimRight(v.GetString("GHOST_API_URL"), "/"),
		GhostAdminKey:          v.GetString("GHOST_ADMIN_API_KEY"),
		TelegramBotToken:       v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     v.GetString("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
		AdminTelegramID:        adminID,
		env:                    v,
	}, nil
}

// GeminiAPIKey returns the Gemini credential as currently set in the environment.
func (c *Config) GeminiAPIKey() string {
	if c.env == nil {
		return ""
	}
	return c.env.GetString("GEMINI_API_KEY")
}

// GroqAPIKey returns the Groq credential as currently set in the environment.
func (c *Config) GroqAPIKey() string {
	if c.env == nil {
		return ""
	}
	return c.env.GetString("GROQ_API_KEY")
}

// GhostEnabled reports whether draft publishing to Ghost is configured.
func (c *Config) GhostEnabled() bool {
	return c.GhostURL != "" && c.GhostAdminKey != ""
}

func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

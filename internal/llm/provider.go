package llm

import (
	"fmt"

	"ai-content-planner/internal/config"
)

// NewGenerator returns the provider selected by cfg.Provider.
func NewGenerator(cfg *config.Config) (StructuredGenerator, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(cfg), nil
	case ProviderGroq:
		return NewGroqClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown plan provider %q", cfg.Provider)
	}
}

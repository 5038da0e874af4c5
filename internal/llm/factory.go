package llm

import (
	"fmt"
	"strings"
)

// Supported provider names
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// NewProvider builds the chat provider named in config.
// An empty name means chat generation is disabled and yields (nil, nil).
func NewProvider(config Config) (Provider, error) {
	switch name := strings.ToLower(strings.TrimSpace(config.Provider)); name {
	case "":
		return nil, nil
	case ProviderOllama:
		return NewOllamaProvider(config)
	case ProviderOpenAI:
		return NewOpenAIProvider(config)
	case ProviderAnthropic, "claude":
		return NewAnthropicProvider(config)
	default:
		return nil, fmt.Errorf("unknown chat provider %q (want %s, %s or %s)",
			config.Provider, ProviderOllama, ProviderOpenAI, ProviderAnthropic)
	}
}

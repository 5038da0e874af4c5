package llm

import (
	"context"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
)

// Provider defines the interface for chat LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Chat generates the assistant's next message for the conversation
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation
type Message struct {
	Role    string
	Content string
}

// ChatRequest contains the input for one generation
type ChatRequest struct {
	// System is the system prompt, already augmented with verified facts
	System string

	// Messages is the conversation so far, ending with the user's turn
	Messages []Message

	// Model overrides the configured model
	Model string

	// Temperature overrides the configured temperature when non-zero
	Temperature float64

	// MaxTokens limits the response length
	MaxTokens int
}

// ChatResponse contains the generated message
type ChatResponse struct {
	// Content is the assistant's reply
	Content string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int

	// ProcessingTime is the model-side generation time, when reported
	ProcessingTime time.Duration
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "ollama", "openai", "anthropic", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// Temperature for sampling
	Temperature float64

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "ollama",
		Model:       "llama3",
		Timeout:     2 * time.Minute,
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}

// ConfigFromModel converts the chat and HTTP sections of the app config
func ConfigFromModel(chat model.ChatConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:    chat.Provider,
		Model:       chat.Model,
		APIKey:      chat.APIKey,
		BaseURL:     chat.BaseURL,
		Timeout:     chat.Timeout,
		Temperature: chat.Temperature,
		MaxTokens:   chat.MaxTokens,
		HTTPProxy:   httpCfg.HTTPProxy,
		HTTPSProxy:  httpCfg.HTTPSProxy,
		NoProxy:     httpCfg.NoProxy,
	}
}

// resolve fills request fields left empty from the provider config
func (c Config) resolve(req ChatRequest, defaultModel string) ChatRequest {
	if req.Model == "" {
		req.Model = c.Model
	}
	if req.Model == "" {
		req.Model = defaultModel
	}
	if req.Temperature == 0 {
		req.Temperature = c.Temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.MaxTokens
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 1000
	}
	return req
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return fallback
}

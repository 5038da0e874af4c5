package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/ppiankov/factcheck/internal/util"
)

// OllamaProvider implements the Provider interface for Ollama local models
type OllamaProvider struct {
	baseURL string
	client  *api.Client
	config  Config
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base URL: %w", err)
	}

	httpClient := &http.Client{
		// Ollama can be slower for local models
		Timeout: config.timeout(2 * time.Minute),
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}

	return &OllamaProvider{
		baseURL: baseURL,
		client:  api.NewClient(parsed, httpClient),
		config:  config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return ProviderOllama
}

// IsAvailable checks if Ollama is running by listing local models
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	if _, err := p.client.List(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Ollama availability check failed (connection to %s): %v\n", p.baseURL, err)
		return false
	}
	return true
}

// Chat generates a reply using Ollama's chat endpoint
func (p *OllamaProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	req = p.config.resolve(req, "llama3")

	messages := make([]api.Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, api.Message{Role: RoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, api.Message{Role: m.Role, Content: m.Content})
	}

	stream := false
	apiReq := &api.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
			"num_predict": req.MaxTokens,
		},
	}

	var (
		content strings.Builder
		final   api.ChatResponse
	)
	err := p.client.Chat(ctx, apiReq, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		if resp.Done {
			final = resp
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}

	reply := strings.TrimSpace(content.String())

	// Ollama provides counts but they may be 0 for some models
	tokensUsed := final.PromptEvalCount + final.EvalCount
	if tokensUsed == 0 {
		tokensUsed = (promptLength(req) + len(reply)) / 4
	}

	model := final.Model
	if model == "" {
		model = req.Model
	}

	return &ChatResponse{
		Content:        reply,
		Model:          model,
		TokensUsed:     tokensUsed,
		ProcessingTime: final.TotalDuration,
	}, nil
}

// promptLength sums the characters sent to the model
func promptLength(req ChatRequest) int {
	n := len(req.System)
	for _, m := range req.Messages {
		n += len(m.Content)
	}
	return n
}

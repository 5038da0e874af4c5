package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/util"
)

// ServiceClient verifies claims against a running fact-check service
type ServiceClient struct {
	url        string
	httpClient *http.Client
}

// NewServiceClient creates a client for the given /fact-check URL
func NewServiceClient(url string, timeout time.Duration, httpCfg model.HTTPConfig) *ServiceClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ServiceClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
	}
}

// Verify posts one claim and decodes the envelope
func (c *ServiceClient) Verify(ctx context.Context, claim string) (model.Envelope, error) {
	body, err := json.Marshal(map[string]string{"claim": claim})
	if err != nil {
		return model.Envelope{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return model.Envelope{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Envelope{}, fmt.Errorf("post claim: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.Envelope{}, fmt.Errorf("service returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var env model.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return model.Envelope{}, fmt.Errorf("decode response: %w", err)
	}
	return env, nil
}

// Check verifies a claim, folding any failure into a zero-confidence envelope
func (c *ServiceClient) Check(ctx context.Context, claim string) model.Envelope {
	env, err := c.Verify(ctx, claim)
	if err != nil {
		return model.NewEnvelope(claim, model.Verdict{
			CorrectAnswer: fmt.Sprintf("Error verifying claim: %v", err),
			Confidence:    model.ConfidenceNone,
		})
	}
	return env
}

// Verifier is an in-process claim verifier
type Verifier interface {
	Verify(ctx context.Context, text string) model.Verdict
}

// LocalChecker verifies claims without a running service
type LocalChecker struct {
	verifier Verifier
}

// NewLocalChecker wraps an in-process verifier
func NewLocalChecker(v Verifier) *LocalChecker {
	return &LocalChecker{verifier: v}
}

// Check verifies a claim in process
func (c *LocalChecker) Check(ctx context.Context, claim string) model.Envelope {
	return model.NewEnvelope(claim, c.verifier.Verify(ctx, claim))
}

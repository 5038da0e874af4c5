// Package mcptool publishes the verifier as Model Context Protocol tools.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ppiankov/factcheck/internal/model"
)

// Tool names
const (
	ToolVerifyClaim  = "verify_claim"
	ToolCheckCapital = "check_capital"
)

// Verifier checks claims
type Verifier interface {
	Verify(ctx context.Context, text string) model.Verdict
	CheckCapital(ctx context.Context, country, claimed string) model.Verdict
}

// Handlers adapts a Verifier to MCP tool calls
type Handlers struct {
	verifier Verifier
}

// NewHandlers creates tool handlers for v
func NewHandlers(v Verifier) *Handlers {
	return &Handlers{verifier: v}
}

// NewServer creates an MCP server with the fact-check tools registered
func NewServer(v Verifier, version string) *server.MCPServer {
	h := NewHandlers(v)
	s := server.NewMCPServer("factcheck", version)

	s.AddTool(mcp.NewTool(ToolVerifyClaim,
		mcp.WithDescription("Verifies a claim of the form \"The capital of X is Y\" and returns a fact_check context envelope."),
		mcp.WithString("claim", mcp.Required(), mcp.Description("The claim to verify.")),
	), h.HandleVerifyClaim)

	s.AddTool(mcp.NewTool(ToolCheckCapital,
		mcp.WithDescription("Checks whether a city is the capital of a country."),
		mcp.WithString("country", mcp.Required(), mcp.Description("Country name, aliases such as USA are accepted.")),
		mcp.WithString("capital", mcp.Required(), mcp.Description("Claimed capital city.")),
	), h.HandleCheckCapital)

	return s
}

// HandleVerifyClaim verifies one free-text claim
func (h *Handlers) HandleVerifyClaim(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	claim, err := request.RequireString("claim")
	if err != nil {
		return mcp.NewToolResultError("Missing claim in request"), nil
	}

	verdict := h.verifier.Verify(ctx, claim)
	return envelopeResult(model.NewEnvelope(claim, verdict))
}

// HandleCheckCapital verifies a structured country and capital pair
func (h *Handlers) HandleCheckCapital(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	country, err := request.RequireString("country")
	if err != nil {
		return mcp.NewToolResultError("Missing country in request"), nil
	}
	capital, err := request.RequireString("capital")
	if err != nil {
		return mcp.NewToolResultError("Missing capital in request"), nil
	}

	claim := fmt.Sprintf("The capital of %s is %s", country, capital)
	verdict := h.verifier.CheckCapital(ctx, country, capital)
	return envelopeResult(model.NewEnvelope(claim, verdict))
}

func envelopeResult(env model.Envelope) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Serve runs the MCP server over the configured transport until ctx ends
func Serve(ctx context.Context, s *server.MCPServer, cfg model.MCPConfig) error {
	switch cfg.Transport {
	case "", "stdio":
		return server.ServeStdio(s)
	case "http":
		httpServer := server.NewStreamableHTTPServer(s)
		errCh := make(chan error, 1)
		go func() { errCh <- httpServer.Start(cfg.Addr) }()

		select {
		case err := <-errCh:
			return fmt.Errorf("mcp http server: %w", err)
		case <-ctx.Done():
			return httpServer.Shutdown(context.Background())
		}
	default:
		return fmt.Errorf("unknown mcp transport: %s (supported: stdio, http)", cfg.Transport)
	}
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/factcheck/internal/mcptool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the verifier as an MCP tool server",
	Long: `Mcp serves the verify_claim and check_capital tools over the Model
Context Protocol, on stdio (default) or streamable HTTP.

Example:
  factcheck mcp
  factcheck mcp --transport http --addr 127.0.0.1:8081`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "", "transport: stdio or http (default from mcp.transport)")
	mcpCmd.Flags().String("addr", "", "listen address for the http transport (default from mcp.addr)")

	_ = viper.BindPFlag("mcp.transport", mcpCmd.Flags().Lookup("transport"))
	_ = viper.BindPFlag("mcp.addr", mcpCmd.Flags().Lookup("addr"))
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Logging)

	v, closeCache, err := buildVerifier(cfg, nil, logger)
	if err != nil {
		return fmt.Errorf("build verifier: %w", err)
	}
	defer closeCache()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("transport", cfg.MCP.Transport).Info("starting MCP server")
	return mcptool.Serve(ctx, mcptool.NewServer(v, Version), cfg.MCP)
}

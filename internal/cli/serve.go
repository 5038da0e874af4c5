package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fact-check HTTP service",
	Long: `Serve exposes the verifier over HTTP:

  POST /fact-check   {"claim": "The capital of France is Paris"}
  GET  /health
  GET  /metrics      (Prometheus, unless server.metrics is false)

Example:
  factcheck serve
  factcheck serve --addr 0.0.0.0:5000 --local-only`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	serveCmd.Flags().Bool("no-metrics", false, "disable the /metrics endpoint")
	serveCmd.Flags().Bool("local-only", false, "disable the remote knowledge base")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("knowledge.disabled", serveCmd.Flags().Lookup("local-only"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noMetrics, _ := cmd.Flags().GetBool("no-metrics"); noMetrics {
		cfg.Server.Metrics = false
	}

	logger := newLogger(cfg.Logging)
	gin.SetMode(cfg.Server.Mode)

	var m *metrics.Metrics
	if cfg.Server.Metrics {
		m = metrics.New()
	}

	v, closeCache, err := buildVerifier(cfg, m, logger)
	if err != nil {
		return fmt.Errorf("build verifier: %w", err)
	}
	defer closeCache()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("endpoint", cfg.Knowledge.Endpoint).
		WithField("remote", !cfg.Knowledge.Disabled).
		WithField("cache", cfg.Cache.Backend).
		Debug("verifier ready")

	return server.New(v, cfg.Server, m, logger).Run(ctx)
}

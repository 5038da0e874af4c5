package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/factcheck/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Scan a web page for capital claims and verify them",
	Long: `Scan fetches a single web page, finds every "capital of X is Y" claim in
its visible text and verifies each one. robots.txt is honored unless
--no-robots is given. Transient fetch failures are retried.

Example:
  factcheck scan https://en.wikipedia.org/wiki/List_of_national_capitals
  factcheck scan https://example.com/page --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().String("json", "", "output JSON report path (default: stdout)")
	scanCmd.Flags().Duration("timeout", 2*time.Minute, "overall scan timeout")
	scanCmd.Flags().String("service", "", "fact-check service URL (default: verify in process)")
	scanCmd.Flags().Bool("no-robots", false, "ignore robots.txt")
	scanCmd.Flags().Bool("insecure", false, "skip TLS certificate verification (use for self-signed certs)")

	_ = viper.BindPFlag("http.insecure_tls", scanCmd.Flags().Lookup("insecure"))
}

func runScan(cmd *cobra.Command, args []string) error {
	url := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	outJSON, _ := cmd.Flags().GetString("json")
	scanTimeout, _ := cmd.Flags().GetDuration("timeout")
	serviceURL, _ := cmd.Flags().GetString("service")
	if noRobots, _ := cmd.Flags().GetBool("no-robots"); noRobots {
		cfg.HTTP.RespectRobots = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	logger := newLogger(cfg.Logging)
	v, closeFn, err := claimVerifier(cfg, serviceURL, logger)
	if err != nil {
		return fmt.Errorf("build verifier: %w", err)
	}
	defer closeFn()

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", scanTimeout)
		fmt.Fprintf(os.Stderr, "Robots: %v\n\n", cfg.HTTP.RespectRobots)
	}

	report, err := pipeline.NewScanner(cfg, v, logger).Scan(ctx, url)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if outJSON == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := os.WriteFile(outJSON, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	sum := report.Summary
	fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
	fmt.Fprintf(os.Stderr, "  %d claims: %d correct, %d incorrect, %d unverified\n",
		sum.Total, sum.Correct, sum.Incorrect, sum.Unverified)

	return nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify claims from a file concurrently",
	Long: `Batch reads one claim per line from a file and verifies them with a
pool of workers. Blank lines, lines starting with # and duplicates are
skipped. Each envelope is written as one JSON line, in input order.

Example:
  factcheck batch claims.txt
  factcheck batch claims.txt --workers 8 --out verdicts.jsonl
  factcheck batch claims.txt --service http://127.0.0.1:5000/fact-check`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("workers", "w", 0, "number of concurrent workers (default from concurrency.workers)")
	batchCmd.Flags().StringP("out", "o", "", "output JSON lines path (default: stdout)")
	batchCmd.Flags().String("service", "", "fact-check service URL (default: verify in process)")
	batchCmd.Flags().Duration("timeout", 10*time.Minute, "overall batch timeout")

	_ = viper.BindPFlag("concurrency.workers", batchCmd.Flags().Lookup("workers"))
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	file := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	outPath, _ := cmd.Flags().GetString("out")
	serviceURL, _ := cmd.Flags().GetString("service")
	batchTimeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	v, closeFn, err := claimVerifier(cfg, serviceURL, newLogger(cfg.Logging))
	if err != nil {
		return fmt.Errorf("build verifier: %w", err)
	}
	defer closeFn()

	if verbose {
		fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
		fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
		fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
		fmt.Fprintf(os.Stderr, "\n")
	}

	processor := worker.NewBatchProcessor(v, cfg.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, createErr := os.Create(outPath)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		out = f
	}

	enc := json.NewEncoder(out)
	envelopes := make([]model.Envelope, 0, len(results))
	failures := 0
	for _, r := range results {
		if r.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Claim, r.Error)
			continue
		}
		envelopes = append(envelopes, r.Envelope)
		if err := enc.Encode(r.Envelope); err != nil {
			return fmt.Errorf("write envelope: %w", err)
		}
	}

	tally := model.Tally(envelopes)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:       %d claims\n", len(results))
	fmt.Fprintf(os.Stderr, "  Correct:     %d\n", tally.Correct)
	fmt.Fprintf(os.Stderr, "  Incorrect:   %d\n", tally.Incorrect)
	fmt.Fprintf(os.Stderr, "  Unverified:  %d\n", tally.Unverified)
	fmt.Fprintf(os.Stderr, "  Failures:    %d\n", failures)
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "  Output:      %s\n", outPath)
	}

	return nil
}

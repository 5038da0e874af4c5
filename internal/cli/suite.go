package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/verify"
	"github.com/spf13/cobra"
)

var suiteCmd = &cobra.Command{
	Use:   "suite",
	Short: "Run the reference claim suite",
	Long: `Suite checks a fixed set of reference claims whose correctness is known
and reports how many verdicts matched expectations.

Example:
  factcheck suite
  factcheck suite --service http://127.0.0.1:5000/fact-check
  factcheck suite --json`,
	Args: cobra.NoArgs,
	RunE: runSuite,
}

func init() {
	rootCmd.AddCommand(suiteCmd)

	suiteCmd.Flags().String("service", "", "fact-check service URL (default: verify in process)")
	suiteCmd.Flags().Bool("json", false, "print the summary as JSON")
}

func runSuite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	serviceURL, _ := cmd.Flags().GetString("service")
	asJSON, _ := cmd.Flags().GetBool("json")

	v, closeFn, err := claimVerifier(cfg, serviceURL, newLogger(cfg.Logging))
	if err != nil {
		return fmt.Errorf("build verifier: %w", err)
	}
	defer closeFn()

	check := func(ctx context.Context, claim string) (model.Verdict, error) {
		env, err := v.Verify(ctx, claim)
		if err != nil {
			return model.Verdict{}, err
		}
		return env.Verdict(), nil
	}

	cases := verify.ReferenceSuite()
	if !asJSON {
		fmt.Fprintf(os.Stderr, "Running %d reference claims\n\n", len(cases))
	}

	summary := verify.RunSuite(context.Background(), cases, check, func(i int, r verify.SuiteResult) {
		if asJSON {
			return
		}
		fmt.Fprintf(os.Stderr, "Test %d: %s\n", i+1, r.Case.Claim)
		switch {
		case r.Error != "":
			fmt.Fprintf(os.Stderr, "  ✗ Error: %s\n\n", r.Error)
		case r.Passed:
			fmt.Fprintf(os.Stderr, "  ✓ %s (confidence %.2f)\n\n", r.Verdict.CorrectAnswer, r.Verdict.Confidence)
		default:
			fmt.Fprintf(os.Stderr, "  ✗ %s (confidence %.2f)\n\n", r.Verdict.CorrectAnswer, r.Verdict.Confidence)
		}
	})

	if asJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Suite Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:         %d\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Passed:        %d\n", summary.Passed)
	fmt.Fprintf(os.Stderr, "  Failed:        %d\n", summary.Failed)
	fmt.Fprintf(os.Stderr, "  Errors:        %d\n", summary.Errors)
	fmt.Fprintf(os.Stderr, "  Success rate:  %.1f%%\n", summary.SuccessRate())
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Verify a single claim",
	Long: `Check verifies one claim and prints the fact-check envelope as JSON.

By default the claim is verified in process. With --service the claim is
sent to a running fact-check service instead.

Example:
  factcheck check "The capital of France is Paris"
  factcheck check The capital of Japan is Kyoto
  factcheck check "The capital of Peru is Lima" --service http://127.0.0.1:5000/fact-check`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("service", "", "fact-check service URL (default: verify in process)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	serviceURL, _ := cmd.Flags().GetString("service")

	v, closeFn, err := claimVerifier(cfg, serviceURL, newLogger(cfg.Logging))
	if err != nil {
		return fmt.Errorf("build verifier: %w", err)
	}
	defer closeFn()

	claim := strings.Join(args, " ")
	env, err := v.Verify(context.Background(), claim)
	if err != nil {
		return fmt.Errorf("verify claim: %w", err)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/factcheck/internal/chat"
	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a language model that is fed verified facts",
	Long: `Chat starts an interactive conversation with a language model. Capital
claims in your messages are verified first and the verified facts are added
to the model's system prompt before it answers.

Claims are verified by the fact-check service at chat.service_url, or in
process with --local.

Example:
  factcheck chat
  factcheck chat --provider openai --model gpt-4o-mini
  factcheck chat --local`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().String("provider", "", "LLM provider: ollama, openai, anthropic (default from chat.provider)")
	chatCmd.Flags().String("model", "", "model name (default from chat.model)")
	chatCmd.Flags().String("service", "", "fact-check service URL (default from chat.service_url)")
	chatCmd.Flags().Bool("local", false, "verify claims in process instead of calling the service")

	_ = viper.BindPFlag("chat.provider", chatCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("chat.model", chatCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("chat.service_url", chatCmd.Flags().Lookup("service"))
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	local, _ := cmd.Flags().GetBool("local")

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.Chat, cfg.HTTP))
	if err != nil {
		return fmt.Errorf("create LLM provider: %w", err)
	}
	if provider == nil {
		return fmt.Errorf("chat.provider is not set (supported: ollama, openai, anthropic)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !provider.IsAvailable(ctx) {
		fmt.Fprintf(os.Stderr, "Warning: %s provider is not reachable, requests may fail\n", provider.Name())
	}

	var checker chat.Checker
	if local {
		v, closeCache, err := buildVerifier(cfg, nil, newLogger(cfg.Logging))
		if err != nil {
			return fmt.Errorf("build verifier: %w", err)
		}
		defer closeCache()
		checker = chat.NewLocalChecker(v)
	} else {
		checker = chat.NewServiceClient(cfg.Chat.ServiceURL, cfg.HTTP.Timeout, cfg.HTTP)
	}

	session := chat.NewSession(provider, checker, cfg.Chat.SystemPrompt, cmd.OutOrStdout())
	return session.Run(ctx, cmd.InOrStdin(), cfg.Chat.Model)
}

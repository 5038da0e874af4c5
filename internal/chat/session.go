// Package chat runs a fact-checked conversation with a language model.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/model"
)

// factsHeader introduces verified facts in the system prompt
const factsHeader = "\n\nIMPORTANT: Use the verified facts below to ensure your response is factually accurate:"

// Checker verifies one claim and always returns an envelope
type Checker interface {
	Check(ctx context.Context, claim string) model.Envelope
}

// TurnResult describes one exchange
type TurnResult struct {
	Facts          []model.Envelope
	Reply          string
	TokensUsed     int
	Elapsed        time.Duration
	ProcessingTime time.Duration
}

// Session holds the conversation history for one interactive chat
type Session struct {
	provider     llm.Provider
	checker      Checker
	systemPrompt string
	history      []llm.Message
	out          io.Writer
}

// NewSession creates a chat session. out receives progress and replies.
func NewSession(provider llm.Provider, checker Checker, systemPrompt string, out io.Writer) *Session {
	if out == nil {
		out = io.Discard
	}
	return &Session{
		provider:     provider,
		checker:      checker,
		systemPrompt: systemPrompt,
		out:          out,
	}
}

// History returns a copy of the conversation so far
func (s *Session) History() []llm.Message {
	return append([]llm.Message(nil), s.history...)
}

// Turn checks the claims in input, asks the model, and records the exchange.
// A failed generation leaves the history unchanged.
func (s *Session) Turn(ctx context.Context, input string) (*TurnResult, error) {
	facts := s.checkClaims(ctx, input)

	system := s.systemPrompt
	if len(facts) > 0 {
		fmt.Fprintln(s.out, "\n[fact-check] Factual claims detected and verified")
		system = AugmentSystemPrompt(s.systemPrompt, facts)
	}

	messages := append(s.History(), llm.Message{Role: llm.RoleUser, Content: input})

	start := time.Now()
	resp, err := s.provider.Chat(ctx, llm.ChatRequest{
		System:   system,
		Messages: messages,
	})
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("generate response: %w", err)
	}

	s.history = append(messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})

	return &TurnResult{
		Facts:          facts,
		Reply:          resp.Content,
		TokensUsed:     resp.TokensUsed,
		Elapsed:        elapsed,
		ProcessingTime: resp.ProcessingTime,
	}, nil
}

func (s *Session) checkClaims(ctx context.Context, input string) []model.Envelope {
	claims := extract.DetectClaims(input)
	facts := make([]model.Envelope, 0, len(claims))
	for _, claim := range claims {
		fmt.Fprintf(s.out, "Detected claim: %s\n", claim)
		env := s.checker.Check(ctx, claim)
		fmt.Fprintf(s.out, "Fact check: %s\n", env.Context.CorrectAnswer)
		fmt.Fprintf(s.out, "Confidence: %.2f\n\n", env.Context.Confidence)
		facts = append(facts, env)
	}
	return facts
}

// AugmentSystemPrompt appends verified facts to the system prompt
func AugmentSystemPrompt(system string, facts []model.Envelope) string {
	var b strings.Builder
	b.WriteString(system)
	b.WriteString(factsHeader)
	b.WriteString("\n")
	for _, f := range facts {
		fmt.Fprintf(&b, "- %s: %s\n", f.Context.Claim, f.Context.CorrectAnswer)
	}
	return b.String()
}

// Run reads user input line by line until exit, quit, EOF, or ctx ends
func (s *Session) Run(ctx context.Context, in io.Reader, modelName string) error {
	if s.systemPrompt != "" {
		fmt.Fprintf(s.out, "System: %s\n", s.systemPrompt)
	}
	fmt.Fprintf(s.out, "\nFact-checking chat with %s\n", s.provider.Name())
	fmt.Fprintf(s.out, "Using model: %s\n", modelName)
	fmt.Fprintln(s.out, "Type 'exit' or 'quit' to end the conversation")
	fmt.Fprintln(s.out, "---------------------------------------------")

	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprint(s.out, "\nYou: ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if isExit(input) {
			return nil
		}

		result, err := s.Turn(ctx, input)
		if err != nil {
			fmt.Fprintf(s.out, "\nError: %v\n", err)
			continue
		}

		fmt.Fprintf(s.out, "\nAssistant: %s\n", result.Reply)
		fmt.Fprintf(s.out, "\n[Response time: %.2fs, LLM processing: %.2fs, tokens: %d]\n",
			result.Elapsed.Seconds(), result.ProcessingTime.Seconds(), result.TokensUsed)
	}
}

func isExit(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		return true
	}
	return false
}

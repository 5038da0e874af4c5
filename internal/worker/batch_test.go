package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/factcheck/internal/model"
)

func stubVerifier() ClaimVerifier {
	return ClaimVerifierFunc(func(ctx context.Context, claim string) (model.Envelope, error) {
		if strings.Contains(claim, "fail") {
			return model.Envelope{}, errors.New("service unavailable")
		}
		return model.NewEnvelope(claim, model.Verdict{CorrectAnswer: "Correct. " + claim, Confidence: 0.95}), nil
	})
}

func TestBatchProcessor_ProcessClaims(t *testing.T) {
	b := NewBatchProcessor(stubVerifier(), 3)

	claims := []string{
		"The capital of France is Paris",
		"The capital of Japan is Tokyo",
		"The capital of Italy is Rome",
		"The capital of Spain is Madrid",
		"The capital of India is New Delhi",
	}

	results := b.ProcessClaims(context.Background(), claims)
	if len(results) != len(claims) {
		t.Fatalf("expected %d results, got %d", len(claims), len(results))
	}
	for i, r := range results {
		if r.Index != i || r.Claim != claims[i] {
			t.Errorf("result %d out of order: %+v", i, r)
		}
		if r.Envelope.Context.Claim != claims[i] {
			t.Errorf("result %d has wrong envelope claim %q", i, r.Envelope.Context.Claim)
		}
	}
}

func TestBatchProcessor_ProcessClaims_Error(t *testing.T) {
	b := NewBatchProcessor(stubVerifier(), 2)

	results := b.ProcessClaims(context.Background(), []string{"ok claim", "fail claim"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].GetError() != nil {
		t.Errorf("unexpected error: %v", results[0].GetError())
	}
	if results[1].GetError() == nil {
		t.Error("expected error for failing claim")
	}
}

func TestBatchProcessor_ProcessClaims_Empty(t *testing.T) {
	b := NewBatchProcessor(stubVerifier(), 2)

	results := b.ProcessClaims(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessClaims_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	claims := []string{"The capital of France is Paris", "The capital of Italy is Rome", "The capital of Spain is Madrid"}
	results := NewBatchProcessor(stubVerifier(), 2).ProcessClaims(ctx, claims)

	if len(results) != len(claims) {
		t.Fatalf("expected %d results, got %d", len(claims), len(results))
	}
	for i, r := range results {
		if r.Index != i || r.Claim != claims[i] {
			t.Errorf("result %d = (%d, %q), want (%d, %q)", i, r.Index, r.Claim, i, claims[i])
		}
		if !errors.Is(r.Error, ErrNotProcessed) || !errors.Is(r.Error, context.Canceled) {
			t.Errorf("result %d error = %v, want ErrNotProcessed wrapping context.Canceled", i, r.Error)
		}
	}
}

func TestBatchProcessor_ProcessClaims_CancelledMidBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	verifier := ClaimVerifierFunc(func(ctx context.Context, claim string) (model.Envelope, error) {
		if claim == "stop" {
			cancel()
		}
		return model.NewEnvelope(claim, model.Verdict{CorrectAnswer: "Correct. " + claim, Confidence: 0.95}), nil
	})

	claims := make([]string, 50)
	for i := range claims {
		claims[i] = fmt.Sprintf("claim %d", i)
	}
	claims[0] = "stop"

	results := NewBatchProcessor(verifier, 1).ProcessClaims(ctx, claims)

	if len(results) != len(claims) {
		t.Fatalf("expected %d results, got %d", len(claims), len(results))
	}
	for i, r := range results {
		if r.Index != i || r.Claim != claims[i] {
			t.Errorf("result %d = (%d, %q), want (%d, %q)", i, r.Index, r.Claim, i, claims[i])
		}
		if r.Error != nil && !errors.Is(r.Error, ErrNotProcessed) {
			t.Errorf("result %d unexpected error: %v", i, r.Error)
		}
	}
	if results[0].Error != nil {
		t.Errorf("first claim should have been verified, got %v", results[0].Error)
	}
}

func writeClaimsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write claims file: %v", err)
	}
	return path
}

func TestReadClaimsFromFile(t *testing.T) {
	path := writeClaimsFile(t, `# reference claims
The capital of France is Paris

  The capital of Japan is Tokyo  
# The capital of Nowhere is Nothing
The capital of France is Paris
`)

	claims, err := ReadClaimsFromFile(path)
	if err != nil {
		t.Fatalf("ReadClaimsFromFile failed: %v", err)
	}

	want := []string{"The capital of France is Paris", "The capital of Japan is Tokyo"}
	if len(claims) != len(want) {
		t.Fatalf("expected %v, got %v", want, claims)
	}
	for i := range want {
		if claims[i] != want[i] {
			t.Errorf("claim %d = %q, want %q", i, claims[i], want[i])
		}
	}
}

func TestReadClaimsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadClaimsFromFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeClaimsFile(t, "The capital of France is Paris\nThe capital of Japan is Tokyo\n")
	b := NewBatchProcessor(stubVerifier(), 2)

	results, err := b.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	b := NewBatchProcessor(stubVerifier(), 2)
	if _, err := b.ProcessFile(context.Background(), "/nonexistent/claims.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestClaimResult_GetError(t *testing.T) {
	r := &ClaimResult{Error: errors.New("boom")}
	if r.GetError() == nil || r.GetError().Error() != "boom" {
		t.Errorf("unexpected error: %v", r.GetError())
	}
}

package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// ErrNotProcessed marks a claim that was never verified because the batch was cancelled
var ErrNotProcessed = errors.New("claim not processed")

// ClaimVerifier verifies one claim, in process or over HTTP
type ClaimVerifier interface {
	Verify(ctx context.Context, claim string) (model.Envelope, error)
}

// ClaimVerifierFunc adapts a function to ClaimVerifier
type ClaimVerifierFunc func(ctx context.Context, claim string) (model.Envelope, error)

// Verify calls f
func (f ClaimVerifierFunc) Verify(ctx context.Context, claim string) (model.Envelope, error) {
	return f(ctx, claim)
}

// ClaimJob verifies one claim
type ClaimJob struct {
	Index    int
	Claim    string
	Verifier ClaimVerifier
}

// Execute runs the verification
func (j *ClaimJob) Execute(ctx context.Context) Result {
	env, err := j.Verifier.Verify(ctx, j.Claim)
	return &ClaimResult{
		Index:    j.Index,
		Claim:    j.Claim,
		Envelope: env,
		Error:    err,
	}
}

// ClaimResult is the outcome of one claim
type ClaimResult struct {
	Index    int
	Claim    string
	Envelope model.Envelope
	Error    error
}

// GetError returns the verification error, if any
func (r *ClaimResult) GetError() error {
	return r.Error
}

// BatchProcessor verifies many claims concurrently
type BatchProcessor struct {
	verifier    ClaimVerifier
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(verifier ClaimVerifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessClaims verifies claims and returns results in input order
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*ClaimResult {
	if len(claims) == 0 {
		return []*ClaimResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, claim := range claims {
		if !pool.Submit(&ClaimJob{Index: i, Claim: claim, Verifier: b.verifier}) {
			break
		}
	}

	results := pool.Wait()

	claimResults := make([]*ClaimResult, len(claims))
	for _, result := range results {
		r := result.(*ClaimResult)
		claimResults[r.Index] = r
	}

	// Jobs dropped by cancellation still get a result so output lines up with input
	for i, r := range claimResults {
		if r == nil {
			claimResults[i] = &ClaimResult{
				Index: i,
				Claim: claims[i],
				Error: fmt.Errorf("%w: %w", ErrNotProcessed, context.Cause(ctx)),
			}
		}
	}

	return claimResults
}

// ProcessFile reads claims from a file and verifies them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ClaimResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads one claim per line, skipping blanks, # comments and duplicates
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			claims = append(claims, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return claims, nil
}

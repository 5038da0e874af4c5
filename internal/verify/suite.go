package verify

import (
	"context"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// SuiteCase is a claim with its expected correctness
type SuiteCase struct {
	Claim         string `json:"claim"`
	ExpectCorrect bool   `json:"expect_correct"`
}

// ReferenceSuite returns the built-in regression claims
func ReferenceSuite() []SuiteCase {
	return []SuiteCase{
		{"The capital of France is Paris", true},
		{"The capital of Japan is Tokyo", true},
		{"The capital of Germany is Berlin", true},

		{"The capital of France is London", false},
		{"The capital of Japan is Beijing", false},
		{"The capital of Australia is Sydney", false},
		{"The capital of Brazil is Rio de Janeiro", false},
		{"The capital of Canada is Toronto", false},

		{"The capital of United States is Washington, D.C.", true},
		{"The capital of United States is Washington DC", true},
		{"The capital of South Korea is Seoul", true},
	}
}

// CheckFunc verifies one claim, in process or against a service
type CheckFunc func(ctx context.Context, claim string) (model.Verdict, error)

// SuiteResult is the outcome of one case
type SuiteResult struct {
	Case    SuiteCase     `json:"case"`
	Verdict model.Verdict `json:"verdict"`
	Passed  bool          `json:"passed"`
	Error   string        `json:"error,omitempty"`
}

// SuiteSummary aggregates a suite run
type SuiteSummary struct {
	Total   int           `json:"total"`
	Passed  int           `json:"passed"`
	Failed  int           `json:"failed"`
	Errors  int           `json:"errors"`
	Results []SuiteResult `json:"results"`
}

// SuccessRate returns passed cases as a percentage of all cases
func (s SuiteSummary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total) * 100
}

// RunSuite checks every case in order. onResult, if set, is called after each case.
func RunSuite(ctx context.Context, cases []SuiteCase, check CheckFunc, onResult func(int, SuiteResult)) SuiteSummary {
	summary := SuiteSummary{Total: len(cases)}

	for i, tc := range cases {
		if ctx.Err() != nil {
			break
		}

		result := SuiteResult{Case: tc}
		verdict, err := check(ctx, tc.Claim)
		switch {
		case err != nil:
			result.Error = err.Error()
			summary.Errors++
		case passes(tc, verdict):
			result.Verdict = verdict
			result.Passed = true
			summary.Passed++
		default:
			result.Verdict = verdict
			summary.Failed++
		}

		summary.Results = append(summary.Results, result)
		if onResult != nil {
			onResult(i, result)
		}
	}

	return summary
}

func passes(tc SuiteCase, v model.Verdict) bool {
	if tc.ExpectCorrect {
		return strings.HasPrefix(v.CorrectAnswer, "Correct")
	}
	return strings.HasPrefix(v.CorrectAnswer, "Incorrect")
}

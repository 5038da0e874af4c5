package model

// Claim represents a capital assertion extracted from free text
type Claim struct {
	Text           string `json:"text"`            // The raw input text
	Country        string `json:"country"`         // Country as written in the claim
	ClaimedCapital string `json:"claimed_capital"` // Capital as written in the claim
}

// Confidence bands used by every verdict
const (
	ConfidenceDecided float64 = 0.95 // Match or mismatch against a known capital
	ConfidencePartial float64 = 0.5  // Knowledge base reachable but had no answer
	ConfidenceNone    float64 = 0.0  // No claim, remote error or internal error
)

// Verdict is the correctness judgment returned for one claim
type Verdict struct {
	CorrectAnswer string  `json:"correct_answer"`
	Confidence    float64 `json:"confidence"`
}

// Decided reports whether the verdict settled the claim either way
func (v Verdict) Decided() bool {
	return v.Confidence >= ConfidenceDecided
}

package model

import (
	"strings"
	"time"
)

// EnvelopeVersion is the protocol version stamped on every response
const EnvelopeVersion = "1.0"

// ContextTypeFactCheck identifies fact-check context payloads
const ContextTypeFactCheck = "fact_check"

// Envelope is the context payload returned by the fact-check service
type Envelope struct {
	Version string      `json:"version"`
	Context FactContext `json:"context"`
}

// FactContext carries one verified claim
type FactContext struct {
	Type          string  `json:"type"`
	Claim         string  `json:"claim"`
	CorrectAnswer string  `json:"correct_answer"`
	Confidence    float64 `json:"confidence"`
}

// NewEnvelope wraps a verdict for the given claim
func NewEnvelope(claim string, v Verdict) Envelope {
	return Envelope{
		Version: EnvelopeVersion,
		Context: FactContext{
			Type:          ContextTypeFactCheck,
			Claim:         claim,
			CorrectAnswer: v.CorrectAnswer,
			Confidence:    v.Confidence,
		},
	}
}

// Verdict extracts the verdict carried by the envelope
func (e Envelope) Verdict() Verdict {
	return Verdict{
		CorrectAnswer: e.Context.CorrectAnswer,
		Confidence:    e.Context.Confidence,
	}
}

// ScanReport is the result of scanning a page for capital claims
type ScanReport struct {
	SourceURL string       `json:"source_url"` // URL that was scanned
	FetchedAt time.Time    `json:"fetched_at"` // When the scan occurred
	FetchMeta FetchMeta    `json:"fetch_meta"` // HTTP metadata
	Claims    []Envelope   `json:"claims"`     // Detected claims with verdicts
	Summary   TallySummary `json:"summary"`    // Outcome counts
}

// FetchMeta contains HTTP metadata from fetching the source
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
}

// TallySummary counts verdicts by outcome
type TallySummary struct {
	Total      int `json:"total"`
	Correct    int `json:"correct"`
	Incorrect  int `json:"incorrect"`
	Unverified int `json:"unverified"`
}

// Tally counts a set of envelopes by outcome
func Tally(envelopes []Envelope) TallySummary {
	s := TallySummary{Total: len(envelopes)}
	for _, e := range envelopes {
		switch {
		case !e.Verdict().Decided():
			s.Unverified++
		case strings.HasPrefix(e.Context.CorrectAnswer, "Incorrect"):
			s.Incorrect++
		default:
			s.Correct++
		}
	}
	return s
}

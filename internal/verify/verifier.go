// Package verify decides whether a capital claim is true.
package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/knowledge"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/normalize"
	"github.com/sirupsen/logrus"
)

// Verdict messages
const (
	msgUnverifiable = "Unable to verify this claim"
	msgCorrect      = "Correct. The capital of %s is %s."
	msgIncorrect    = "Incorrect. The capital of %s is %s, not %s."
	msgStatus       = "Error querying knowledge base: %d"
	msgNotFound     = "Could not find capital information for %s"
	msgFailure      = "Error checking fact: %s"
)

// Remote answers capital lookups the local table cannot
type Remote interface {
	LookupCapital(ctx context.Context, normalizedCountry, country string) (string, error)
}

// Observer receives the outcome of each verification
type Observer interface {
	ObserveVerification(outcome string)
}

// Outcome labels how a verdict was reached
type Outcome string

const (
	OutcomeNoClaim       Outcome = "no_claim"
	OutcomeLocal         Outcome = "local"
	OutcomeRemote        Outcome = "remote"
	OutcomeRemoteEmpty   Outcome = "remote_empty"
	OutcomeRemoteStatus  Outcome = "remote_status"
	OutcomeRemoteFailure Outcome = "remote_failure"
	OutcomeInternal      Outcome = "internal_error"
)

// resolution is the tagged result of looking a country up
type resolution struct {
	outcome Outcome
	capital string // set for OutcomeLocal and OutcomeRemote
	status  int    // set for OutcomeRemoteStatus
	err     error  // set for OutcomeRemoteFailure
}

// Verifier turns claims into verdicts. It holds only read-only state and is
// safe for concurrent use.
type Verifier struct {
	normalizer *normalize.Normalizer
	store      *knowledge.Store
	remote     Remote
	observer   Observer
	logger     logrus.FieldLogger
}

// Option configures a Verifier
type Option func(*Verifier)

// WithRemote enables the remote fallback for countries missing locally
func WithRemote(r Remote) Option {
	return func(v *Verifier) { v.remote = r }
}

// WithObserver reports verification outcomes
func WithObserver(o Observer) Option {
	return func(v *Verifier) { v.observer = o }
}

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(v *Verifier) { v.logger = l }
}

// New creates a verifier over the given tables
func New(n *normalize.Normalizer, s *knowledge.Store, opts ...Option) *Verifier {
	discard := logrus.New()
	discard.Out = io.Discard

	v := &Verifier{
		normalizer: n,
		store:      s,
		logger:     discard,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify parses text as a capital claim and checks it
func (v *Verifier) Verify(ctx context.Context, text string) model.Verdict {
	claim, err := extract.ParseClaim(text)
	if err != nil {
		v.observe(OutcomeNoClaim)
		return model.Verdict{CorrectAnswer: msgUnverifiable, Confidence: model.ConfidenceNone}
	}
	return v.CheckCapital(ctx, claim.Country, claim.ClaimedCapital)
}

// CheckCapital checks that claimed is the capital of country.
// It always returns a well-formed verdict.
func (v *Verifier) CheckCapital(ctx context.Context, country, claimed string) (verdict model.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.WithField("panic", r).Error("verification panicked")
			v.observe(OutcomeInternal)
			verdict = model.Verdict{
				CorrectAnswer: fmt.Sprintf(msgFailure, fmt.Sprint(r)),
				Confidence:    model.ConfidenceNone,
			}
		}
	}()

	normCountry := v.normalizer.Country(country)
	normClaimed := v.normalizer.Capital(claimed)

	res := v.resolve(ctx, normCountry, country)
	v.observe(res.outcome)

	log := v.logger.WithFields(logrus.Fields{
		"country": country,
		"claimed": claimed,
		"outcome": res.outcome,
	})

	switch res.outcome {
	case OutcomeLocal:
		match := strings.EqualFold(normClaimed, res.capital) || strings.EqualFold(claimed, res.capital)
		log.WithField("match", match).Debug("resolved locally")
		return decided(country, claimed, res.capital, match)

	case OutcomeRemote:
		match := strings.EqualFold(v.normalizer.Capital(res.capital), normClaimed)
		log.WithField("match", match).Debug("resolved remotely")
		return decided(country, claimed, res.capital, match)

	case OutcomeRemoteEmpty:
		log.Info("knowledge base has no capital for country")
		return model.Verdict{
			CorrectAnswer: fmt.Sprintf(msgNotFound, country),
			Confidence:    model.ConfidencePartial,
		}

	case OutcomeRemoteStatus:
		log.WithField("status", res.status).Warn("knowledge base query failed")
		return model.Verdict{
			CorrectAnswer: fmt.Sprintf(msgStatus, res.status),
			Confidence:    model.ConfidenceNone,
		}

	default:
		log.WithError(res.err).Warn("knowledge base unreachable")
		return model.Verdict{
			CorrectAnswer: fmt.Sprintf(msgFailure, errorText(res.err)),
			Confidence:    model.ConfidenceNone,
		}
	}
}

// resolve finds the actual capital, preferring the local table
func (v *Verifier) resolve(ctx context.Context, normCountry, country string) resolution {
	if capital, ok := v.store.Resolve(normCountry, country); ok {
		return resolution{outcome: OutcomeLocal, capital: capital}
	}

	if v.remote == nil {
		return resolution{outcome: OutcomeRemoteEmpty}
	}

	capital, err := v.remote.LookupCapital(ctx, normCountry, country)
	if err == nil {
		return resolution{outcome: OutcomeRemote, capital: capital}
	}

	var statusErr *knowledge.StatusError
	switch {
	case errors.As(err, &statusErr):
		return resolution{outcome: OutcomeRemoteStatus, status: statusErr.StatusCode}
	case errors.Is(err, knowledge.ErrNoBindings):
		return resolution{outcome: OutcomeRemoteEmpty}
	default:
		return resolution{outcome: OutcomeRemoteFailure, err: err}
	}
}

func (v *Verifier) observe(outcome Outcome) {
	if v.observer != nil {
		v.observer.ObserveVerification(string(outcome))
	}
}

func decided(country, claimed, actual string, match bool) model.Verdict {
	if match {
		return model.Verdict{
			CorrectAnswer: fmt.Sprintf(msgCorrect, country, actual),
			Confidence:    model.ConfidenceDecided,
		}
	}
	return model.Verdict{
		CorrectAnswer: fmt.Sprintf(msgIncorrect, country, actual, claimed),
		Confidence:    model.ConfidenceDecided,
	}
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

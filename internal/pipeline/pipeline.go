package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/util"
	"github.com/ppiankov/factcheck/internal/worker"
	"github.com/sirupsen/logrus"
)

// ErrDisallowed is returned when robots.txt forbids fetching the page
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Scanner fetches a page, detects capital claims in its visible text and
// verifies them concurrently
type Scanner struct {
	fetcher *Fetcher
	robots  *util.RobotsChecker // nil when robots.txt is ignored
	batch   *worker.BatchProcessor
	logger  logrus.FieldLogger
}

// NewScanner creates a scanner from configuration
func NewScanner(cfg *model.Config, verifier worker.ClaimVerifier, logger logrus.FieldLogger) *Scanner {
	if logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		logger = l
	}

	h := cfg.HTTP
	s := &Scanner{
		fetcher: NewFetcher(h.Timeout, h.UserAgent, h.MaxBodyBytes, h.InsecureTLS, h.HTTPProxy, h.HTTPSProxy, h.NoProxy),
		batch:   worker.NewBatchProcessor(verifier, cfg.Concurrency.Workers),
		logger:  logger,
	}
	if h.RespectRobots {
		s.robots = util.NewRobotsChecker(h.UserAgent, 10*time.Second, util.NewProxyFunc(h.HTTPProxy, h.HTTPSProxy, h.NoProxy))
	}
	return s
}

// Scan scans a single URL and returns the verified claims found on it
func (s *Scanner) Scan(ctx context.Context, rawURL string) (*model.ScanReport, error) {
	log := s.logger.WithField("url", rawURL)

	if s.robots != nil {
		allowed, delay, err := s.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots: %w", err)
		}
		if !allowed {
			return nil, ErrDisallowed
		}
		if delay > 0 {
			log.WithField("crawl_delay", delay).Debug("robots.txt requests a crawl delay")
		}
	}

	fetched, err := s.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	claims, err := extract.ClaimsFromHTML(fetched.HTML)
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}
	log.WithField("claims", len(claims)).Debug("detected claims")

	envelopes := make([]model.Envelope, 0, len(claims))
	for _, r := range s.batch.ProcessClaims(ctx, claims) {
		if r.Error != nil {
			log.WithError(r.Error).WithField("claim", r.Claim).Warn("claim verification failed")
			envelopes = append(envelopes, model.NewEnvelope(r.Claim, model.Verdict{
				CorrectAnswer: fmt.Sprintf("Error verifying claim: %v", r.Error),
				Confidence:    model.ConfidenceNone,
			}))
			continue
		}
		envelopes = append(envelopes, r.Envelope)
	}

	return &model.ScanReport{
		SourceURL: fetched.FinalURL,
		FetchedAt: time.Now().UTC(),
		FetchMeta: fetched.Meta,
		Claims:    envelopes,
		Summary:   model.Tally(envelopes),
	}, nil
}

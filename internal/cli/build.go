package cli

import (
	"context"
	"io"

	"github.com/ppiankov/factcheck/internal/cache"
	"github.com/ppiankov/factcheck/internal/chat"
	"github.com/ppiankov/factcheck/internal/knowledge"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/normalize"
	"github.com/ppiankov/factcheck/internal/verify"
	"github.com/ppiankov/factcheck/internal/worker"
	"github.com/sirupsen/logrus"
)

// buildVerifier wires the in-process verifier: alias tables, the local
// store and, unless disabled, the cached and rate-limited SPARQL client.
// The returned close function releases the cache backend.
func buildVerifier(cfg *model.Config, m *metrics.Metrics, logger logrus.FieldLogger) (*verify.Verifier, func(), error) {
	closeFn := func() {}
	opts := []verify.Option{
		verify.WithObserver(m),
		verify.WithLogger(logger),
	}

	if !cfg.Knowledge.Disabled {
		remoteCache, err := cache.New(cfg.Cache)
		if err != nil {
			return nil, closeFn, err
		}
		if c, ok := remoteCache.(io.Closer); ok {
			closeFn = func() {
				if err := c.Close(); err != nil {
					logger.WithError(err).Warn("failed to close cache")
				}
			}
		}

		clientOpts := []knowledge.Option{
			knowledge.WithLimiter(worker.NewLimiter(cfg.Knowledge.RequestsPerSecond, cfg.Knowledge.BurstSize)),
			knowledge.WithObserver(m),
			knowledge.WithLogger(logger),
		}
		if remoteCache != nil {
			clientOpts = append(clientOpts, knowledge.WithCache(remoteCache, cfg.Cache.TTL))
		}

		opts = append(opts, verify.WithRemote(knowledge.NewSPARQLClient(cfg.Knowledge, cfg.HTTP, clientOpts...)))
	}

	return verify.New(normalize.Default(), knowledge.DefaultStore(), opts...), closeFn, nil
}

// claimVerifier returns a verifier backed by a running service when
// serviceURL is set, and by the in-process verifier otherwise
func claimVerifier(cfg *model.Config, serviceURL string, logger logrus.FieldLogger) (worker.ClaimVerifier, func(), error) {
	if serviceURL != "" {
		return chat.NewServiceClient(serviceURL, cfg.HTTP.Timeout, cfg.HTTP), func() {}, nil
	}

	v, closeFn, err := buildVerifier(cfg, nil, logger)
	if err != nil {
		return nil, closeFn, err
	}
	return worker.ClaimVerifierFunc(func(ctx context.Context, claim string) (model.Envelope, error) {
		return model.NewEnvelope(claim, v.Verify(ctx, claim)), nil
	}), closeFn, nil
}

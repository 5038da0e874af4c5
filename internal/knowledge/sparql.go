package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/cache"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/util"
	"github.com/sirupsen/logrus"
)

// maxResponseBytes caps how much of a SPARQL response is read
const maxResponseBytes = 1 << 20

// ErrNoBindings is returned when the knowledge base was reachable but neither
// query stage produced a capital.
var ErrNoBindings = errors.New("no capital bindings")

// Stage identifies which query of the two-stage lookup ran
type Stage string

const (
	StageStrict  Stage = "strict"  // Exact label match on normalized or original name
	StageRelaxed Stage = "relaxed" // Substring label match on original name
)

// StatusError reports a non-2xx answer from the strict stage
type StatusError struct {
	Stage      Stage
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s query returned status %d", e.Stage, e.StatusCode)
}

// RateLimiter paces outbound queries
type RateLimiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// QueryObserver receives one observation per query attempt
type QueryObserver interface {
	ObserveQuery(stage string, outcome string, duration time.Duration)
}

// Query outcomes reported to the observer
const (
	OutcomeFound   = "found"
	OutcomeEmpty   = "empty"
	OutcomeStatus  = "status"
	OutcomeFailure = "failure"
)

// SPARQLClient looks capitals up in a SPARQL knowledge base such as Wikidata
type SPARQLClient struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	limiter    RateLimiter
	cache      cache.Cache
	cacheTTL   time.Duration
	observer   QueryObserver
	logger     logrus.FieldLogger
}

// Option configures a SPARQLClient
type Option func(*SPARQLClient)

// WithLimiter paces queries through the given limiter
func WithLimiter(l RateLimiter) Option {
	return func(c *SPARQLClient) { c.limiter = l }
}

// WithCache stores found capitals; empty and failed lookups are never cached
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *SPARQLClient) {
		c.cache = cc
		c.cacheTTL = ttl
	}
}

// WithObserver reports query outcomes and latency
func WithObserver(o QueryObserver) Option {
	return func(c *SPARQLClient) { c.observer = o }
}

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *SPARQLClient) { c.logger = l }
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *SPARQLClient) { c.httpClient = hc }
}

// NewSPARQLClient creates a client for the configured endpoint
func NewSPARQLClient(cfg model.KnowledgeConfig, httpCfg model.HTTPConfig, opts ...Option) *SPARQLClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = model.DefaultUserAgent
	}

	discard := logrus.New()
	discard.Out = io.Discard

	c := &SPARQLClient{
		endpoint:  cfg.Endpoint,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
		logger: discard,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LookupCapital returns the English label of the country's capital.
//
// The strict query matches the normalized or original name exactly. Only when
// it yields zero bindings does the relaxed query match the original name as a
// substring. A non-2xx strict answer returns *StatusError; a non-2xx relaxed
// answer or two empty answers return ErrNoBindings. Any other error is a
// transport or decoding failure.
func (c *SPARQLClient) LookupCapital(ctx context.Context, normalizedCountry, country string) (string, error) {
	key := cache.CacheKey("capital", normalizedCountry, country)
	if c.cache != nil {
		if val, ok := c.cache.Get(key); ok {
			c.logger.WithField("country", country).Debug("remote capital served from cache")
			return string(val), nil
		}
	}

	capital, status, err := c.query(ctx, StageStrict, StrictQuery(normalizedCountry, country))
	if err != nil {
		return "", err
	}
	if !isSuccess(status) {
		return "", &StatusError{Stage: StageStrict, StatusCode: status}
	}

	if capital == "" {
		capital, status, err = c.query(ctx, StageRelaxed, RelaxedQuery(country))
		if err != nil {
			return "", err
		}
		if !isSuccess(status) {
			return "", fmt.Errorf("relaxed query returned status %d: %w", status, ErrNoBindings)
		}
		if capital == "" {
			return "", ErrNoBindings
		}
	}

	if c.cache != nil {
		if err := c.cache.Set(key, []byte(capital), c.cacheTTL); err != nil {
			c.logger.WithError(err).Warn("failed to cache remote capital")
		}
	}

	return capital, nil
}

type sparqlResponse struct {
	Results struct {
		Bindings []sparqlBinding `json:"bindings"`
	} `json:"results"`
}

type sparqlBinding struct {
	CapitalLabel *sparqlValue `json:"capitalLabel"`
}

type sparqlValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// query runs one SPARQL query and returns the first capital label, if any.
// The status code is returned without error so callers can apply stage rules.
func (c *SPARQLClient) query(ctx context.Context, stage Stage, sparql string) (capital string, status int, err error) {
	start := time.Now()
	outcome := OutcomeFailure
	defer func() {
		if c.observer != nil {
			c.observer.ObserveQuery(string(stage), outcome, time.Since(start))
		}
	}()

	log := c.logger.WithField("stage", stage)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.endpoint); err != nil {
			return "", 0, fmt.Errorf("rate limit: %w", err)
		}
	}

	params := url.Values{}
	params.Set("query", sparql)
	params.Set("format", "json")

	reqURL := c.endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/sparql-results+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("knowledge base request failed")
		return "", 0, fmt.Errorf("query knowledge base: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		outcome = OutcomeStatus
		log.WithField("status", resp.StatusCode).Warn("knowledge base returned non-success status")
		return "", resp.StatusCode, nil
	}

	var decoded sparqlResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return "", resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}

	bindings := decoded.Results.Bindings
	if len(bindings) == 0 {
		outcome = OutcomeEmpty
		log.Debug("knowledge base returned no bindings")
		return "", resp.StatusCode, nil
	}

	first := bindings[0]
	if first.CapitalLabel == nil {
		return "", resp.StatusCode, fmt.Errorf("decode response: binding has no capitalLabel")
	}

	outcome = OutcomeFound
	log.WithField("capital", first.CapitalLabel.Value).Debug("knowledge base answered")
	return first.CapitalLabel.Value, resp.StatusCode, nil
}

// StrictQuery finds a country whose English label equals either name, ignoring case
func StrictQuery(normalizedCountry, country string) string {
	return fmt.Sprintf(`SELECT ?capitalLabel WHERE {
  ?country wdt:P31 wd:Q6256;
           rdfs:label ?countryLabel;
           wdt:P36 ?capital.
  ?capital rdfs:label ?capitalLabel.
  FILTER(LANG(?countryLabel) = "en")
  FILTER(LANG(?capitalLabel) = "en")
  FILTER(LCASE(?countryLabel) = LCASE("%s") || LCASE(?countryLabel) = LCASE("%s"))
}
LIMIT 1`, escapeLiteral(normalizedCountry), escapeLiteral(country))
}

// RelaxedQuery finds a country whose English label contains the name, ignoring case
func RelaxedQuery(country string) string {
	return fmt.Sprintf(`SELECT ?country ?countryLabel ?capitalLabel WHERE {
  ?country wdt:P31 wd:Q6256;
           rdfs:label ?countryLabel;
           wdt:P36 ?capital.
  ?capital rdfs:label ?capitalLabel.
  FILTER(LANG(?countryLabel) = "en")
  FILTER(LANG(?capitalLabel) = "en")
  FILTER(CONTAINS(LCASE(?countryLabel), LCASE("%s")))
}
LIMIT 1`, escapeLiteral(country))
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// escapeLiteral makes s safe inside a double-quoted SPARQL string literal
func escapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

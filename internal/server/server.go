// Package server exposes the verifier over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the per-request correlation ID
const RequestIDHeader = "X-Request-ID"

// Verifier checks a single claim
type Verifier interface {
	Verify(ctx context.Context, text string) model.Verdict
}

// FactCheckRequest is the POST /fact-check body
type FactCheckRequest struct {
	Claim *string `json:"claim"`
}

// Server is the fact-check HTTP service
type Server struct {
	verifier Verifier
	cfg      model.ServerConfig
	metrics  *metrics.Metrics
	logger   logrus.FieldLogger
}

// New creates a server. m may be nil to disable metrics.
func New(v Verifier, cfg model.ServerConfig, m *metrics.Metrics, logger logrus.FieldLogger) *Server {
	if logger == nil {
		discard := logrus.New()
		discard.Out = io.Discard
		logger = discard
	}
	return &Server{
		verifier: v,
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestID())
	r.Use(s.requestLogger())

	r.POST("/fact-check", s.handleFactCheck)
	r.GET("/health", s.handleHealth)
	if s.cfg.Metrics && s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.cfg.Addr).Info("fact-check service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down fact-check service")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleFactCheck(c *gin.Context) {
	var req FactCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Claim == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing claim in request"})
		return
	}

	verdict := s.verifier.Verify(c.Request.Context(), *req.Claim)

	s.logger.WithFields(logrus.Fields{
		"request_id": c.GetString(RequestIDHeader),
		"claim":      *req.Claim,
		"confidence": verdict.Confidence,
	}).Info("claim checked")

	c.JSON(http.StatusOK, model.NewEnvelope(*req.Claim, verdict))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// requestID reuses an incoming X-Request-ID or assigns a new one
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.ObserveRequest(route, strconv.Itoa(status))

		s.logger.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDHeader),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency":    time.Since(start),
		}).Debug("request handled")
	}
}

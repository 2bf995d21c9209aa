// Package http exposes the analyzer over HTTP using gin.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/prscope"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ShutdownTimeout bounds how long Close waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Server serves analysis requests.
type Server struct {
	ln     net.Listener
	server *http.Server
	engine *gin.Engine

	reviewer prscope.Reviewer
	logger   logrus.FieldLogger
	limiter  *rate.Limiter
	registry *prometheus.Registry
	metrics  *metrics

	// Addr is the listen address, e.g. ":8080".
	Addr string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithRateLimit limits review requests to rps per second with the given
// burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithRegistry sets the Prometheus registry metrics are recorded in and
// served from.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// NewServer creates a Server backed by reviewer.
func NewServer(reviewer prscope.Reviewer, opts ...Option) *Server {
	s := &Server{
		reviewer: reviewer,
		logger:   logrus.StandardLogger(),
		limiter:  rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.registry)

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestID(), s.observe())

	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	review := s.engine.Group("/review/pr", s.rateLimit())
	review.POST("/", s.handleReview)
	review.POST("/files/", s.handleReviewFiles)

	s.server = &http.Server{Handler: s.engine}
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Open starts listening on Addr and serves in the background.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("http server stopped")
		}
	}()
	s.logger.WithField("addr", s.ln.Addr().String()).Info("http server listening")
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

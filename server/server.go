package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hupe1980/datasetter"
	"github.com/hupe1980/datasetter/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	rateLimitTTL           = 15 * time.Minute
	defaultShutdownTimeout = 10 * time.Second
)

// Server serves mounted datasets over HTTP.
type Server struct {
	cfg       config.ServerConfig
	engine    *gin.Engine
	logger    *datasetter.Logger
	registry  *prometheus.Registry
	collector *PrometheusCollector
	limiter   *RateLimiter
}

type options struct {
	logger   *datasetter.Logger
	registry *prometheus.Registry
}

// Option configures New.
type Option func(*options)

// WithLogger sets the request and query logger.
func WithLogger(logger *datasetter.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = datasetter.NoopLogger()
		}
		o.logger = logger
	}
}

// WithRegistry registers metrics with reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// New builds a gin engine with recovery, request IDs, request logging, optional
// rate limiting and, if cfg.Metrics is set, Prometheus metrics on /metrics.
func New(cfg config.ServerConfig, optFns ...Option) *Server {
	o := options{logger: datasetter.NoopLogger()}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
		o.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	engine := gin.New()
	engine.Use(
		RequestIDMiddleware(),
		RecoveryMiddleware(o.logger),
		LoggerMiddleware(o.logger),
	)

	s := &Server{
		cfg:      cfg,
		engine:   engine,
		logger:   o.logger,
		registry: o.registry,
	}

	if cfg.Metrics {
		s.collector = NewPrometheusCollector(o.registry)
		engine.Use(newHTTPMetrics(o.registry).middleware())
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})))
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.RateLimit > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimit, cfg.Burst, rateLimitTTL)
		engine.Use(RateLimitMiddleware(s.limiter))
	}

	return s
}

// Mount serves ds under /<uri>. Queries are timed, logged and, when metrics
// are enabled, recorded under the dataset label uri.
func (s *Server) Mount(uri string, ds datasetter.Dataset) {
	optFns := []datasetter.Option{
		datasetter.WithName(uri),
		datasetter.WithLogger(s.logger),
	}
	if s.collector != nil {
		optFns = append(optFns, datasetter.WithMetricsCollector(s.collector))
	}
	Mount(s.engine, uri, datasetter.Instrument(ds, optFns...))
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on cfg.Addr until ctx is cancelled, then shuts down gracefully
// within cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

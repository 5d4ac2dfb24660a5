package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/breeze"
	"github.com/fwojciec/breeze/sse"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server serves weather lookups as event streams.
type Server struct {
	weather     breeze.WeatherService
	log         zerolog.Logger
	statusText  string
	corsOrigins []string
	withMetrics bool
	checks      map[string]HealthCheck

	registry *prometheus.Registry
	metrics  *metrics
	engine   *gin.Engine
}

// ServerOption configures a [Server].
type ServerOption func(*Server)

// WithLogger sets the server logger. Default discards output.
func WithLogger(l zerolog.Logger) ServerOption {
	return func(s *Server) { s.log = l }
}

// WithStatusText overrides the notice sent before the upstream call.
func WithStatusText(text string) ServerOption {
	return func(s *Server) { s.statusText = text }
}

// WithCORSOrigins sets the allowed origins. "*" allows any origin, which is
// the default.
func WithCORSOrigins(origins ...string) ServerOption {
	return func(s *Server) { s.corsOrigins = origins }
}

// WithMetrics enables or disables the /metrics endpoint. Enabled by default.
func WithMetrics(enabled bool) ServerOption {
	return func(s *Server) { s.withMetrics = enabled }
}

// WithReadinessCheck adds a dependency check reported by /readyz.
func WithReadinessCheck(name string, check HealthCheck) ServerOption {
	return func(s *Server) { s.checks[name] = check }
}

// NewServer creates a Server answering from weather.
func NewServer(weather breeze.WeatherService, opts ...ServerOption) *Server {
	s := &Server{
		weather:     weather,
		log:         zerolog.Nop(),
		statusText:  DefaultStatusText,
		corsOrigins: []string{"*"},
		withMetrics: true,
		checks:      make(map[string]HealthCheck),
		registry:    prometheus.NewRegistry(),
	}
	for _, o := range opts {
		o(s)
	}
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.metrics = newMetrics(s.registry)
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler serving all gateway routes.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(s.corsConfig()))
	r.Use(requestID(s.log), accessLog())

	r.GET(weatherPath, s.handleWeather)
	r.GET("/healthz", s.handleHealth)
	r.GET("/readyz", s.handleReady)
	if s.withMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}
	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Accept", "Cache-Control", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(s.corsOrigins) == 0 || slices.Contains(s.corsOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.corsOrigins
		cfg.AllowCredentials = true
	}
	return cfg
}

func (s *Server) handleWeather(c *gin.Context) {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing city query parameter"})
		return
	}
	log := loggerFrom(c).With().Str("city", city).Logger()

	s.metrics.inFlight.Inc()
	defer s.metrics.inFlight.Dec()

	c.Header("Content-Type", sse.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	enc := sse.NewEncoder(c.Writer)
	if err := enc.Status(s.statusText); err != nil {
		log.Warn().Err(err).Msg("write status event")
		return
	}

	ctx := c.Request.Context()
	start := time.Now()
	doc, err := s.weather.Weather(ctx, city)
	latency := time.Since(start)

	if err == nil && len(doc) == 0 {
		err = errors.New("empty upstream response")
	}

	result := breeze.WeatherResult{Document: doc}
	outcome := outcomeOK
	if err != nil {
		result = breeze.WeatherFailure(err)
		switch {
		case ctx.Err() != nil:
			outcome = outcomeCanceled
		case errors.Is(err, breeze.ErrUpstreamTimeout):
			outcome = outcomeTimeout
		default:
			outcome = outcomeError
		}
		log.Warn().Err(err).Dur("upstream_latency", latency).Msg("weather lookup failed")
	} else {
		log.Debug().Dur("upstream_latency", latency).Msg("weather lookup succeeded")
	}
	s.metrics.observe(outcome, latency)

	if err := enc.Data(result); err != nil {
		log.Warn().Err(err).Msg("write payload event")
	}
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully, letting open streams finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("gateway listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info().Msg("gateway shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

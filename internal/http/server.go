package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ledgerboard/internal/ledgers"
	applog "ledgerboard/internal/log"
	"ledgerboard/internal/middleware/ratelimit"
	"ledgerboard/internal/middleware/security"
	"ledgerboard/internal/middleware/trace"
	"ledgerboard/internal/report"
)

const (
	routeDashboard = "/dashboard/{userId}"
	routeHealth    = "/healthz"
	routeReady     = "/readyz"
)

// Server serves dashboard reports over JSON.
type Server struct {
	http.Server
	reader         ledgers.LedgerReader
	engine         *report.Engine
	logger         *applog.Logger
	now            func() time.Time
	requestTimeout time.Duration
	limiter        *ratelimit.Limiter
	detector       *security.Detector
	tracer         *trace.Middleware
	shutdownOnce   sync.Once
}

// Options tunes a Server. Zero values fall back to defaults.
type Options struct {
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	AllowedOrigins     []string
	Logger             *applog.Logger
	// Now fixes the clock for "this month"; defaults to time.Now.
	Now func() time.Time
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, reader ledgers.LedgerReader, engine *report.Engine, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 7 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if engine == nil {
		engine = report.NewEngine(report.DefaultOptions())
	}

	limiterCfg := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		limiterCfg.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		reader:         reader,
		engine:         engine,
		logger:         opts.Logger.WithComponent(applog.ComponentHTTP),
		now:            opts.Now,
		requestTimeout: opts.RequestTimeout,
		limiter:        ratelimit.NewLimiter(limiterCfg),
		detector:       security.NewDetector(routeDashboard, routeHealth, routeReady),
	}
	s.tracer = trace.NewMiddleware(s.logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	dashboard := s.limiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited)(http.HandlerFunc(s.handleDashboard))
	mux.Handle("GET "+routeDashboard, dashboard)
	mux.HandleFunc("GET "+routeHealth, handleHealth)
	mux.HandleFunc("GET "+routeReady, s.handleReady)

	var handler http.Handler = mux
	handler = security.NewCORS(opts.AllowedOrigins).Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.detector.Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)

		requests := s.tracer.GetMetrics()
		detections := s.detector.GetMetrics()
		s.logger.InfoContext(ctx, "HTTP server stopped",
			applog.FieldOperation, applog.OpShutdown,
			"total_requests", requests.TotalRequests,
			"server_errors", requests.ServerErrors,
			"suspicious_requests", detections.SuspiciousRequests,
			"unknown_routes", detections.UnknownRoutes,
			"invalid_ip_attempts", detections.InvalidIPAttempts,
			"rate_limited_clients", s.limiter.ActiveClients())
	})

	return shutdownErr
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/time/rate"

	"github.com/laofangxose/au-finance-calculators/internal/calculation"
	"github.com/laofangxose/au-finance-calculators/internal/compare"
	"github.com/laofangxose/au-finance-calculators/internal/config"
	"github.com/laofangxose/au-finance-calculators/internal/transform"
)

// Config holds the HTTP server settings
type Config struct {
	Addr           string
	AllowedOrigins []string
	// RateLimit is requests per second across all clients; zero disables limiting
	RateLimit       float64
	Burst           int
	CacheTTL        time.Duration
	// CacheMaxEntries bounds the in-process result cache
	CacheMaxEntries int
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the settings used when flags and environment are silent
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		AllowedOrigins:  []string{"*"},
		RateLimit:       50,
		Burst:           100,
		CacheTTL:        10 * time.Minute,
		CacheMaxEntries: DefaultMemoryCacheEntries,
		MaxBodyBytes:    1 << 20,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server exposes the calculation engine over HTTP
type Server struct {
	cfg        Config
	engine     *calculation.Engine
	comparer   *compare.CompareEngine
	transforms *transform.TransformRegistry
	parser     *config.InputParser
	cache      ResultCache
	limiter    *rate.Limiter
	logger     calculation.Logger
	tablesHash uint64
}

// New creates a server over engine. A nil cache disables response caching.
func New(engine *calculation.Engine, cache ResultCache, cfg Config) (*Server, error) {
	if engine == nil || engine.Tables == nil {
		return nil, errors.New("server requires an engine with reference tables")
	}
	fingerprint, err := Fingerprint(engine.Tables)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint tables: %w", err)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		cfg:        cfg,
		engine:     engine,
		comparer:   compare.NewCompareEngine(engine),
		transforms: transform.NewTransformRegistry(),
		parser:     &config.InputParser{Strict: true},
		cache:      cache,
		logger:     engine.Logger,
		tablesHash: fingerprint,
	}
	if s.logger == nil {
		s.logger = calculation.NopLogger{}
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s, nil
}

// Handler returns the full middleware chain around the routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/calculate", s.handleCalculate)
	mux.HandleFunc("POST /v1/compare", s.handleCompare)
	mux.HandleFunc("POST /v1/simple-interest", s.handleSimpleInterest)
	mux.HandleFunc("GET /v1/tables", s.handleTables)
	mux.HandleFunc("GET /v1/templates", s.handleTemplates)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, cacheHeader},
	})

	var h http.Handler = mux
	h = s.rateLimit(h)
	h = s.logRequests(h)
	h = requestID(h)
	return c.Handler(h)
}

// ListenAndServe serves HTTP/1.1 and cleartext HTTP/2 until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s (net/http)", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		s.logger.Infof("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// FastHTTPHandler adapts the routes for a fasthttp server
func (s *Server) FastHTTPHandler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(s.Handler())
}

// ListenAndServeFast serves with fasthttp until ctx is cancelled
func (s *Server) ListenAndServeFast(ctx context.Context) error {
	srv := &fasthttp.Server{
		Handler:            s.FastHTTPHandler(),
		Name:               "novated",
		MaxRequestBodySize: int(s.cfg.MaxBodyBytes),
		ReadTimeout:        30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s (fasthttp)", s.cfg.Addr)
		errCh <- srv.ListenAndServe(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		s.logger.Infof("shutting down")
		return srv.ShutdownWithContext(shutdownCtx)
	}
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout > 0 {
		return s.cfg.ShutdownTimeout
	}
	return DefaultConfig().ShutdownTimeout
}

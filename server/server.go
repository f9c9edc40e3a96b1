package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/snipfmt/auth"
	"github.com/jonwraymond/snipfmt/convert"
	"github.com/jonwraymond/snipfmt/health"
	"github.com/jonwraymond/snipfmt/observe"
	"github.com/jonwraymond/snipfmt/resilience"
	"github.com/jonwraymond/snipfmt/snippet"
)

// Store is the snippet storage the server reads and uploads into.
type Store interface {
	snippet.Repository
	Save(ctx context.Context, title, content string) (string, error)
}

// Options wires the server's collaborators. Converter, Store and Searcher
// are required.
type Options struct {
	Converter *convert.Converter
	Store     Store
	Searcher  *snippet.Searcher
	Catalog   snippet.Catalog

	// Health, if set, is served on /healthz, /readyz and /health.
	Health *health.Aggregator

	// Metrics, if set, is served on /metrics.
	Metrics http.Handler

	HTTPMetrics *observe.HTTPMetrics
	Logger      observe.Logger

	// UploadAuth guards POST /upload-snippet. Nil leaves uploads open.
	UploadAuth auth.Authenticator
	UploadRole string

	// UploadLimiter throttles uploads per client address. Nil disables it.
	UploadLimiter *resilience.KeyedRateLimiter

	// MaxUploadBytes caps upload and API request bodies. Default: 1 MiB
	MaxUploadBytes int64

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration
}

// Server handles snipfmt HTTP traffic.
type Server struct {
	opts    Options
	log     observe.Logger
	pages   map[string]*template.Template
	handler http.Handler
}

// New builds the server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Converter == nil || opts.Store == nil || opts.Searcher == nil {
		return nil, errors.New("server: converter, store and searcher are required")
	}
	if err := opts.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = observe.NopLogger()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 1 << 20
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{opts: opts, log: opts.Logger, pages: pages}

	mux := http.NewServeMux()
	s.routes(mux)

	var h http.Handler = recoverer(s, mux)
	h = observe.HTTPMiddleware(observe.HTTPMiddlewareConfig{
		Metrics:      opts.HTTPMetrics,
		Logger:       opts.Logger,
		SkipPrefixes: []string{"/static", "/favicon.ico"},
	}, h)
	s.handler = requestID(h)

	return s, nil
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info(gctx, "listening", observe.F("addr", ln.Addr().String()))
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), s.opts.ShutdownTimeout)
		defer cancel()
		s.log.Info(shutdownCtx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	for _, cat := range s.opts.Catalog {
		mux.HandleFunc("GET /"+cat.Slug, s.handleCategory(cat))
	}
	mux.HandleFunc("GET /yaml-formatter", s.handleFormatter)
	mux.HandleFunc("GET /view/{filename}", s.handleView)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("GET /upload-snippet", s.handleUploadForm)
	mux.Handle("POST /upload-snippet", s.guardUpload(http.HandlerFunc(s.handleUpload)))

	mux.HandleFunc("POST /api/format", s.handleAPI(convert.OpFormat))
	mux.HandleFunc("POST /api/parse", s.handleAPI(convert.OpParse))
	mux.HandleFunc("POST /api/convert", s.handleAPI(convert.OpConvert))

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS())))
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if s.opts.Metrics != nil {
		mux.Handle("GET /metrics", s.opts.Metrics)
	}
	if s.opts.Health != nil {
		health.RegisterHandlers(mux, s.opts.Health)
	}

	mux.HandleFunc("/", s.handleNotFound)
}

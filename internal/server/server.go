// Package server wires the GraphQL handler, the operational endpoints and
// the HTTP server lifecycle together.
package server

import (
	"context"
	"net"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocloud.dev/server/health"
	"gocloud.dev/server/requestlog"

	"go.appointy.com/charql"
	"go.appointy.com/charql/internal/catalog"
	"go.appointy.com/charql/internal/characters"
	"go.appointy.com/charql/internal/config"
	"go.appointy.com/charql/internal/metrics"
)

// Routes served by the server.
const (
	GraphQLPath   = "/graphql"
	MetricsPath   = "/metrics"
	LivenessPath  = "/healthz/liveness"
	ReadinessPath = "/healthz/readiness"
)

// Server is constructed once and run until its context is cancelled.
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	handler http.Handler
}

// New builds the schema and the route table. Nothing listens until Run.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	m := metrics.New()

	client := catalog.New(cfg.BaseURL,
		catalog.WithHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
		catalog.WithLogger(logger.Named("catalog")),
		catalog.WithObserver(m))

	graphqlHandler, err := characters.GetGraphqlServer(client, charql.WithMiddlewares(
		charql.LoggingMiddleware(logger.Named("graphql")),
		m.Middleware(),
	))
	if err != nil {
		return nil, errors.Wrap(err, "building schema")
	}

	readiness := &health.Handler{}
	readiness.Add(client)

	mux := http.NewServeMux()
	mux.Handle(GraphQLPath, graphqlHandler)
	mux.Handle(MetricsPath, m.Handler())
	mux.HandleFunc(LivenessPath, health.HandleLive)
	mux.Handle(ReadinessPath, readiness)
	mux.Handle("/{$}", charql.PlaygroundHandler("charql", GraphQLPath))

	return &Server{
		cfg:     cfg,
		logger:  logger,
		handler: requestlog.NewHandler(&requestLogger{logger: logger.Named("http")}, mux),
	}, nil
}

// Handler returns the root handler of the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.cfg.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("server ready",
		zap.String("url", "http://"+ln.Addr().String()+GraphQLPath),
		zap.String("upstream", s.cfg.BaseURL))

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serving")
	}
	s.logger.Info("server stopped")
	return nil
}

// requestLogger writes requestlog entries through zap.
type requestLogger struct {
	logger *zap.Logger
}

func (l *requestLogger) Log(e *requestlog.Entry) {
	l.logger.Info("request",
		zap.String("method", e.RequestMethod),
		zap.String("url", e.RequestURL),
		zap.Int("status", e.Status),
		zap.Int64("response_size", e.ResponseBodySize),
		zap.Duration("latency", e.Latency),
		zap.String("remote_ip", e.RemoteIP))
}

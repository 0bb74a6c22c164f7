package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nguyentantai21042004/notetaker/internal/logger"
	"github.com/nguyentantai21042004/notetaker/internal/metrics"
	"github.com/nguyentantai21042004/notetaker/internal/pipeline"
)

// Options configures the HTTP presentation server.
type Options struct {
	Addr         string
	AuthToken    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Version      string
}

type Server struct {
	http     *http.Server
	pipeline pipeline.Pipeline
	upgrader websocket.Upgrader
	version  string
	started  time.Time
	logger   logger.Logger
}

// New builds the router: health and metrics are public, the /api/v1 routes
// sit behind bearer auth when a token is configured.
func New(opts Options, p pipeline.Pipeline, log logger.Logger) *Server {
	s := &Server{
		pipeline: p,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		version: opts.Version,
		started: time.Now(),
		logger:  log,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Recoverer(log))
	r.Use(AccessLog(log))
	r.Use(metrics.InstrumentHandler)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuth(opts.AuthToken))
		r.Get("/status", s.handleStatus)
		r.Post("/toggle", s.handleToggle)
		r.Get("/status/ws", s.handleStatusStream)
	})

	s.http = &http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info(ctx, "HTTP server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "HTTP server shutting down")
	return s.http.Shutdown(ctx)
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rratsunrollun/rollun-usps/internal/graphql"
	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Server is the HTTP server for the shipping selection service.
type Server struct {
	port     int
	resolver *graphql.Resolver
	gql      http.Handler
	gatherer prometheus.Gatherer
	logger   *otelzap.Logger
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance. Metrics are served from gatherer.
func New(cfg Config, resolver *graphql.Resolver, gatherer prometheus.Gatherer, logger *otelzap.Logger) *Server {
	return &Server{
		port:     cfg.Port,
		resolver: resolver,
		gql:      graphql.NewHandler(resolver),
		gatherer: gatherer,
		logger:   logger,
	}
}

// Handler returns the HTTP routes of the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// GraphQL endpoint
	mux.HandleFunc("/graphql", s.handleGraphQL)

	// REST
	mux.HandleFunc("/api/v1/best-shipping", s.handleBestShipping)

	return s.withRequestID(mux)
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)

		s.logger.Ctx(r.Context()).Debug("Handling request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Errors []graphQLError `json:"errors"`
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.resolver.Metrics.RecordRequest("graphql", "method_not_allowed")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(graphQLResponse{
			Errors: []graphQLError{{Message: "Method not allowed, use POST"}},
		})
		return
	}

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.gql.ServeHTTP(rec, r)

	switch {
	case rec.status == http.StatusOK:
		s.resolver.Metrics.RecordRequest("graphql", "ok")
	case rec.status == http.StatusUnprocessableEntity:
		s.resolver.Metrics.RecordRequest("graphql", "invalid_query")
	default:
		s.resolver.Metrics.RecordRequest("graphql", "bad_request")
	}
}

// statusRecorder keeps the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type restError struct {
	Error string `json:"error"`
}

func (s *Server) handleBestShipping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeREST(w, http.StatusMethodNotAllowed, restError{Error: "Method not allowed, use GET"})
		return
	}

	productID := r.URL.Query().Get("productId")
	zip := r.URL.Query().Get("zip")

	result, err := s.resolver.Query().SelectShipping(r.Context(), productID, zip)
	switch {
	case errors.Is(err, graphql.ErrMissingArgument), errors.Is(err, shipping.ErrInvalidRequest):
		s.writeREST(w, http.StatusBadRequest, restError{Error: err.Error()})
	case err != nil:
		s.writeREST(w, http.StatusInternalServerError, restError{Error: err.Error()})
	case result == nil:
		s.writeREST(w, http.StatusNotFound, restError{Error: "no eligible shipping method"})
	default:
		s.writeREST(w, http.StatusOK, result)
	}
}

func (s *Server) writeREST(w http.ResponseWriter, status int, body any) {
	s.resolver.Metrics.RecordRequest("rest", http.StatusText(status))
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// File: internal/infra/admin/server.go
package admin

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"prapp-client/internal/infra/metrics"
)

// Server is the local debug listener exposing Prometheus metrics and a
// health probe. Disabled entirely when no address is configured.
type Server struct {
	addr   string
	log    *zerolog.Logger
	server *http.Server
}

func NewServer(addr string, logger *zerolog.Logger) *Server {
	return &Server{addr: addr, log: logger}
}

func (s *Server) Start() error {
	metrics.MustRegister()

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.log.Info().Str("addr", s.addr).Msg("debug listener started")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

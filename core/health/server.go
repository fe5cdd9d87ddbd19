// Package health serves liveness and runtime counters over HTTP.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/m3rciful/quotebot/core/logger"
)

// StatsFunc returns a JSON-encodable snapshot of runtime counters.
type StatsFunc func() map[string]any

// NewRouter builds the health routes: GET /healthz and GET /stats.
func NewRouter(stats StatsFunc) http.Handler {
	started := time.Now()
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		out := map[string]any{}
		if stats != nil {
			for k, v := range stats() {
				out[k] = v
			}
		}
		out["uptime_seconds"] = int64(time.Since(started).Seconds())
		respondJSON(w, http.StatusOK, out)
	})
	return r
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn(context.Background(), "health", "respond.failed", slog.String("err", err.Error()))
	}
}

// Server is a running health endpoint.
type Server struct {
	srv  *http.Server
	addr string
	done chan struct{}
}

// Start listens on addr and serves h in the background.
func Start(addr string, h http.Handler) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		srv:  &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second},
		addr: ln.Addr().String(),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "health", "serve.failed", slog.String("err", err.Error()))
		}
	}()
	logger.Info(context.Background(), "health", "listen", slog.String("listen", s.addr))
	return s, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string { return s.addr }

// Shutdown stops the server and waits for the serve loop to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	<-s.done
	return err
}

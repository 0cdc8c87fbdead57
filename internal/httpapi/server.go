package httpapi

import (
	"context"
	"net/http"
	"time"

	"shev/internal/dispatch"
	"shev/internal/httpapi/middleware"
	"shev/internal/registry"
	"shev/internal/reload"
	"shev/internal/store"
)

// Options configures Server's access-control layer.
type Options struct {
	AllowIPs       []string
	AllowWriteIPs  []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server is the HTTP server exposing shev's REST surface.
type Server struct {
	httpServer *http.Server
}

// NewServer builds the mux, wraps it in the allowlist and rate-limit
// middleware, and returns a Server bound to addr.
func NewServer(addr string, s store.Store, d *dispatch.Dispatcher, reg *registry.Registry, rl *reload.Coordinator, opts Options) *Server {
	h := New(s, d, reg, rl)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /status", h.GetStatus)
	mux.HandleFunc("POST /events", h.CreateEvent)

	mux.HandleFunc("GET /jobs", h.ListJobs)
	mux.HandleFunc("GET /jobs/{id}", h.GetJob)
	mux.HandleFunc("POST /jobs/{id}/cancel", h.CancelJob)

	mux.HandleFunc("GET /handlers", h.ListHandlers)
	mux.HandleFunc("POST /handlers", h.CreateHandler)
	mux.HandleFunc("PUT /handlers/{event_type}", h.UpdateHandler)
	mux.HandleFunc("DELETE /handlers/{event_type}", h.DeleteHandler)

	mux.HandleFunc("GET /timers", h.ListTimers)
	mux.HandleFunc("POST /timers", h.CreateTimer)
	mux.HandleFunc("PUT /timers/{event_type}", h.UpdateTimer)
	mux.HandleFunc("DELETE /timers/{event_type}", h.DeleteTimer)

	mux.HandleFunc("GET /schedules", h.ListSchedules)
	mux.HandleFunc("POST /schedules", h.CreateSchedule)
	mux.HandleFunc("PUT /schedules/{event_type}", h.UpdateSchedule)
	mux.HandleFunc("DELETE /schedules/{event_type}", h.DeleteSchedule)

	mux.HandleFunc("POST /reload", h.Reload)

	mux.HandleFunc("GET /config", h.GetConfig)
	mux.HandleFunc("PUT /config/{key}", h.SetConfig)

	var handler http.Handler = mux
	handler = middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst)(handler)
	handler = middleware.Allowlist(opts.AllowIPs, opts.AllowWriteIPs)(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Run starts the HTTP server. It blocks until ctx is cancelled, then
// shuts down within grace.
func (s *Server) Run(ctx context.Context, grace time.Duration) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

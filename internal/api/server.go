// Package api exposes the staff-dashboard HTTP surface for the
// working-hours workflow.
package api

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"salondesk/internal/hours"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HTTPServer serves the working-hours API.
type HTTPServer struct {
	mux        *http.ServeMux
	view       *hours.View
	tracker    *hours.EditTracker
	dispatcher *hours.Dispatcher
	log        *zerolog.Logger

	apiKey   string
	limiters *clientLimiters
}

// Options configures optional server behavior.
type Options struct {
	// APIKey, when set, is required in the x-api-key header of every
	// request.
	APIKey string
	// RateLimitPerSec caps request throughput per client; zero disables
	// limiting.
	RateLimitPerSec float64
	RateLimitBurst  int
}

// clientLimiters keeps one token bucket per client, identified by api
// key when present and remote address otherwise, so one noisy client
// cannot starve the rest.
type clientLimiters struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

func newClientLimiters(perSec float64, burst int) *clientLimiters {
	if burst <= 0 {
		burst = int(perSec)
	}
	return &clientLimiters{
		limit:   rate.Limit(perSec),
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}
}

func (l *clientLimiters) allow(client string) bool {
	l.mu.Lock()
	lim, ok := l.clients[client]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.clients[client] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// NewHTTPServer wires the handlers and middleware.
func NewHTTPServer(view *hours.View, tracker *hours.EditTracker, dispatcher *hours.Dispatcher, logger *zerolog.Logger, opts Options) *HTTPServer {
	s := &HTTPServer{
		mux:        http.NewServeMux(),
		view:       view,
		tracker:    tracker,
		dispatcher: dispatcher,
		log:        logger,
		apiKey:     opts.APIKey,
	}
	if opts.RateLimitPerSec > 0 {
		s.limiters = newClientLimiters(opts.RateLimitPerSec, opts.RateLimitBurst)
	}

	s.mux.HandleFunc("/api/v1/hours", s.handleListHours)
	s.mux.HandleFunc("/api/v1/hours/edit", s.handleStartEdit)
	s.mux.HandleFunc("/api/v1/hours/field", s.handleFieldChange)
	s.mux.HandleFunc("/api/v1/hours/cancel", s.handleCancelEdit)
	s.mux.HandleFunc("/api/v1/hours/save", s.handleSave)
	s.mux.HandleFunc("/api/v1/hours/closed", s.handleToggleClosed)
	s.mux.HandleFunc("/api/v1/hours/report", s.handleWeekReport)
	return s
}

// Handler returns the server's handler chain.
func (s *HTTPServer) Handler() http.Handler {
	return s.withRequestID(s.withRateLimit(s.withAuth(s.mux)))
}

func (s *HTTPServer) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("x-api-key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid or missing api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiters != nil && !s.limiters.allow(clientKey(r)) {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if key := r.Header.Get("x-api-key"); key != "" {
		return key
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (s *HTTPServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger := s.log.With().Str("request_id", requestID).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

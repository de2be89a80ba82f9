package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Root returns an empty 200 so load balancers get a cheap liveness probe.
	r.Get("/", s.handleRoot)

	// Health check with component detail.
	r.Get("/health", s.handleHealth)

	// The Matrix push gateway endpoint. Homeservers POST notifications
	// here; auth is optional and off by default since the push gateway
	// API is unauthenticated in the wild.
	r.Group(func(r chi.Router) {
		if s.secCfg.Auth.Enabled {
			r.Use(s.authMiddleware)
		}
		r.Post("/_matrix/push/v1/notify", s.handleNotify)
	})

	return r
}

// handleRoot responds with an empty body.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// handleHealth returns basic gateway health as JSON.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", h.handleHealth)

	// WebSocket
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Public API: the paths the scanning devices and kiosk clients hit
	r.Post("/api/voters", h.handleRegisterVoter)
	r.Post("/api/voters/authenticate", h.handleAuthenticateVoter)
	r.Get("/api/candidates", h.handleListCandidates)
	r.Post("/api/votes", h.handleCastVote)
	r.Get("/api/votes", h.handleListVotes)
	r.Get("/api/results", h.handleGetResults)
	r.Get("/api/results/leaders", h.handleGetLeaders)
	r.Get("/api/tally", h.handleGetTally)
	r.Get("/api/election", h.handleGetElectionStatus)

	// Auth routes (public)
	r.Post("/api/admin/login", h.handleLogin)
	r.Post("/api/admin/logout", h.handleLogout)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		r.Post("/api/admin/candidates", h.handleCreateCandidate)
		r.Delete("/api/admin/candidates/{id}", h.handleDeleteCandidate)

		r.Get("/api/admin/voters", h.handleListVoters)

		r.Post("/api/admin/election/open", h.handleOpenElection)
		r.Post("/api/admin/election/close", h.handleCloseElection)
		r.Post("/api/admin/election/reset", h.handleResetElection)

		r.Get("/api/admin/stats", h.handleGetStats)
		r.Get("/api/admin/device-qr", h.handleDeviceQR)
		r.Post("/api/admin/log-level", h.handleSetLogLevel)
	})

	return r
}

// handleHealth reports liveness
func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{"status": "ok"})
}

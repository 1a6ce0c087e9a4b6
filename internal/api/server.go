// Package api provides the HTTP server for CodeQuest.
// It exposes the progression REST API consumed by the game frontend.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codequest-game/codequest/internal/app/progression"
)

// Server is the CodeQuest HTTP API server.
type Server struct {
	engine         *progression.Engine
	metricsEnabled bool
}

// NewServer creates a new API server over the progression engine.
func NewServer(engine *progression.Engine) *Server {
	return &Server{engine: engine}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": "0.1.0",
		})
	})

	r.Route("/api/progression", func(r chi.Router) {
		r.Get("/progress", s.handleProgress)
		r.Get("/stats", s.handleStats)
		r.Get("/performance", s.handlePerformance)
		r.Get("/summary", s.handleSummary)
		r.Post("/submit", s.handleSubmit)
		r.Post("/error", s.handleError)
		r.Post("/github-save", s.handleGitHubSave)
		r.Post("/reset", s.handleReset)

		r.Route("/streak", func(r chi.Router) {
			r.Get("/", s.handleStreak)
			r.Get("/weekly", s.handleWeekly)
			r.Get("/today", s.handleToday)
			r.Get("/monthly", s.handleMonthly)
			r.Get("/analytics", s.handleAnalytics)
			r.Get("/export", s.handleExport)
			r.Post("/goal", s.handleSetGoal)
		})

		r.Route("/achievements", func(r chi.Router) {
			r.Get("/", s.handleAchievements)
			r.Get("/categories", s.handleCategories)
			r.Get("/completion", s.handleCompletion)
			r.Get("/next", s.handleNextAchievements)
			r.Get("/recent", s.handleRecentAchievements)
			r.Get("/{id}/progress", s.handleAchievementProgress)
		})

		r.Get("/mentor", s.handleMentor)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the local game frontend.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package api

import (
	"context"
	"net/http"
	"time"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Welcome to the Skills-Based Hiring Platform API",
		"docs_url":  "/docs",
		"redoc_url": "/redoc",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, check := range s.readiness {
		if err := check.Check(ctx); err != nil {
			s.logger.Warn("readiness check failed", map[string]interface{}{
				"dependency": check.Name,
				"error":      err.Error(),
			})
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":     "not ready",
				"dependency": check.Name,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

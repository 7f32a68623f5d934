package api

import (
	"net/http"

	"hiring-platform/internal/common/errors"
)

func (s *Server) handleMatchSuggestions(w http.ResponseWriter, r *http.Request) {
	if !s.config.Features.MatchSuggestions || s.suggester == nil {
		writeError(w, r, s.logger, errors.NewFeatureDisabledError("match_suggestions"))
		return
	}

	suggestions, err := s.suggester.Suggest(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"hiring-platform/internal/common/errors"
	"hiring-platform/internal/common/validation"
	"hiring-platform/internal/models"
	"hiring-platform/internal/store"
)

func challengeNotFound(id int64) error {
	return errors.NewResourceNotFoundError("challenge", fmt.Sprintf("Challenge with ID %d not found", id))
}

// handleListChallenges uses the search index for q when search is enabled
// and a substring match in Postgres otherwise.
func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	if query != "" && s.search != nil {
		found, err := s.search.Search(r.Context(), query)
		if err != nil {
			writeError(w, r, s.logger, errors.NewSearchQueryFailedError(s.config.Database.Elasticsearch.Index, err))
			return
		}
		writeJSON(w, http.StatusOK, found)
		return
	}

	challenges, err := s.challenges.ListChallenges(r.Context(), query)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, challenges)
}

func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	challenge, err := s.challenges.GetChallenge(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			err = challengeNotFound(id)
		}
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, challenge)
}

func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var in models.ChallengeCreate
	if err := decodeJSON(r, validation.ChallengeCreateSchema, &in); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	company := currentUser(r.Context())

	challenge, err := s.challenges.CreateChallenge(r.Context(), company.ID, in)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	if s.search != nil {
		doc := models.ChallengeWithCompany{Challenge: *challenge, CompanyEmail: company.Email}
		if err := s.search.IndexChallenge(r.Context(), doc); err != nil {
			s.logger.Warn("failed to index challenge", map[string]interface{}{
				"challengeId": challenge.ID,
				"error":       err.Error(),
			})
		}
	}

	s.logger.Info("challenge created", map[string]interface{}{
		"challengeId": challenge.ID,
		"companyId":   company.ID,
	})
	writeJSON(w, http.StatusCreated, challenge)
}

package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"hiring-platform/internal/common/validation"
	"hiring-platform/internal/models"
	"hiring-platform/internal/store"
)

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var in models.SubmissionCreate
	if err := decodeJSON(r, validation.SubmissionCreateSchema, &in); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	candidate := currentUser(r.Context())

	challenge, err := s.challenges.GetChallenge(r.Context(), in.ChallengeID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			err = challengeNotFound(in.ChallengeID)
		}
		writeError(w, r, s.logger, err)
		return
	}

	submission, err := s.submissions.CreateSubmission(r.Context(), candidate.ID, in)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	s.logger.Info("submission created", map[string]interface{}{
		"submissionId": submission.ID,
		"challengeId":  challenge.ID,
		"candidateId":  candidate.ID,
	})

	if s.notifier != nil {
		s.notifySubmission(r.Context(), submission, challenge, candidate)
	}
	writeJSON(w, http.StatusCreated, submission)
}

// notifySubmission never fails the request; delivery problems are logged.
func (s *Server) notifySubmission(ctx context.Context, sub *models.Submission, ch *models.ChallengeWithCompany, candidate *models.User) {
	event := models.SubmissionEvent{
		SubmissionID:   sub.ID,
		ChallengeID:    ch.ID,
		ChallengeTitle: ch.Title,
		CompanyID:      ch.CompanyID,
		CompanyEmail:   ch.CompanyEmail,
		CandidateID:    candidate.ID,
		CandidateEmail: candidate.Email,
		OccurredAt:     sub.Timestamp.Format(time.RFC3339),
	}
	if _, err := s.notifier.NotifySubmission(ctx, event); err != nil {
		s.logger.Warn("submission notification failed", map[string]interface{}{
			"submissionId": sub.ID,
			"error":        err.Error(),
		})
	}
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.submissions.ListSubmissions(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *Server) handleListMySubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.submissions.ListSubmissionsByCandidate(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

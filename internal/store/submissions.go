package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	commonerrors "hiring-platform/internal/common/errors"
	"hiring-platform/internal/models"
)

const submissionColumns = `s.id, s.content, s.timestamp, s.candidate_id, s.challenge_id`

func (s *Store) CreateSubmission(ctx context.Context, candidateID int64, in models.SubmissionCreate) (*models.Submission, error) {
	sub := &models.Submission{
		Content:     in.Content,
		Timestamp:   time.Now().UTC(),
		CandidateID: candidateID,
		ChallengeID: in.ChallengeID,
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO submissions (content, timestamp, candidate_id, challenge_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		sub.Content, sub.Timestamp, candidateID, in.ChallengeID,
	).Scan(&sub.ID)
	if err != nil {
		return nil, commonerrors.NewDatabaseError("create submission", err)
	}
	return sub, nil
}

func (s *Store) ListSubmissions(ctx context.Context) ([]models.SubmissionWithChallenge, error) {
	return s.listWithChallenge(ctx, "list submissions",
		`SELECT `+submissionColumns+`, c.title FROM submissions s JOIN challenges c ON c.id = s.challenge_id ORDER BY s.id`)
}

func (s *Store) ListSubmissionsByCandidate(ctx context.Context, candidateID int64) ([]models.SubmissionWithChallenge, error) {
	return s.listWithChallenge(ctx, "list candidate submissions",
		`SELECT `+submissionColumns+`, c.title FROM submissions s JOIN challenges c ON c.id = s.challenge_id WHERE s.candidate_id = $1 ORDER BY s.id`,
		candidateID)
}

func (s *Store) listWithChallenge(ctx context.Context, op, query string, args ...interface{}) ([]models.SubmissionWithChallenge, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, commonerrors.NewDatabaseError(op, err)
	}
	defer rows.Close()

	out := []models.SubmissionWithChallenge{}
	for rows.Next() {
		var sub models.SubmissionWithChallenge
		if err := rows.Scan(&sub.ID, &sub.Content, &sub.Timestamp, &sub.CandidateID, &sub.ChallengeID, &sub.ChallengeTitle); err != nil {
			return nil, commonerrors.NewDatabaseError(op, err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewDatabaseError(op, err)
	}
	return out, nil
}

// ListSubmissionsOutsideCompany returns submissions whose parent challenge
// belongs to a company other than companyID.
func (s *Store) ListSubmissionsOutsideCompany(ctx context.Context, companyID int64) ([]models.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions s JOIN challenges c ON c.id = s.challenge_id WHERE c.company_id <> $1 ORDER BY s.id`,
		companyID,
	)
	if err != nil {
		return nil, commonerrors.NewDatabaseError("list foreign submissions", err)
	}
	defer rows.Close()

	out := []models.Submission{}
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.Content, &sub.Timestamp, &sub.CandidateID, &sub.ChallengeID); err != nil {
			return nil, commonerrors.NewDatabaseError("scan submission", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewDatabaseError("list foreign submissions", err)
	}
	return out, nil
}

func (s *Store) GetCandidateSubmission(ctx context.Context, id, candidateID int64) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, timestamp, candidate_id, challenge_id FROM submissions WHERE id = $1 AND candidate_id = $2`,
		id, candidateID,
	).Scan(&sub.ID, &sub.Content, &sub.Timestamp, &sub.CandidateID, &sub.ChallengeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, commonerrors.NewDatabaseError("get candidate submission", err)
	}
	return &sub, nil
}

package models

import "context"

type UserRepository interface {
	CreateUser(ctx context.Context, email, hashedPassword string, role Role) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type ChallengeRepository interface {
	CreateChallenge(ctx context.Context, companyID int64, in ChallengeCreate) (*Challenge, error)
	GetChallenge(ctx context.Context, id int64) (*ChallengeWithCompany, error)
	ListChallenges(ctx context.Context, query string) ([]ChallengeWithCompany, error)
	ListChallengesByCompany(ctx context.Context, companyID int64) ([]Challenge, error)
	GetCompanyChallenge(ctx context.Context, id, companyID int64) (*Challenge, error)
}

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, candidateID int64, in SubmissionCreate) (*Submission, error)
	ListSubmissions(ctx context.Context) ([]SubmissionWithChallenge, error)
	ListSubmissionsByCandidate(ctx context.Context, candidateID int64) ([]SubmissionWithChallenge, error)
	ListSubmissionsOutsideCompany(ctx context.Context, companyID int64) ([]Submission, error)
	GetCandidateSubmission(ctx context.Context, id, candidateID int64) (*Submission, error)
}

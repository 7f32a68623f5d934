package models

import "time"

type Submission struct {
	ID          int64     `json:"id" db:"id"`
	Content     string    `json:"content" db:"content"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
	CandidateID int64     `json:"candidate_id" db:"candidate_id"`
	ChallengeID int64     `json:"challenge_id" db:"challenge_id"`
}

type SubmissionCreate struct {
	Content     string `json:"content"`
	ChallengeID int64  `json:"challenge_id"`
}

type SubmissionWithChallenge struct {
	Submission
	ChallengeTitle string `json:"challenge_title" db:"challenge_title"`
}

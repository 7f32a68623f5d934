package models

// MatchSuggestion pairs one of a company's challenges with a submission
// made to another company's challenge.
type MatchSuggestion struct {
	ChallengeID    int64   `json:"challenge_id"`
	ChallengeTitle string  `json:"challenge_title"`
	SubmissionID   int64   `json:"submission_id"`
	MatchScore     float64 `json:"match_score"`
	MatchReason    string  `json:"match_reason"`
}

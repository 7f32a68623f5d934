package models

const (
	NotificationStatusSent     = "sent"
	NotificationStatusPartial  = "partial"
	NotificationStatusFailed   = "failed"
	NotificationStatusDisabled = "disabled"
)

// SubmissionEvent is published when a candidate answers a challenge.
type SubmissionEvent struct {
	EventType      string `json:"eventType"`
	SubmissionID   int64  `json:"submissionId"`
	ChallengeID    int64  `json:"challengeId"`
	ChallengeTitle string `json:"challengeTitle"`
	CompanyID      int64  `json:"companyId"`
	CompanyEmail   string `json:"companyEmail"`
	CandidateID    int64  `json:"candidateId"`
	CandidateEmail string `json:"candidateEmail"`
	OccurredAt     string `json:"occurredAt"`
}

type Notification struct {
	ID        string   `json:"id"`
	Recipient string   `json:"recipient"`
	Channels  []string `json:"channels"`
	Status    string   `json:"status"`
	SentAt    string   `json:"sentAt"`
}

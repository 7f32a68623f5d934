package models

type Challenge struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	CompanyID   int64  `json:"company_id" db:"company_id"`
}

// MatchText is the text the term extractor sees for a challenge.
func (c Challenge) MatchText() string {
	return c.Title + " " + c.Description
}

type ChallengeCreate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ChallengeWithCompany struct {
	Challenge
	CompanyEmail string `json:"company_email" db:"company_email"`
}

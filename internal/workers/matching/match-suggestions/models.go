package matchsuggestions

import (
	"time"

	"hiring-platform/internal/models"
)

type Input struct {
	CompanyID int64 `json:"companyId"`
}

type Output struct {
	Suggestions []models.MatchSuggestion `json:"suggestions"`
	Count       int                      `json:"count"`
	GeneratedAt time.Time                `json:"generatedAt"`
}

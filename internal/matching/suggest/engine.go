// Package suggest pairs a company's challenges with submissions made to
// other companies' challenges and ranks the pairs by term similarity.
package suggest

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"hiring-platform/internal/common/errors"
	"hiring-platform/internal/common/logger"
	"hiring-platform/internal/common/metrics"
	"hiring-platform/internal/common/observability"
	"hiring-platform/internal/matching"
	"hiring-platform/internal/matching/similarity"
	"hiring-platform/internal/models"
)

const (
	DefaultThreshold = 0.3
	DefaultLimit     = 10

	reasonLabel    = "Matching skills: "
	reasonFallback = "General content similarity"
	reasonTerms    = 3
)

var tracer = otel.Tracer("hiring-platform/matching/suggest")

// Repository is the persistence read the engine needs.
type Repository interface {
	ListChallengesByCompany(ctx context.Context, companyID int64) ([]models.Challenge, error)
	ListSubmissionsOutsideCompany(ctx context.Context, companyID int64) ([]models.Submission, error)
}

type TermExtractor interface {
	Extract(ctx context.Context, text string) matching.TermWeights
}

type Config struct {
	Threshold float64
	Limit     int
}

type Engine struct {
	repo      Repository
	extractor TermExtractor
	config    Config
	obs       *observability.Observability
	logger    logger.Logger
}

// NewEngine fills zero config values with the defaults. obs may be nil.
func NewEngine(repo Repository, extractor TermExtractor, cfg Config, obs *observability.Observability, log logger.Logger) *Engine {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	return &Engine{
		repo:      repo,
		extractor: extractor,
		config:    cfg,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"component": "match-suggest"}),
	}
}

// Suggest never returns a nil slice on success.
func (e *Engine) Suggest(ctx context.Context, companyID int64) ([]models.MatchSuggestion, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "suggest")
	span.SetAttributes(attribute.Int64("company.id", companyID))
	defer span.End()

	suggestions, err := e.suggest(ctx, companyID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.obs.RecordSuggestRun(ctx, time.Since(start), "error")
		return nil, err
	}

	span.SetAttributes(attribute.Int("suggestions.count", len(suggestions)))
	e.obs.RecordSuggestRun(ctx, time.Since(start), "success")
	metrics.MatchSuggestionsReturned.Observe(float64(len(suggestions)))

	e.logger.Info("match suggestions computed", map[string]interface{}{
		"companyId":  companyID,
		"count":      len(suggestions),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return suggestions, nil
}

func (e *Engine) suggest(ctx context.Context, companyID int64) ([]models.MatchSuggestion, error) {
	challenges, err := e.repo.ListChallengesByCompany(ctx, companyID)
	if err != nil {
		return nil, databaseError("list company challenges", err)
	}
	submissions, err := e.repo.ListSubmissionsOutsideCompany(ctx, companyID)
	if err != nil {
		return nil, databaseError("list candidate submissions", err)
	}
	if len(challenges) == 0 || len(submissions) == 0 {
		return []models.MatchSuggestion{}, nil
	}

	suggestions := make([]models.MatchSuggestion, 0)
	for _, challenge := range challenges {
		challengeTerms := e.extractor.Extract(ctx, challenge.MatchText())

		for _, submission := range submissions {
			submissionTerms := e.extractor.Extract(ctx, submission.Content)

			score := similarity.Score(challengeTerms, submissionTerms)
			if score <= e.config.Threshold {
				continue
			}

			suggestions = append(suggestions, models.MatchSuggestion{
				ChallengeID:    challenge.ID,
				ChallengeTitle: challenge.Title,
				SubmissionID:   submission.ID,
				MatchScore:     round2(score),
				MatchReason:    matchReason(challengeTerms, submissionTerms),
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].MatchScore > suggestions[j].MatchScore
	})
	if len(suggestions) > e.config.Limit {
		suggestions = suggestions[:e.config.Limit]
	}
	return suggestions, nil
}

// databaseError keeps a StandardError from the store as is.
func databaseError(op string, err error) error {
	if stdErr, ok := errors.As(err); ok {
		return stdErr
	}
	return errors.NewDatabaseError(op, err)
}

func matchReason(challengeTerms, submissionTerms matching.TermWeights) string {
	common := similarity.CommonTerms(challengeTerms, submissionTerms)
	if len(common) == 0 {
		return reasonFallback
	}
	if len(common) > reasonTerms {
		common = common[:reasonTerms]
	}
	return reasonLabel + strings.Join(common, ", ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package matchsuggestions runs the match suggestion engine as a Zeebe job
// so a recruiting process can request suggestions for a company.
package matchsuggestions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"hiring-platform/internal/common/errors"
	"hiring-platform/internal/common/logger"
	"hiring-platform/internal/common/metrics"
	"hiring-platform/internal/common/validation"
	"hiring-platform/internal/models"
)

const TaskType = "match-suggestions"

type Suggester interface {
	Suggest(ctx context.Context, companyID int64) ([]models.MatchSuggestion, error)
}

type Handler struct {
	config       *Config
	suggester    Suggester
	errorHandler *errors.JobErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

func NewHandler(cfg *Config, suggester Suggester, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		suggester:    suggester,
		errorHandler: errors.NewJobErrorHandler(log).WithMaxRetries(cfg.MaxRetries),
		logger:       log,
		now:          time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	timeout := h.config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	input, err := ParseInput([]byte(job.Variables))
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// ParseInput validates the job variables against the job schema.
func ParseInput(variables []byte) (*Input, error) {
	result := validation.MatchSuggestionsJobSchema.ValidateJSON(variables)
	if !result.Valid {
		return nil, errors.NewInvalidInputError(result.Summary())
	}

	var input Input
	if err := json.Unmarshal(variables, &input); err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	suggestions, err := h.suggester.Suggest(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}

	h.logger.Info("suggestions generated", map[string]interface{}{
		"companyId": input.CompanyID,
		"count":     len(suggestions),
	})

	return &Output{
		Suggestions: suggestions,
		Count:       len(suggestions),
		GeneratedAt: h.now().UTC(),
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.fail(ctx, client, job, errors.NewInternalError(err.Error()))
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// BPMNError is what a job worker reports back to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ConvertToBPMNError keeps the error code as the BPMN code so process
// models can catch it by name.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}
	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"errorCategory": GetErrorCategory(stdErr.Code),
			"timestamp":     stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// JobErrorHandler reports a failed job either as a retryable failure or
// as a BPMN error the process can catch.
type JobErrorHandler struct {
	logger     Logger
	maxRetries int
}

func NewJobErrorHandler(logger Logger) *JobErrorHandler {
	return &JobErrorHandler{logger: logger}
}

// WithMaxRetries caps the per-code retry count. Zero or less keeps the
// table values.
func (h *JobErrorHandler) WithMaxRetries(n int) *JobErrorHandler {
	h.maxRetries = n
	return h
}

// Retries is the retry budget a failure with err gets.
func (h *JobErrorHandler) Retries(err error) int {
	return h.convert(Normalize(err)).Retries
}

func (h *JobErrorHandler) convert(stdErr *StandardError) *BPMNError {
	bpmnErr := ConvertToBPMNError(stdErr)
	if h.maxRetries > 0 && bpmnErr.Retries > h.maxRetries {
		bpmnErr.Retries = h.maxRetries
	}
	return bpmnErr
}

func (h *JobErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := Normalize(err)
	bpmnErr := h.convert(stdErr)

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"message":          stdErr.Message,
		"details":          stdErr.Details,
		"retries":          bpmnErr.Retries,
		"workflowInstance": job.ProcessInstanceKey,
	})

	if bpmnErr.Retries > 0 && job.Retries > 0 {
		h.failJob(ctx, client, job, bpmnErr)
		return
	}
	h.throwError(ctx, client, job, bpmnErr)
}

func (h *JobErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	retries := bpmnErr.Retries
	if int(job.Retries) < retries {
		retries = int(job.Retries)
	}
	// Retries is the remaining count, so one attempt is consumed here.
	remaining := int32(retries - 1)
	if remaining < 0 {
		remaining = 0
	}

	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(remaining).
		ErrorMessage(bpmnErr.Message)

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send fail job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *JobErrorHandler) throwError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables())
	if err == nil {
		if withVars, verr := cmd.VariablesFromString(string(varsJSON)); verr == nil {
			if _, serr := withVars.Send(ctx); serr != nil {
				h.logger.Error("failed to throw error", map[string]interface{}{
					"jobKey": job.Key,
					"error":  serr.Error(),
				})
			}
			return
		}
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"hiring-platform/internal/common/logger"
	"hiring-platform/internal/common/metrics"
)

// JobHandler completes or fails the job itself.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
}

// Worker polls one job type. The zbc client is owned by the caller.
type Worker struct {
	client   zbc.Client
	handler  JobHandler
	options  WorkerOptions
	taskType string
	worker   worker.JobWorker
	logger   logger.Logger
}

func NewWorker(client zbc.Client, taskType string, handler JobHandler, opts WorkerOptions, log logger.Logger) *Worker {
	if opts.MaxJobsActive <= 0 {
		opts.MaxJobsActive = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Worker{
		client:   client,
		handler:  handler,
		options:  opts,
		taskType: taskType,
		logger:   log.WithFields(map[string]interface{}{"taskType": taskType}),
	}
}

func (w *Worker) Start() {
	w.worker = w.client.NewJobWorker().
		JobType(w.taskType).
		Handler(w.handle).
		MaxJobsActive(w.options.MaxJobsActive).
		Timeout(w.options.Timeout).
		Name("hiring-platform").
		Open()

	w.logger.Info("worker started", map[string]interface{}{
		"maxJobsActive": w.options.MaxJobsActive,
		"timeout":       w.options.Timeout.String(),
	})
}

func (w *Worker) handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	w.handler.Handle(client, job)
	metrics.WorkerJobDuration.WithLabelValues(w.taskType).Observe(time.Since(start).Seconds())
}

// Stop blocks until in-flight jobs finish.
func (w *Worker) Stop() {
	if w.worker == nil {
		return
	}
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}

// internal/common/camunda/worker.go
package camunda

import (
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"assistant-console/internal/common/config"
	"assistant-console/internal/common/logger"
)

// JobHandler is satisfied by every assistant worker handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Workers keeps the job workers opened against one client so they can be
// closed together on shutdown.
type Workers struct {
	mu      sync.Mutex
	client  zbc.Client
	workers map[string]worker.JobWorker
	logger  logger.Logger
}

func NewWorkers(client zbc.Client, log logger.Logger) *Workers {
	return &Workers{
		client:  client,
		workers: make(map[string]worker.JobWorker),
		logger:  log,
	}
}

// Register opens a job worker for taskType unless it is disabled. It reports
// whether a worker was opened.
func (w *Workers) Register(taskType string, wcfg config.WorkerConfig, handler JobHandler) bool {
	if !wcfg.Enabled {
		w.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jobWorker := w.client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	w.mu.Lock()
	w.workers[taskType] = jobWorker
	w.mu.Unlock()

	w.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// Close stops every registered worker and waits for in-flight jobs.
func (w *Workers) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for taskType, jobWorker := range w.workers {
		w.logger.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		jobWorker.Close()
		jobWorker.AwaitClose()
	}
	w.workers = make(map[string]worker.JobWorker)
}

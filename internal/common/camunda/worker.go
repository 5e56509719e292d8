package camunda

import (
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"govscheme-workers/internal/common/config"
	"govscheme-workers/internal/common/logger"
	"govscheme-workers/internal/common/metrics"
)

// Workers opens job workers against one client and closes them together.
type Workers struct {
	client zbc.Client
	log    logger.Logger

	mu      sync.Mutex
	open    map[string]worker.JobWorker
	skipped []string
}

func NewWorkers(client zbc.Client, log logger.Logger) *Workers {
	return &Workers{client: client, log: log, open: make(map[string]worker.JobWorker)}
}

// Start opens a worker for taskType unless wcfg disables it.
func (w *Workers) Start(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !wcfg.Enabled {
		w.skipped = append(w.skipped, taskType)
		w.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	jw := w.client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()
	w.open[taskType] = jw

	w.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
}

// Instrument tracks in-flight jobs per task type.
func Instrument(taskType string, handler worker.JobHandler) worker.JobHandler {
	gauge := metrics.WorkerJobsActive.WithLabelValues(taskType)
	return func(client worker.JobClient, job entities.Job) {
		gauge.Inc()
		defer gauge.Dec()
		handler(client, job)
	}
}

func (w *Workers) Started() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.open))
	for taskType := range w.open {
		out = append(out, taskType)
	}
	return out
}

// Close stops every worker and waits for in-flight jobs.
func (w *Workers) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for taskType, jw := range w.open {
		jw.Close()
		jw.AwaitClose()
		w.log.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
	w.open = make(map[string]worker.JobWorker)
}

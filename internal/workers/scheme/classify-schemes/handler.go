package classifyschemes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "govscheme-workers/internal/common/errors"
	"govscheme-workers/internal/common/logger"
	"govscheme-workers/internal/common/metrics"
	"govscheme-workers/internal/scheme"
)

const TaskType = "scheme-classify"

type Handler struct {
	config     *Config
	classifier *scheme.Classifier
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		classifier: scheme.NewClassifier(scheme.DefaultKeywords()),
		errors:     apperrors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		code := h.errors.HandleJobError(context.Background(), client, job,
			apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		metrics.ObserveJob(TaskType, start, code)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output := h.Execute(ctx, &input)
	h.completeJob(client, job, output)
	metrics.ObserveJob(TaskType, start, "")
}

// Execute tags every scheme as central or state. It cannot fail; an empty
// list yields empty output.
func (h *Handler) Execute(_ context.Context, input *Input) *Output {
	classified := h.classifier.ClassifyAll(input.Schemes)
	counts := scheme.Summarize(classified)

	metrics.SchemesClassified.WithLabelValues(string(scheme.KindCentral)).Add(float64(counts.Central))
	metrics.SchemesClassified.WithLabelValues(string(scheme.KindState)).Add(float64(counts.State))

	output := &Output{
		Schemes:      classified,
		Counts:       counts,
		KeywordTable: h.classifier.Version(),
	}
	if h.config.Details {
		output.Details = make([]scheme.Detail, 0, len(classified))
		for _, s := range classified {
			output.Details = append(output.Details, scheme.DetailOf(s))
		}
	}

	h.logger.Debug("schemes classified", map[string]interface{}{
		"central": counts.Central,
		"state":   counts.State,
	})
	return output
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
	}
}

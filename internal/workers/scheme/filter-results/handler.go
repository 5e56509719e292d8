package filterresults

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
	"govscheme-workers/internal/session"
)

const TaskType = "scheme-filter-results"

type Controller interface {
	Results(ctx context.Context, id string, filter scheme.Filter, mode scheme.SortMode) (*scheme.View, error)
}

type Handler struct {
	config     *Config
	controller Controller
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, controller Controller, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		controller: controller,
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
		h.failJob(client, job, start, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, start, session.ToStandardError(err, input.SessionID))
		return
	}

	h.completeJob(client, job, output)
	metrics.ObserveJob(TaskType, start, "")
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" {
		return nil, apperrors.NewInvalidInputError("sessionId is required")
	}

	filter := h.config.DefaultFilter
	if input.Filter != "" {
		f, err := scheme.ParseFilter(input.Filter)
		if err != nil {
			return nil, err
		}
		filter = f
	}
	mode := h.config.DefaultSort
	if input.Sort != "" {
		m, err := scheme.ParseSort(input.Sort)
		if err != nil {
			return nil, err
		}
		mode = m
	}

	view, err := h.controller.Results(ctx, input.SessionID, filter, mode)
	if err != nil {
		return nil, err
	}

	details := make([]scheme.Detail, 0, len(view.Schemes))
	for _, s := range view.Schemes {
		details = append(details, scheme.DetailOf(s))
	}

	return &Output{
		SessionID: input.SessionID,
		Schemes:   details,
		Counts:    view.Counts,
		Filter:    view.Filter,
		Sort:      view.Sort,
		Empty:     view.Empty,
		Suggested: view.Suggested,
	}, nil
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, start time.Time, err error) {
	code := h.errors.HandleJobError(context.Background(), client, job, err)
	metrics.ObserveJob(TaskType, start, code)
}

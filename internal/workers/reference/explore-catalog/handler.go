// Package explorecatalog serves the static reference lists (categories,
// states and union territories, central ministries) behind the explorer page.
package explorecatalog

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
	"govscheme-workers/internal/reference"
)

const TaskType = "reference-explore"

type Handler struct {
	config *Config
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
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

	output, err := h.Execute(&input)
	if err != nil {
		h.failJob(client, job, start, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.ObserveJob(TaskType, start, "")
}

func (h *Handler) Execute(input *Input) (*Output, error) {
	tab := input.Tab
	if tab == "" {
		tab = h.config.DefaultTab
	}

	page, err := reference.Explore(reference.ExplorerQuery{
		Tab:     tab,
		Filter:  input.Filter,
		ShowAll: input.ShowAll,
	})
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}

	output := &Output{
		Tab:       page.Tab,
		Items:     page.Items,
		Matched:   page.Matched,
		Total:     page.Total,
		Truncated: page.Truncated,
		Empty:     page.Matched == 0,
	}
	if output.Empty {
		output.Suggestions = reference.SearchSuggestions()
	}
	if input.IncludeLanguages {
		output.Languages = reference.Languages()
	}

	h.logger.Debug("explorer page built", map[string]interface{}{
		"tab":     page.Tab,
		"matched": page.Matched,
	})
	return output, nil
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

package searchdirectory

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
	"govscheme-workers/internal/session"
)

const TaskType = "scheme-search-directory"

type Controller interface {
	RunSearch(ctx context.Context, id, query string) (*session.Outcome, error)
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

// Execute runs the search. A blank query is rejected with suggestions
// attached so the process can prompt again.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" {
		input.SessionID = session.NewID()
	}

	outcome, err := h.controller.RunSearch(ctx, input.SessionID, input.Query)
	if err != nil {
		stdErr := session.ToStandardError(err, input.SessionID)
		if stdErr.Code == apperrors.ErrCodeEmptySearchQuery {
			return nil, stdErr.WithMetadata("suggestions", reference.SearchSuggestions())
		}
		return nil, stdErr
	}

	st := outcome.State
	h.logger.Info("search completed", map[string]interface{}{
		"sessionId": input.SessionID,
		"hits":      len(st.SearchResults),
		"stale":     outcome.Stale,
	})

	output := &Output{
		SessionID:   input.SessionID,
		CurrentView: st.CurrentView,
		Query:       st.SearchQuery,
		Results:     st.SearchResults,
		ResultCount: len(st.SearchResults),
		Notice:      st.Notice,
		Stale:       outcome.Stale,
	}
	if output.ResultCount == 0 {
		output.Suggestions = reference.SearchSuggestions()
	}
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

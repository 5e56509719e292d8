package fetchrecommendations

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
	"govscheme-workers/internal/models"
	"govscheme-workers/internal/scheme"
	"govscheme-workers/internal/session"
)

const TaskType = "scheme-fetch-recommendations"

type Controller interface {
	SubmitProfile(ctx context.Context, id string, profile models.UserProfile) (*session.Outcome, error)
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
		stdErr := session.ToStandardError(err, input.SessionID)
		if output != nil {
			// The session already shows the failure; hand its view to the process.
			stdErr = stdErr.WithMetadata("sessionId", output.SessionID).
				WithMetadata("currentView", string(output.CurrentView))
		}
		h.failJob(client, job, start, stdErr)
		return
	}

	h.completeJob(client, job, output)
	metrics.ObserveJob(TaskType, start, "")
}

// Execute submits the profile. On a backend failure both the session's
// output and the error are returned.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" {
		input.SessionID = session.NewID()
	}

	outcome, err := h.controller.SubmitProfile(ctx, input.SessionID, input.Profile)
	if outcome == nil {
		return nil, err
	}

	st := outcome.State
	output := &Output{
		SessionID:    input.SessionID,
		CurrentView:  st.CurrentView,
		TotalMatches: st.TotalMatches,
		Counts:       scheme.Summarize(st.Results),
		Schemes:      st.Results,
		Notice:       st.Notice,
		Generation:   st.Generation,
		Stale:        outcome.Stale,
	}

	h.logger.Info("recommendations processed", map[string]interface{}{
		"sessionId":    input.SessionID,
		"currentView":  st.CurrentView,
		"totalMatches": st.TotalMatches,
		"stale":        outcome.Stale,
	})
	return output, err
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

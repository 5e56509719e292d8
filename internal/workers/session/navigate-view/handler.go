package navigateview

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
	"govscheme-workers/internal/session"
)

const TaskType = "session-navigate"

type Controller interface {
	State(ctx context.Context, id string) (*models.SessionState, error)
	Navigate(ctx context.Context, id string, view models.View) (*models.SessionState, error)
	SetLanguage(ctx context.Context, id, code string) (*models.SessionState, error)
	ConsumeNotice(ctx context.Context, id string) (*models.Notice, error)
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

// Execute applies the language before the view. With neither set it only
// reports the current state.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" {
		return nil, apperrors.NewInvalidInputError("sessionId is required")
	}
	if input.View != "" && !input.View.Valid() {
		return nil, apperrors.NewInvalidViewError(string(input.View))
	}

	var (
		st  *models.SessionState
		err error
	)
	if input.Language != "" {
		if st, err = h.controller.SetLanguage(ctx, input.SessionID, input.Language); err != nil {
			return nil, err
		}
	}
	if input.View != "" {
		if st, err = h.controller.Navigate(ctx, input.SessionID, input.View); err != nil {
			return nil, err
		}
	}
	if st == nil {
		if st, err = h.controller.State(ctx, input.SessionID); err != nil {
			return nil, err
		}
	}

	output := &Output{
		SessionID:   input.SessionID,
		CurrentView: st.CurrentView,
		Language:    st.Language,
		Generation:  st.Generation,
	}
	if input.ConsumeNotice {
		notice, err := h.controller.ConsumeNotice(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}
		output.Notice = notice
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

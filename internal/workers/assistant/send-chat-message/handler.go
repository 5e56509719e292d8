package sendchatmessage

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
	"govscheme-workers/internal/reference"
	"govscheme-workers/internal/session"
)

const TaskType = "assistant-send-chat"

type Controller interface {
	SendChat(ctx context.Context, id, message string) (*session.Outcome, error)
	ClearChat(ctx context.Context, id string) (*models.SessionState, error)
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

// Execute sends one chat message. Backend trouble never fails the job; the
// reply is then one of the fallback texts.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" {
		return nil, apperrors.NewInvalidInputError("sessionId is required")
	}

	if input.Clear {
		st, err := h.controller.ClearChat(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}
		h.logger.Debug("chat cleared", map[string]interface{}{
			"sessionId": st.ID,
			"chatEpoch": st.ChatEpoch,
		})
		return &Output{
			SessionID:   input.SessionID,
			Transcript:  []models.ChatTurn{},
			Suggestions: reference.ChatSuggestions(),
		}, nil
	}

	outcome, err := h.controller.SendChat(ctx, input.SessionID, input.Message)
	if err != nil {
		return nil, err
	}

	output := &Output{
		SessionID:  input.SessionID,
		Transcript: h.tail(outcome.State.Chat),
		Stale:      outcome.Stale,
	}
	if n := len(outcome.State.Chat); !outcome.Stale && n > 0 && outcome.State.Chat[n-1].Role == models.ChatRoleBot {
		output.Reply = outcome.State.Chat[n-1].Text
	}
	if len(output.Transcript) == 0 {
		output.Suggestions = reference.ChatSuggestions()
	}
	return output, nil
}

func (h *Handler) tail(chat []models.ChatTurn) []models.ChatTurn {
	if limit := h.config.TranscriptLimit; limit > 0 && len(chat) > limit {
		chat = chat[len(chat)-limit:]
	}
	return append([]models.ChatTurn{}, chat...)
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

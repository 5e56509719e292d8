package sendchatmessage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "govscheme-workers/internal/common/errors"
	gateway "govscheme-workers/internal/common/http"
	"govscheme-workers/internal/common/logger"
	"govscheme-workers/internal/models"
	"govscheme-workers/internal/session"
)

type chatBackend struct {
	status   int
	response string
	last     map[string]interface{}
}

func (b *chatBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = json.NewDecoder(r.Body).Decode(&b.last)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": b.status == http.StatusOK, "response": b.response})
}

func setupHandler(t *testing.T, backend *chatBackend, limit int) *Handler {
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	log := logger.NewTestLogger(t)
	gw := gateway.NewGateway(gateway.GatewayConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, log)
	ctrl := session.NewController(session.NewMemoryStore(), gw, log, session.Options{})
	return NewHandler(&Config{Timeout: 5 * time.Second, TranscriptLimit: limit}, ctrl, log)
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		response  string
		wantReply string
	}{
		{name: "answer", status: http.StatusOK, response: "PM-KISAN pays Rs 6000 a year.", wantReply: "PM-KISAN pays Rs 6000 a year."},
		{name: "empty answer", status: http.StatusOK, response: "", wantReply: session.ChatFallbackEmpty},
		{name: "backend error", status: http.StatusBadGateway, response: "upstream", wantReply: session.ChatFallbackError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &chatBackend{status: tt.status, response: tt.response}
			h := setupHandler(t, backend, 0)

			output, err := h.Execute(context.Background(), &Input{SessionID: "s-1", Message: "Schemes for farmers?"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantReply, output.Reply)
			require.Len(t, output.Transcript, 2)
			assert.Equal(t, models.ChatRoleUser, output.Transcript[0].Role)
			assert.Empty(t, output.Suggestions)

			assert.Equal(t, "Schemes for farmers?", backend.last["message"])
			assert.Equal(t, "en", backend.last["language"])
		})
	}
}

func TestHandler_Execute_TranscriptLimit(t *testing.T) {
	h := setupHandler(t, &chatBackend{status: http.StatusOK, response: "ok"}, 3)

	var output *Output
	var err error
	for _, msg := range []string{"one", "two", "three"} {
		output, err = h.Execute(context.Background(), &Input{SessionID: "s-1", Message: msg})
		require.NoError(t, err)
	}
	require.Len(t, output.Transcript, 3)
	assert.Equal(t, "ok", output.Transcript[0].Text)
	assert.Equal(t, "three", output.Transcript[1].Text)
}

func TestHandler_Execute_Clear(t *testing.T) {
	h := setupHandler(t, &chatBackend{status: http.StatusOK, response: "ok"}, 0)
	ctx := context.Background()

	_, err := h.Execute(ctx, &Input{SessionID: "s-1", Message: "hello"})
	require.NoError(t, err)

	output, err := h.Execute(ctx, &Input{SessionID: "s-1", Clear: true})
	require.NoError(t, err)
	assert.Empty(t, output.Transcript)
	assert.NotEmpty(t, output.Suggestions)
}

func TestHandler_Execute_Rejects(t *testing.T) {
	h := setupHandler(t, &chatBackend{status: http.StatusOK}, 0)

	_, err := h.Execute(context.Background(), &Input{SessionID: "s-1", Message: "  "})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeEmptyChatMessage, session.ToStandardError(err, "s-1").Code)

	_, err = h.Execute(context.Background(), &Input{Message: "hi"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}

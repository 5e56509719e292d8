package fetchrecommendations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"govscheme-workers/internal/common/config"
	apperrors "govscheme-workers/internal/common/errors"
	"govscheme-workers/internal/common/logger"
	"govscheme-workers/internal/models"
	"govscheme-workers/internal/scheme"
	"govscheme-workers/internal/session"
)

type MockController struct {
	mock.Mock
}

func (m *MockController) SubmitProfile(ctx context.Context, id string, profile models.UserProfile) (*session.Outcome, error) {
	args := m.Called(ctx, id, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Outcome), args.Error(1)
}

func createTestHandler(t *testing.T, ctrl Controller) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, ctrl, logger.NewTestLogger(t))
}

func resultsState(id string) *models.SessionState {
	st := models.NewSessionState(id, "en")
	st.CurrentView = models.ViewResults
	st.Generation = 1
	st.TotalMatches = 2
	st.Results = []models.Scheme{
		{Name: "PM-KISAN", Type: string(scheme.KindCentral)},
		{Name: "Bihar Student Credit Card", Type: string(scheme.KindState)},
	}
	st.Notice = &models.Notice{Kind: models.NoticeSuccess, Message: "Found 2 schemes for you!"}
	return st
}

func TestHandler_Execute_Success(t *testing.T) {
	ctrl := &MockController{}
	ctrl.On("SubmitProfile", mock.Anything, "s-1", mock.AnythingOfType("models.UserProfile")).
		Return(&session.Outcome{State: resultsState("s-1")}, nil)

	output, err := createTestHandler(t, ctrl).Execute(context.Background(), &Input{SessionID: "s-1"})
	require.NoError(t, err)
	assert.Equal(t, models.ViewResults, output.CurrentView)
	assert.Equal(t, 2, output.TotalMatches)
	assert.Equal(t, scheme.Counts{All: 2, Central: 1, State: 1}, output.Counts)
	assert.Len(t, output.Schemes, 2)
	assert.False(t, output.Stale)
	ctrl.AssertExpectations(t)
}

func TestHandler_Execute_ZeroMatches(t *testing.T) {
	st := models.NewSessionState("s-0", "en")
	st.CurrentView = models.ViewResults
	st.Generation = 1
	st.Results = []models.Scheme{}
	st.Notice = &models.Notice{Kind: models.NoticeSuccess, Message: "Found 0 schemes for you!"}

	ctrl := &MockController{}
	ctrl.On("SubmitProfile", mock.Anything, "s-0", mock.Anything).Return(&session.Outcome{State: st}, nil)

	output, err := createTestHandler(t, ctrl).Execute(context.Background(), &Input{SessionID: "s-0"})
	require.NoError(t, err)
	assert.Equal(t, models.ViewResults, output.CurrentView)
	assert.Zero(t, output.TotalMatches)
	assert.Equal(t, scheme.Counts{}, output.Counts)
	assert.Empty(t, output.Schemes)
	require.NotNil(t, output.Notice)
	assert.Equal(t, "Found 0 schemes for you!", output.Notice.Message)
}

func TestHandler_Execute_AssignsSessionID(t *testing.T) {
	ctrl := &MockController{}
	ctrl.On("SubmitProfile", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(&session.Outcome{State: resultsState("generated")}, nil)

	input := &Input{}
	output, err := createTestHandler(t, ctrl).Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, input.SessionID, 36)
	assert.Equal(t, input.SessionID, output.SessionID)
}

func TestHandler_Execute_BackendFailureKeepsState(t *testing.T) {
	st := models.NewSessionState("s-2", "en")
	st.Notice = &models.Notice{Kind: models.NoticeError, Message: session.NoticeBackendDown}
	backendErr := apperrors.NewGatewayUnavailableError("recommend", errors.New("refused"))

	ctrl := &MockController{}
	ctrl.On("SubmitProfile", mock.Anything, "s-2", mock.Anything).
		Return(&session.Outcome{State: st}, backendErr)

	output, err := createTestHandler(t, ctrl).Execute(context.Background(), &Input{SessionID: "s-2"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeGatewayUnavailable))
	require.NotNil(t, output)
	assert.Equal(t, models.ViewHome, output.CurrentView)
	assert.Equal(t, session.NoticeBackendDown, output.Notice.Message)
}

func TestHandler_Execute_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantBPMN string
	}{
		{
			name:     "invalid profile",
			err:      apperrors.NewProfileValidationFailedError("age: out of range"),
			wantBPMN: "PROFILE_INVALID",
		},
		{
			name:     "request in flight",
			err:      session.ErrRequestInFlight,
			wantBPMN: "REQUEST_IN_FLIGHT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &MockController{}
			ctrl.On("SubmitProfile", mock.Anything, "s-3", mock.Anything).Return(nil, tt.err)

			output, err := createTestHandler(t, ctrl).Execute(context.Background(), &Input{SessionID: "s-3"})
			require.Error(t, err)
			assert.Nil(t, output)

			bpmn := apperrors.ConvertToBPMNError(session.ToStandardError(err, "s-3"))
			assert.Equal(t, tt.wantBPMN, bpmn.Code)
			assert.Zero(t, bpmn.Retries)
		})
	}
}

func TestHandler_Execute_Stale(t *testing.T) {
	st := models.NewSessionState("s-4", "en")
	st.CurrentView = models.ViewAbout

	ctrl := &MockController{}
	ctrl.On("SubmitProfile", mock.Anything, "s-4", mock.Anything).
		Return(&session.Outcome{State: st, Stale: true}, nil)

	output, err := createTestHandler(t, ctrl).Execute(context.Background(), &Input{SessionID: "s-4"})
	require.NoError(t, err)
	assert.True(t, output.Stale)
	assert.Equal(t, models.ViewAbout, output.CurrentView)
	assert.Empty(t, output.Schemes)
}

func TestLoadConfig(t *testing.T) {
	assert.Equal(t, 35*time.Second, LoadConfig(config.WorkerConfig{}).Timeout)
	assert.Equal(t, 40*time.Second, LoadConfig(config.WorkerConfig{Timeout: 40000}).Timeout)
}

package navigateview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "govscheme-workers/internal/common/errors"
	"govscheme-workers/internal/common/logger"
	"govscheme-workers/internal/models"
	"govscheme-workers/internal/session"
)

type MockController struct {
	mock.Mock
}

func (m *MockController) State(ctx context.Context, id string) (*models.SessionState, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionState), args.Error(1)
}

func (m *MockController) Navigate(ctx context.Context, id string, view models.View) (*models.SessionState, error) {
	args := m.Called(ctx, id, view)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionState), args.Error(1)
}

func (m *MockController) SetLanguage(ctx context.Context, id, code string) (*models.SessionState, error) {
	args := m.Called(ctx, id, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionState), args.Error(1)
}

func (m *MockController) ConsumeNotice(ctx context.Context, id string) (*models.Notice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notice), args.Error(1)
}

func stateWith(view models.View, lang string, gen uint64) *models.SessionState {
	st := models.NewSessionState("s-1", lang)
	st.CurrentView = view
	st.Generation = gen
	return st
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		setupMock func(*MockController)
		wantView  models.View
		wantLang  string
		wantCode  apperrors.ErrorCode
	}{
		{
			name:  "view only",
			input: &Input{SessionID: "s-1", View: models.ViewFAQ},
			setupMock: func(m *MockController) {
				m.On("Navigate", mock.Anything, "s-1", models.ViewFAQ).
					Return(stateWith(models.ViewFAQ, "en", 2), nil)
			},
			wantView: models.ViewFAQ,
			wantLang: "en",
		},
		{
			name:  "language then view",
			input: &Input{SessionID: "s-1", View: models.ViewForm, Language: "ta"},
			setupMock: func(m *MockController) {
				m.On("SetLanguage", mock.Anything, "s-1", "ta").
					Return(stateWith(models.ViewHome, "ta", 1), nil).Once()
				m.On("Navigate", mock.Anything, "s-1", models.ViewForm).
					Return(stateWith(models.ViewForm, "ta", 2), nil).Once()
			},
			wantView: models.ViewForm,
			wantLang: "ta",
		},
		{
			name:  "nothing requested reports state",
			input: &Input{SessionID: "s-1"},
			setupMock: func(m *MockController) {
				m.On("State", mock.Anything, "s-1").
					Return(stateWith(models.ViewResults, "hi", 5), nil)
			},
			wantView: models.ViewResults,
			wantLang: "hi",
		},
		{
			name:      "unknown view",
			input:     &Input{SessionID: "s-1", View: "settings"},
			setupMock: func(m *MockController) {},
			wantCode:  apperrors.ErrCodeInvalidView,
		},
		{
			name:  "loading is refused",
			input: &Input{SessionID: "s-1", View: models.ViewLoading},
			setupMock: func(m *MockController) {
				m.On("Navigate", mock.Anything, "s-1", models.ViewLoading).
					Return(nil, session.ErrLoadingNotNavigable)
			},
			wantCode: apperrors.ErrCodeInvalidView,
		},
		{
			name:  "unsupported language",
			input: &Input{SessionID: "s-1", Language: "xx"},
			setupMock: func(m *MockController) {
				m.On("SetLanguage", mock.Anything, "s-1", "xx").
					Return(nil, apperrors.NewInvalidLanguageError("xx"))
			},
			wantCode: apperrors.ErrCodeInvalidLanguage,
		},
		{
			name:      "missing session",
			input:     &Input{View: models.ViewHome},
			setupMock: func(m *MockController) {},
			wantCode:  apperrors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := new(MockController)
			tt.setupMock(ctrl)
			h := NewHandler(&Config{}, ctrl, logger.NewTestLogger(t))

			output, err := h.Execute(context.Background(), tt.input)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, session.ToStandardError(err, tt.input.SessionID).Code)
				ctrl.AssertExpectations(t)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantView, output.CurrentView)
			assert.Equal(t, tt.wantLang, output.Language)
			assert.Nil(t, output.Notice)
			ctrl.AssertExpectations(t)
		})
	}
}

func TestHandler_Execute_ConsumeNotice(t *testing.T) {
	ctrl := new(MockController)
	notice := &models.Notice{Kind: models.NoticeSuccess, Message: "Found 3 schemes for you!"}
	ctrl.On("Navigate", mock.Anything, "s-1", models.ViewResults).
		Return(stateWith(models.ViewResults, "en", 3), nil)
	ctrl.On("ConsumeNotice", mock.Anything, "s-1").Return(notice, nil)

	h := NewHandler(&Config{}, ctrl, logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), &Input{
		SessionID: "s-1", View: models.ViewResults, ConsumeNotice: true,
	})
	require.NoError(t, err)
	require.NotNil(t, output.Notice)
	assert.Equal(t, "Found 3 schemes for you!", output.Notice.Message)
	assert.Equal(t, uint64(3), output.Generation)
	ctrl.AssertExpectations(t)
}

func TestHandler_Execute_AgainstController(t *testing.T) {
	store := session.NewMemoryStore()
	ctrl := session.NewController(store, nil, logger.NewTestLogger(t), session.Options{})
	h := NewHandler(&Config{}, ctrl, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{SessionID: "s-1", View: models.ViewAbout, Language: "bn"})
	require.NoError(t, err)
	assert.Equal(t, models.ViewAbout, output.CurrentView)
	assert.Equal(t, "bn", output.Language)
	assert.Equal(t, uint64(1), output.Generation)

	// notices are one-time
	output, err = h.Execute(context.Background(), &Input{SessionID: "s-1", ConsumeNotice: true})
	require.NoError(t, err)
	assert.Nil(t, output.Notice)
}

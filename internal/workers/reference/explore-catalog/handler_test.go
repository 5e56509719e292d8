package explorecatalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govscheme-workers/internal/common/config"
	apperrors "govscheme-workers/internal/common/errors"
	"govscheme-workers/internal/common/logger"
	"govscheme-workers/internal/reference"
)

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name          string
		input         *Input
		wantTab       reference.ExplorerTab
		wantItems     int
		wantTruncated bool
		wantEmpty     bool
	}{
		{
			name:          "default tab",
			input:         &Input{},
			wantTab:       reference.TabCategories,
			wantItems:     10,
			wantTruncated: true,
		},
		{
			name:      "states filtered",
			input:     &Input{Tab: reference.TabStates, Filter: "pradesh"},
			wantTab:   reference.TabStates,
			wantItems: 5,
		},
		{
			name:      "central show all",
			input:     &Input{Tab: reference.TabCentral, ShowAll: true},
			wantTab:   reference.TabCentral,
			wantItems: len(reference.Ministries()),
		},
		{
			name:      "no match offers suggestions",
			input:     &Input{Tab: reference.TabCategories, Filter: "zzz"},
			wantTab:   reference.TabCategories,
			wantItems: 0,
			wantEmpty: true,
		},
	}

	h := NewHandler(&Config{DefaultTab: reference.TabCategories}, logger.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := h.Execute(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTab, output.Tab)
			assert.Len(t, output.Items, tt.wantItems)
			assert.Equal(t, tt.wantTruncated, output.Truncated)
			assert.Equal(t, tt.wantEmpty, output.Empty)
			if tt.wantEmpty {
				assert.Equal(t, reference.SearchSuggestions(), output.Suggestions)
			} else {
				assert.Empty(t, output.Suggestions)
			}
			assert.Empty(t, output.Languages)
		})
	}
}

func TestHandler_Execute_ConfiguredDefaultTab(t *testing.T) {
	h := NewHandler(&Config{DefaultTab: reference.TabStates}, logger.NewTestLogger(t))

	output, err := h.Execute(&Input{IncludeLanguages: true})
	require.NoError(t, err)
	assert.Equal(t, reference.TabStates, output.Tab)
	assert.Equal(t, "Andhra Pradesh", output.Items[0])
	assert.Equal(t, reference.Languages(), output.Languages)
}

func TestHandler_Execute_UnknownTab(t *testing.T) {
	h := NewHandler(LoadConfig(config.WorkerConfig{}), logger.NewTestLogger(t))

	_, err := h.Execute(&Input{Tab: "districts"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}

package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryFile = "../../configs/activity-registry.json"

func TestShippedRegistry(t *testing.T) {
	reg, err := LoadRegistry(registryFile)
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{
		"scheme-fetch-recommendations",
		"scheme-classify",
		"scheme-filter-results",
		"scheme-search-directory",
		"assistant-send-chat",
		"session-reset",
		"session-navigate",
		"reference-explore",
	} {
		a, ok := reg.FindByTaskType(taskType)
		if assert.True(t, ok, taskType) {
			assert.Equal(t, StatusCompleted, a.ImplementationStatus)
		}
	}
}

func TestActivity_ValidateInput(t *testing.T) {
	reg, err := LoadRegistry(registryFile)
	require.NoError(t, err)

	tests := []struct {
		name      string
		taskType  string
		variables string
		wantErr   bool
	}{
		{name: "search with query", taskType: "scheme-search-directory", variables: `{"sessionId":"s-1","query":"farmer"}`},
		{name: "search without query", taskType: "scheme-search-directory", variables: `{"sessionId":"s-1"}`, wantErr: true},
		{name: "unknown filter", taskType: "scheme-filter-results", variables: `{"sessionId":"s-1","filter":"district"}`, wantErr: true},
		{name: "explore defaults", taskType: "reference-explore", variables: `{}`},
		{name: "explore bad tab", taskType: "reference-explore", variables: `{"tab":"districts"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := reg.FindByTaskType(tt.taskType)
			require.True(t, ok)

			err := a.ValidateInput([]byte(tt.variables))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegistry_Validate(t *testing.T) {
	valid := Activity{ID: "a", DisplayName: "A", Category: "scheme", TaskType: "task-a"}

	tests := []struct {
		name    string
		reg     ActivityRegistry
		wantErr string
	}{
		{name: "valid", reg: ActivityRegistry{Activities: []Activity{valid}}},
		{name: "empty", reg: ActivityRegistry{}, wantErr: "no activities"},
		{
			name:    "duplicate id",
			reg:     ActivityRegistry{Activities: []Activity{valid, {ID: "a", DisplayName: "B", Category: "scheme", TaskType: "task-b"}}},
			wantErr: "duplicate activity ID: a",
		},
		{
			name:    "duplicate task type",
			reg:     ActivityRegistry{Activities: []Activity{valid, {ID: "b", DisplayName: "B", Category: "scheme", TaskType: "task-a"}}},
			wantErr: "duplicate task type: task-a",
		},
		{
			name:    "missing fields",
			reg:     ActivityRegistry{Activities: []Activity{{ID: "c"}}},
			wantErr: "activity c missing required field: DisplayName",
		},
		{
			name: "bad schema",
			reg: ActivityRegistry{Activities: []Activity{{
				ID: "d", DisplayName: "D", Category: "scheme", TaskType: "task-d",
				InputSchema: map[string]interface{}{"type": 42},
			}}},
			wantErr: "invalid input schema",
		},
		{
			name: "unknown status",
			reg: ActivityRegistry{Activities: []Activity{{
				ID: "e", DisplayName: "E", Category: "scheme", TaskType: "task-e", ImplementationStatus: "shipped",
			}}},
			wantErr: `unknown status "shipped"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistry_AddUpdateSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")

	reg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Empty(t, reg.Activities)

	require.NoError(t, reg.Add(Activity{ID: "a", DisplayName: "A", Category: "scheme", TaskType: "task-a"}))
	assert.Error(t, reg.Add(Activity{ID: "a"}))

	require.NoError(t, reg.Update("a", "status", StatusInProgress))
	require.NoError(t, reg.Update("a", "retries", "2"))
	require.NoError(t, reg.Update("a", "timeout", "35s"))
	assert.Error(t, reg.Update("a", "status", "shipped"))
	assert.Error(t, reg.Update("a", "timeout", "soon"))
	assert.Error(t, reg.Update("a", "colour", "blue"))
	assert.ErrorIs(t, reg.Update("missing", "status", StatusPlanned), ErrNotFound)

	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.NotEmpty(t, loaded.LastUpdated)
	a, ok := loaded.Find("a")
	require.True(t, ok)
	assert.Equal(t, StatusInProgress, a.ImplementationStatus)
	assert.Equal(t, 2, a.Retries)
	assert.Equal(t, "35s", a.Timeout)
}

package resetsession

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "govscheme-workers/internal/common/errors"
	"govscheme-workers/internal/common/logger"
	"govscheme-workers/internal/models"
	"govscheme-workers/internal/session"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func setupHandler(t *testing.T) (*Handler, session.Store, *miniredis.Miniredis) {
	mr, client := setupRedis(t)
	store := session.NewRedisStore(client, "", time.Hour)
	log := logger.NewTestLogger(t)
	ctrl := session.NewController(store, nil, log, session.Options{})
	return NewHandler(&Config{Timeout: time.Second}, ctrl, store, log), store, mr
}

func seed(t *testing.T, store session.Store) {
	age := 40
	_, err := store.Update(context.Background(), "s-1", func(s *models.SessionState) error {
		s.CurrentView = models.ViewResults
		s.Language = "mr"
		s.Generation = 4
		s.Results = []models.Scheme{{Name: "PM-KISAN", Type: "central"}}
		s.TotalMatches = 1
		s.UserProfile = &models.UserProfile{Name: "Ravi", Age: &age}
		s.SearchQuery = "farmer"
		s.Chat = []models.ChatTurn{{Role: models.ChatRoleUser, Text: "hi"}}
		return nil
	})
	require.NoError(t, err)
}

func TestHandler_Execute_Reset(t *testing.T) {
	h, store, _ := setupHandler(t)
	seed(t, store)

	output, err := h.Execute(context.Background(), &Input{SessionID: "s-1"})
	require.NoError(t, err)
	assert.Equal(t, models.ViewHome, output.CurrentView)
	assert.Equal(t, "mr", output.Language)
	assert.Equal(t, uint64(5), output.Generation)
	assert.False(t, output.Forgotten)

	st, err := store.Load(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Empty(t, st.Results)
	assert.Zero(t, st.TotalMatches)
	assert.Nil(t, st.UserProfile)
	assert.Empty(t, st.SearchQuery)
	assert.Len(t, st.Chat, 1)
}

func TestHandler_Execute_Forget(t *testing.T) {
	h, store, mr := setupHandler(t)
	seed(t, store)
	require.True(t, mr.Exists(session.DefaultKeyPrefix+"s-1"))

	output, err := h.Execute(context.Background(), &Input{SessionID: "s-1", Forget: true})
	require.NoError(t, err)
	assert.True(t, output.Forgotten)
	assert.False(t, mr.Exists(session.DefaultKeyPrefix+"s-1"))
}

func TestHandler_Execute_StoreDown(t *testing.T) {
	h, _, mr := setupHandler(t)
	mr.Close()

	_, err := h.Execute(context.Background(), &Input{SessionID: "s-1"})
	require.Error(t, err)
	stdErr := session.ToStandardError(err, "s-1")
	assert.Equal(t, apperrors.ErrCodeSessionStoreFailed, stdErr.Code)
	assert.Equal(t, 3, apperrors.GetRetryCount(stdErr.Code))
}

func TestHandler_Execute_MissingSession(t *testing.T) {
	h, _, _ := setupHandler(t)
	_, err := h.Execute(context.Background(), &Input{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}

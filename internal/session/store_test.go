package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "govscheme-workers/internal/common/errors"
	"govscheme-workers/internal/models"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("unknown id yields a fresh session", func(t *testing.T) {
		s, err := store.Load(ctx, "fresh")
		require.NoError(t, err)
		assert.Equal(t, "fresh", s.ID)
		assert.Equal(t, models.ViewHome, s.CurrentView)
		assert.Equal(t, "en", s.Language)
		assert.NotNil(t, s.Results)
		assert.NotNil(t, s.SearchResults)
	})

	t.Run("update persists", func(t *testing.T) {
		updated, err := store.Update(ctx, "s-1", func(s *models.SessionState) error {
			s.CurrentView = models.ViewResults
			s.Results = []models.Scheme{{Name: "PM-KISAN"}}
			s.Generation = 3
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, models.ViewResults, updated.CurrentView)

		loaded, err := store.Load(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, uint64(3), loaded.Generation)
		require.Len(t, loaded.Results, 1)
		assert.Equal(t, "PM-KISAN", loaded.Results[0].Name)
		assert.False(t, loaded.UpdatedAt.IsZero())
	})

	t.Run("fn error writes nothing", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := store.Update(ctx, "s-1", func(s *models.SessionState) error {
			s.CurrentView = models.ViewFAQ
			return boom
		})
		assert.ErrorIs(t, err, boom)

		loaded, err := store.Load(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, models.ViewResults, loaded.CurrentView)
	})

	t.Run("returned state is a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, "s-1")
		require.NoError(t, err)
		loaded.Results[0].Name = "mutated"

		again, err := store.Load(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, "PM-KISAN", again.Results[0].Name)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "s-1"))
		loaded, err := store.Load(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, models.ViewHome, loaded.CurrentView)
		assert.Empty(t, loaded.Results)
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Update(ctx, "counter", func(s *models.SessionState) error {
					s.Generation++
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		loaded, err := store.Load(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, uint64(4), loaded.Generation)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	storeContract(t, store)
	assert.Equal(t, 1, store.Len())
}

func TestRedisStore(t *testing.T) {
	_, client := setupRedis(t)
	storeContract(t, NewRedisStore(client, "", 0))
}

func TestRedisStore_KeyAndTTL(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, "test:", time.Hour)

	_, err := store.Update(context.Background(), "abc", func(s *models.SessionState) error {
		s.Language = "hi"
		return nil
	})
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:abc"))
	assert.Equal(t, time.Hour, mr.TTL("test:abc"))
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, "", 0)
	require.NoError(t, mr.Set(DefaultKeyPrefix+"bad", "{not json"))

	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionStoreFailed))
}

func TestRedisStore_BackendErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, "", 0)

	mock.ExpectGet(DefaultKeyPrefix + "s-9").SetErr(errors.New("connection reset"))
	_, err := store.Load(context.Background(), "s-9")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionStoreFailed))

	mock.ExpectDel(DefaultKeyPrefix + "s-9").SetErr(errors.New("connection reset"))
	err = store.Delete(context.Background(), "s-9")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionStoreFailed))

	assert.NoError(t, mock.ExpectationsWereMet())
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "govscheme-workers/internal/common/errors"
	"govscheme-workers/internal/models"
	"govscheme-workers/internal/reference"
)

const (
	DefaultKeyPrefix = "govscheme:session:"
	DefaultTTL       = 24 * time.Hour

	maxUpdateAttempts = 5
)

// RedisStore keeps each session as one JSON document with a sliding TTL.
// Updates use WATCH/MULTI so two workers touching the same session never
// lose each other's writes.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl, now: time.Now}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Load(ctx context.Context, id string) (*models.SessionState, error) {
	return r.read(ctx, r.client, id)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisStore) read(ctx context.Context, g getter, id string) (*models.SessionState, error) {
	raw, err := g.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewSessionState(id, reference.DefaultLanguage), nil
	}
	if err != nil {
		return nil, apperrors.NewSessionStoreFailedError(fmt.Errorf("get %s: %w", id, err))
	}

	var state models.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, apperrors.NewSessionStoreFailedError(fmt.Errorf("decode %s: %w", id, err))
	}
	if state.Results == nil {
		state.Results = []models.Scheme{}
	}
	if state.SearchResults == nil {
		state.SearchResults = []models.Scheme{}
	}
	return &state, nil
}

func (r *RedisStore) Update(ctx context.Context, id string, fn func(*models.SessionState) error) (*models.SessionState, error) {
	key := r.key(id)

	var (
		result *models.SessionState
		fnErr  error
	)
	txf := func(tx *redis.Tx) error {
		state, err := r.read(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(state); err != nil {
			fnErr = err
			return err
		}
		state.UpdatedAt = r.now()

		payload, err := json.Marshal(state)
		if err != nil {
			return apperrors.NewSessionStoreFailedError(fmt.Errorf("encode %s: %w", id, err))
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = state
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		fnErr = nil
		err := r.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return result, nil
		case fnErr != nil:
			return nil, fnErr
		case errors.Is(err, redis.TxFailedErr):
			continue
		}
		if _, ok := apperrors.AsStandard(err); ok {
			return nil, err
		}
		return nil, apperrors.NewSessionStoreFailedError(fmt.Errorf("update %s: %w", id, err))
	}
	return nil, apperrors.NewSessionConflictError(id)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return apperrors.NewSessionStoreFailedError(fmt.Errorf("delete %s: %w", id, err))
	}
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gateway "govscheme-workers/internal/common/http"
	"govscheme-workers/internal/common/logger"
)

type fakeStores map[string]error

func (f fakeStores) Ping(context.Context) map[string]error {
	out := map[string]error{}
	for name, err := range f {
		if err != nil {
			out[name] = err
		}
	}
	return out
}

type fakeBroker struct{ err error }

func (f fakeBroker) HealthCheck(context.Context) error { return f.err }

type fakeBackend struct{ err error }

func (f fakeBackend) HealthCheck(context.Context) (*gateway.HealthStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &gateway.HealthStatus{Status: "running"}, nil
}

func TestServer_Health(t *testing.T) {
	mux := newMux(fakeStores{}, fakeBroker{}, fakeBackend{}, logger.NewTestLogger(t))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestServer_Ready(t *testing.T) {
	tests := []struct {
		name         string
		stores       fakeStores
		broker       fakeBroker
		backend      fakeBackend
		wantStatus   int
		wantFailures []string
	}{
		{
			name:       "all up",
			stores:     fakeStores{"redis": nil, "postgres": nil},
			wantStatus: http.StatusOK,
		},
		{
			name:         "store down",
			stores:       fakeStores{"redis": errors.New("redis ping failed: connection refused")},
			wantStatus:   http.StatusServiceUnavailable,
			wantFailures: []string{"redis"},
		},
		{
			name:         "broker down",
			stores:       fakeStores{},
			broker:       fakeBroker{err: errors.New("zeebe health check failed: unavailable")},
			wantStatus:   http.StatusServiceUnavailable,
			wantFailures: []string{"zeebe"},
		},
		{
			name:         "recommendation backend down",
			stores:       fakeStores{},
			backend:      fakeBackend{err: errors.New("Backend unreachable")},
			wantStatus:   http.StatusServiceUnavailable,
			wantFailures: []string{"backend"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newMux(tt.stores, tt.broker, tt.backend, logger.NewTestLogger(t))

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body struct {
				Status   string            `json:"status"`
				Failures map[string]string `json:"failures"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Len(t, body.Failures, len(tt.wantFailures))
			for _, name := range tt.wantFailures {
				assert.Contains(t, body.Failures, name)
			}
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	mux := newMux(fakeStores{}, fakeBroker{}, fakeBackend{}, logger.NewTestLogger(t))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewServer_DefaultPort(t *testing.T) {
	srv := newServer(0, fakeStores{}, fakeBroker{}, fakeBackend{}, logger.NewNoOpLogger())
	assert.Equal(t, ":8080", srv.Addr)
}

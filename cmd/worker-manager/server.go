package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	gateway "govscheme-workers/internal/common/http"
	"govscheme-workers/internal/common/logger"
)

const defaultHTTPPort = 8080

type storePinger interface {
	Ping(ctx context.Context) map[string]error
}

type brokerChecker interface {
	HealthCheck(ctx context.Context) error
}

type backendChecker interface {
	HealthCheck(ctx context.Context) (*gateway.HealthStatus, error)
}

func newServer(port int, stores storePinger, broker brokerChecker, backend backendChecker, log logger.Logger) *http.Server {
	if port <= 0 {
		port = defaultHTTPPort
	}
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newMux(stores, broker, backend, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func newMux(stores storePinger, broker brokerChecker, backend backendChecker, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		for name, err := range stores.Ping(ctx) {
			checks[name] = err.Error()
		}
		if err := broker.HealthCheck(ctx); err != nil {
			checks["zeebe"] = err.Error()
		}
		if _, err := backend.HealthCheck(ctx); err != nil {
			checks["backend"] = err.Error()
		}

		if len(checks) > 0 {
			log.Warn("readiness check failed", map[string]interface{}{"failures": checks})
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":   "not ready",
				"failures": checks,
				"time":     time.Now().Format(time.RFC3339),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func isServerClosed(err error) bool {
	return errors.Is(err, http.ErrServerClosed)
}

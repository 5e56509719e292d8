package observability

import (
	"context"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govscheme-workers/internal/common/logger"
)

func TestObservability_RecordsIntoRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	obs := New(Options{ServiceName: "govscheme-test", ServiceVersion: "0.0.1", Environment: "test", Registerer: reg}, logger.NewTestLogger(t))
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "scheme-classify", "completed")
	obs.RecordJobDuration(ctx, "scheme-classify", 12*time.Millisecond, "completed")
	obs.RecordMatches(ctx, "Bihar", 12)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestObservability_ZeroValueIsSafe(t *testing.T) {
	var obs Observability
	obs.RecordJobProcessed(context.Background(), "x", "failed")
	obs.RecordMatches(context.Background(), "Goa", 0)
	obs.Shutdown()
}

package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEstimationExported(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewWithRegisterer("estimator-test", reg)
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordEstimation(ctx, 3*time.Millisecond, "http", "ok")
	obs.RecordEstimation(ctx, 5*time.Millisecond, "http", "ok")
	obs.RecordTrainingRun(ctx, 2*time.Second, "ok")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "estimations_processed")
	assert.Contains(t, joined, "estimations_duration")
	assert.Contains(t, joined, "training_duration")
}

func TestZeroValueIsSafe(t *testing.T) {
	obs := &Observability{}
	obs.RecordEstimation(context.Background(), time.Millisecond, "zeebe", "ok")
	obs.RecordTrainingRun(context.Background(), time.Second, "failed")
	obs.Shutdown()
}

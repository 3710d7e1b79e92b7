package googlemonitoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/llmgate/promptimprover/metrics"
)

func TestBuildTimeSeries(t *testing.T) {
	recorder := metrics.NewRecorder()
	recorder.ObserveImprove("gemini", "success", 250*time.Millisecond, 0, 0)
	recorder.ObserveImprove("gemini", "success", 250*time.Millisecond, 0, 0)

	mfs, err := recorder.Gatherer().Gather()
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	series := buildTimeSeries(mfs, "my-project", now)

	byType := map[string]float64{}
	for _, ts := range series {
		assert.NotContains(t, ts.Metric.Type, "custom.googleapis.com/go_")
		assert.NotContains(t, ts.Metric.Type, "custom.googleapis.com/process_")
		assert.Equal(t, "my-project", ts.Resource.Labels["project_id"])
		require.Len(t, ts.Points, 1)
		assert.Equal(t, now.Unix(), ts.Points[0].Interval.EndTime.GetSeconds())
		byType[ts.Metric.Type] = ts.Points[0].Value.GetDoubleValue()
	}

	assert.Equal(t, 2.0, byType["custom.googleapis.com/"+metrics.ImproveRequestsMetric])
	assert.InDelta(t, 0.5, byType["custom.googleapis.com/"+metrics.ImproveDurationMetric], 1e-9)
}

func TestBuildTimeSeries_Labels(t *testing.T) {
	recorder := metrics.NewRecorder()
	recorder.ObserveImprove("openai", "busy", time.Millisecond, 0, 0)

	mfs, err := recorder.Gatherer().Gather()
	require.NoError(t, err)

	for _, ts := range buildTimeSeries(mfs, "p", time.Now()) {
		if ts.Metric.Type == "custom.googleapis.com/"+metrics.ImproveRequestsMetric {
			assert.Equal(t, map[string]string{"outcome": "busy"}, ts.Metric.Labels)
			return
		}
	}
	t.Fatal("improve request series not found")
}

func TestSkipped(t *testing.T) {
	assert.True(t, skipped("go_goroutines"))
	assert.True(t, skipped("process_cpu_seconds_total"))
	assert.False(t, skipped("promptimprover_tokens_total"))
}

func TestRun_NonPositiveInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &MonitoringClient{logger: zap.NewNop()}
	for _, interval := range []time.Duration{0, -time.Second} {
		assert.NotPanics(t, func() { client.Run(ctx, interval) })
	}
}

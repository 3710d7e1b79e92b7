package googlemonitoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	monitoringpb "cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	metricpb "google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const customMetricPrefix = "custom.googleapis.com/"

const DefaultPushInterval = 60 * time.Second

var skippedPrefixes = []string{"go_", "process_", "promhttp_"}

// MonitoringClient copies the metrics of a Prometheus gatherer into Cloud
// Monitoring custom metrics.
type MonitoringClient struct {
	projectId string
	client    *monitoring.MetricClient
	gatherer  prometheus.Gatherer
	logger    *zap.Logger
}

func NewMonitoringClient(ctx context.Context, projectId, jsonCredentialsStr string, gatherer prometheus.Gatherer, logger *zap.Logger) (*MonitoringClient, error) {
	var client *monitoring.MetricClient
	var err error
	if jsonCredentialsStr == "" {
		// for prod where you can fetch it from gcp service account
		client, err = monitoring.NewMetricClient(ctx)
	} else {
		client, err = monitoring.NewMetricClient(ctx, option.WithCredentialsJSON([]byte(jsonCredentialsStr)))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Monitoring client: %w", err)
	}

	return &MonitoringClient{
		projectId: projectId,
		client:    client,
		gatherer:  gatherer,
		logger:    logger.Named("googlemonitoring"),
	}, nil
}

func (c *MonitoringClient) Close() error {
	return c.client.Close()
}

// Run pushes metrics every interval until ctx is done. A non-positive
// interval falls back to DefaultPushInterval.
func (c *MonitoringClient) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPushInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.PushMetrics(ctx); err != nil {
				c.logger.Warn("failed to push metrics", zap.Error(err))
			}
		}
	}
}

func (c *MonitoringClient) PushMetrics(ctx context.Context) error {
	mfs, err := c.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	timeSeries := buildTimeSeries(mfs, c.projectId, time.Now())
	if len(timeSeries) == 0 {
		return nil
	}

	if err := c.client.CreateTimeSeries(ctx, &monitoringpb.CreateTimeSeriesRequest{
		Name:       fmt.Sprintf("projects/%s", c.projectId),
		TimeSeries: timeSeries,
	}); err != nil {
		return fmt.Errorf("failed to write time series data: %w", err)
	}

	c.logger.Debug("pushed metrics", zap.Int("series", len(timeSeries)))
	return nil
}

func buildTimeSeries(mfs []*dto.MetricFamily, projectId string, now time.Time) []*monitoringpb.TimeSeries {
	var timeSeries []*monitoringpb.TimeSeries

	for _, mf := range mfs {
		if skipped(mf.GetName()) {
			continue
		}

		for _, m := range mf.Metric {
			labels := make(map[string]string, len(m.Label))
			for _, l := range m.Label {
				labels[l.GetName()] = l.GetValue()
			}

			var value float64
			switch {
			case m.Gauge != nil:
				value = m.Gauge.GetValue()
			case m.Counter != nil:
				value = m.Counter.GetValue()
			case m.Summary != nil:
				value = m.Summary.GetSampleSum()
			case m.Histogram != nil:
				value = m.Histogram.GetSampleSum()
			default:
				continue
			}

			timeSeries = append(timeSeries, &monitoringpb.TimeSeries{
				Metric: &metricpb.Metric{
					Type:   customMetricPrefix + mf.GetName(),
					Labels: labels,
				},
				Resource: &monitoredres.MonitoredResource{
					Type: "global",
					Labels: map[string]string{
						"project_id": projectId,
					},
				},
				Points: []*monitoringpb.Point{
					{
						Interval: &monitoringpb.TimeInterval{
							EndTime: timestamppb.New(now),
						},
						Value: &monitoringpb.TypedValue{
							Value: &monitoringpb.TypedValue_DoubleValue{
								DoubleValue: value,
							},
						},
					},
				},
			})
		}
	}

	return timeSeries
}

func skipped(name string) bool {
	for _, prefix := range skippedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

package metrics

import (
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ImproveRequestsMetric = "promptimprover_improve_requests_total"
	ImproveDurationMetric = "promptimprover_improve_duration_seconds"
	TokensMetric          = "promptimprover_tokens_total"
	HTTPRequestsMetric    = "promptimprover_http_requests_total"
)

// Recorder creates counters and histograms on first use and keeps them on
// its own registry.
type Recorder struct {
	registry   *prometheus.Registry
	mu         sync.RWMutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Recorder{
		registry:   registry,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) getOrCreateCounterVec(metricName string, labels []string) *prometheus.CounterVec {
	r.mu.RLock()
	counter, exists := r.counters[metricName]
	r.mu.RUnlock()
	if exists {
		return counter
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if counter, exists = r.counters[metricName]; exists {
		return counter
	}
	counter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricName,
		Help: "Dynamically created counter",
	}, labels)
	r.registry.MustRegister(counter)
	r.counters[metricName] = counter
	return counter
}

func (r *Recorder) getOrCreateHistogramVec(metricName string, labels []string) *prometheus.HistogramVec {
	r.mu.RLock()
	histogram, exists := r.histograms[metricName]
	r.mu.RUnlock()
	if exists {
		return histogram
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if histogram, exists = r.histograms[metricName]; exists {
		return histogram
	}
	histogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    metricName,
		Help:    "Dynamically created histogram",
		Buckets: prometheus.DefBuckets,
	}, labels)
	r.registry.MustRegister(histogram)
	r.histograms[metricName] = histogram
	return histogram
}

// RecordCounter adds value to the named counter. A metric name must always
// be used with the same label names.
func (r *Recorder) RecordCounter(metricName string, labels map[string]string, value float64) {
	labelNames, labelValues := splitLabels(labels)
	counter := r.getOrCreateCounterVec(metricName, labelNames)
	counter.WithLabelValues(labelValues...).Add(value)
}

func (r *Recorder) RecordTimer(metricName string, labels map[string]string, duration time.Duration) {
	labelNames, labelValues := splitLabels(labels)
	histogram := r.getOrCreateHistogramVec(metricName, labelNames)
	histogram.WithLabelValues(labelValues...).Observe(duration.Seconds())
}

// ObserveImprove records the outcome of one improve request.
func (r *Recorder) ObserveImprove(provider, outcome string, duration time.Duration, inputTokens, outputTokens int) {
	r.RecordCounter(ImproveRequestsMetric, map[string]string{"outcome": outcome}, 1)
	r.RecordTimer(ImproveDurationMetric, map[string]string{"provider": provider}, duration)
	if inputTokens > 0 {
		r.RecordCounter(TokensMetric, map[string]string{"provider": provider, "direction": "input"}, float64(inputTokens))
	}
	if outputTokens > 0 {
		r.RecordCounter(TokensMetric, map[string]string{"provider": provider, "direction": "output"}, float64(outputTokens))
	}
}

func (r *Recorder) ObserveHTTP(route, method string, status int) {
	r.RecordCounter(HTTPRequestsMetric, map[string]string{
		"route":  route,
		"method": method,
		"status": strconv.Itoa(status),
	}, 1)
}

func splitLabels(labels map[string]string) ([]string, []string) {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]string, 0, len(names))
	for _, name := range names {
		values = append(values, labels[name])
	}
	return names, values
}

package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evdash_http_requests_total",
		Help: "HTTP requests served, by route and status code",
	}, []string{"route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evdash_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	datasetLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "evdash_dataset_load_duration_seconds",
		Help:    "Time spent fetching and parsing the dataset",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})

	datasetRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "evdash_dataset_records",
		Help: "Number of records in the loaded dataset",
	})

	datasetLoadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evdash_dataset_load_failures_total",
		Help: "Dataset loads that ended in an error",
	})
)

// ObserveRequest records one served request.
func ObserveRequest(route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveLoad records the outcome of a dataset load. Its signature matches
// dataset.LoadHook.
func ObserveLoad(_ context.Context, run model.LoadRun, _ *model.Dataset) {
	if !run.StartedAt.IsZero() && !run.FinishedAt.IsZero() {
		datasetLoadDuration.Observe(run.FinishedAt.Sub(run.StartedAt).Seconds())
	}
	if run.Status == model.LoadStatusFailed {
		datasetLoadFailures.Inc()
		return
	}
	datasetRecords.Set(float64(run.Records))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

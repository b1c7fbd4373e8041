// Package metrics exposes prometheus instrumentation for Redmine requests.
package metrics

import (
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redmine_requests_total",
		Help: "Total Redmine API requests by method and status",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "redmine_request_duration_seconds",
		Help:    "Redmine API request duration in seconds by method",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method"})
)

// Instrument attaches request instrumentation to a resty client: every
// completed request increments the counter and records its duration.
func Instrument(cli *resty.Client) {
	cli.OnAfterResponse(func(_ *resty.Client, rsp *resty.Response) error {
		requestsTotal.WithLabelValues(rsp.Request.Method, strconv.Itoa(rsp.StatusCode())).Inc()
		requestDuration.WithLabelValues(rsp.Request.Method).Observe(rsp.Time().Seconds())
		return nil
	})
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecordsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "holter_records_received_total", Help: "Sample records received from the device"},
	)
	ParseErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "holter_parse_errors_total", Help: "Lines that failed record parsing"},
	)
	SentinelLines = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "holter_sentinel_lines_total", Help: "Readiness and diagnostic lines received"},
		[]string{"line"},
	)
)

func init() {
	prometheus.MustRegister(RecordsReceived, ParseErrors, SentinelLines)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

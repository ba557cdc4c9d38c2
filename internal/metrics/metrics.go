package metrics

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	persistedStatesDesc = prometheus.NewDesc(
		"densitydesk_persisted_states",
		"Number of application states held by the state backend",
		nil,
		nil,
	)

	remoteCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "densitydesk_remote_calls_total",
			Help: "Total remote function calls by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	remoteCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "densitydesk_remote_call_duration_seconds",
			Help:    "Remote function call latency by operation",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"op"},
	)

	endpointUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "densitydesk_remote_endpoint_up",
			Help: "Whether the last reachability probe of a remote function succeeded",
		},
		[]string{"op"},
	)
)

// StateCounter reports how many states a backend holds.
type StateCounter interface {
	Count(ctx context.Context) (int, error)
}

// StateCollector is a custom Prometheus collector that asks the state
// backend for its size on each scrape.
type StateCollector struct {
	counter StateCounter
}

// Describe sends the metric descriptor to the channel.
func (c *StateCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- persistedStatesDesc
}

// Collect queries the backend and emits the count as a gauge.
func (c *StateCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := c.counter.Count(ctx)
	if err != nil {
		if !errors.Is(err, errors.ErrUnsupported) {
			slog.Error("failed to collect persisted state metrics", "error", err)
		}
		return
	}
	ch <- prometheus.MustNewConstMetric(persistedStatesDesc, prometheus.GaugeValue, float64(n))
}

var initOnce sync.Once

// Init registers the metrics with the default registry. counter may be nil
// when the backend cannot report its size. Must be called once at startup.
func Init(counter StateCounter) {
	initOnce.Do(func() {
		prometheus.MustRegister(remoteCalls, remoteCallDuration, endpointUp)
		if counter != nil {
			prometheus.MustRegister(&StateCollector{counter: counter})
		}
	})
}

// ObserveRemoteCall records one remote call. Its signature matches
// analysis.Observer.
func ObserveRemoteCall(op, outcome string, elapsed time.Duration) {
	remoteCalls.WithLabelValues(op, outcome).Inc()
	remoteCallDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// SetEndpointUp records the result of a reachability probe.
func SetEndpointUp(op string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	endpointUp.WithLabelValues(op).Set(v)
}

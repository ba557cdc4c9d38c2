package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type fixedCounter struct {
	n   int
	err error
}

func (f fixedCounter) Count(context.Context) (int, error) { return f.n, f.err }

func collect(t *testing.T, c prometheus.Collector) []prometheus.Metric {
	t.Helper()
	ch := make(chan prometheus.Metric, 10)
	c.Collect(ch)
	close(ch)
	var out []prometheus.Metric
	for m := range ch {
		out = append(out, m)
	}
	return out
}

func TestStateCollector(t *testing.T) {
	tests := []struct {
		name    string
		counter fixedCounter
		want    []float64
	}{
		{"reports count", fixedCounter{n: 3}, []float64{3}},
		{"unsupported backend emits nothing", fixedCounter{err: errors.ErrUnsupported}, nil},
		{"backend error emits nothing", fixedCounter{err: errors.New("down")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := collect(t, &StateCollector{counter: tt.counter})
			if len(metrics) != len(tt.want) {
				t.Fatalf("Collect() emitted %d metrics, want %d", len(metrics), len(tt.want))
			}
			for i, m := range metrics {
				var pb dto.Metric
				if err := m.Write(&pb); err != nil {
					t.Fatal(err)
				}
				if got := pb.GetGauge().GetValue(); got != tt.want[i] {
					t.Errorf("gauge = %v, want %v", got, tt.want[i])
				}
			}
		})
	}
}

func TestObserveRemoteCall(t *testing.T) {
	before := counterValue(t, "generate", "error")
	ObserveRemoteCall("generate", "error", 1500*time.Millisecond)
	ObserveRemoteCall("generate", "error", 10*time.Millisecond)
	if got := counterValue(t, "generate", "error") - before; got != 2 {
		t.Errorf("remote call counter delta = %v, want 2", got)
	}
}

func counterValue(t *testing.T, op, outcome string) float64 {
	t.Helper()
	var pb dto.Metric
	if err := remoteCalls.WithLabelValues(op, outcome).Write(&pb); err != nil {
		t.Fatal(err)
	}
	return pb.GetCounter().GetValue()
}

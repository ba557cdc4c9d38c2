package jobs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"densitydesk/internal/analysis"
	"densitydesk/internal/config"
	"densitydesk/internal/metrics"
)

// ProbeResult is the outcome of the last probe of one remote function.
type ProbeResult struct {
	Op        string
	URL       string
	Reachable bool
	Error     string
	CheckedAt time.Time
}

// EndpointProber periodically checks that the remote functions answer.
type EndpointProber struct {
	targets  map[string]string
	interval time.Duration
	client   *http.Client

	mu      sync.RWMutex
	results map[string]ProbeResult
}

// NewEndpointProber creates a prober for every remote operation.
func NewEndpointProber(endpoints config.Endpoints, interval time.Duration) *EndpointProber {
	return &EndpointProber{
		targets: map[string]string{
			analysis.OpAnalyze:   endpoints.AnalyzeText,
			analysis.OpSpamCheck: endpoints.CheckSpamRisk,
			analysis.OpGenerate:  endpoints.GenerateDescription,
			analysis.OpSave:      endpoints.SaveAnalysis,
			analysis.OpGet:       endpoints.GetAnalysis,
		},
		interval: interval,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		results: make(map[string]ProbeResult),
	}
}

// Start begins the background probe loop.
func (p *EndpointProber) Start(ctx context.Context) {
	slog.Info("endpoint prober started", "interval", p.interval, "targets", len(p.targets))

	// Run immediately on start
	p.ProbeAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("endpoint prober stopped")
			return
		case <-ticker.C:
			p.ProbeAll(ctx)
		}
	}
}

// ProbeAll checks every target once.
func (p *EndpointProber) ProbeAll(ctx context.Context) {
	for op, url := range p.targets {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result := p.probe(ctx, op, url)
		if !result.Reachable {
			slog.Warn("remote function unreachable", "op", op, "url", url, "error", result.Error)
		}
		metrics.SetEndpointUp(op, result.Reachable)

		p.mu.Lock()
		p.results[op] = result
		p.mu.Unlock()
	}
}

// Results returns a copy of the latest probe results keyed by operation.
func (p *EndpointProber) Results() map[string]ProbeResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]ProbeResult, len(p.results))
	for k, v := range p.results {
		out[k] = v
	}
	return out
}

// probe sends an OPTIONS request. Any HTTP response means the function is
// reachable; the functions only accept POST so status codes are ignored.
func (p *EndpointProber) probe(ctx context.Context, op, url string) ProbeResult {
	result := ProbeResult{Op: op, URL: url, CheckedAt: time.Now()}

	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, url, nil)
	if err != nil {
		result.Error = "invalid URL: " + err.Error()
		return result
	}
	req.Header.Set("User-Agent", "DensityDesk-Prober/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		result.Error = "connection failed: " + err.Error()
		return result
	}
	defer resp.Body.Close()

	result.Reachable = true
	return result
}

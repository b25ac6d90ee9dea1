// Package probe checks reachability of cataloged public data endpoints.
package probe

import (
	"context"
	"net/http"
	"time"

	"github.com/dmarroquin/warehousewatch/internal/core/domain"
)

const userAgent = "warehousewatch-probe/1.0"

// Prober implements ports.Prober with a plain HTTP GET.
type Prober struct {
	client *http.Client
}

// New creates a Prober with the given per-request timeout.
func New(timeout time.Duration) *Prober {
	return &Prober{
		client: &http.Client{Timeout: timeout},
	}
}

// Probe issues a single GET against url and measures round-trip latency.
// The body is discarded; only the status matters. Network failures are
// reported in the result rather than returned, so one dead endpoint never
// aborts a catalog sweep.
func (p *Prober) Probe(ctx context.Context, url string) domain.ProbeResult {
	res := domain.ProbeResult{ProbedAt: time.Now().UTC()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		res.Error = "build request: " + err.Error()
		return res
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := p.client.Do(req)
	res.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	res.Reachable = resp.StatusCode >= 200 && resp.StatusCode < 400
	return res
}

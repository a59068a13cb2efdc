package doctor

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/series"
	"github.com/pulsestation/pulse/internal/source"
)

// MaxClockSkew is the largest server/local clock difference that passes.
const MaxClockSkew = time.Minute

// Probe fetches the endpoint once and shares the response between checks.
type Probe struct {
	fetcher source.Fetcher

	once sync.Once
	resp *source.Response
	err  error
}

// NewProbe creates a probe over f.
func NewProbe(f source.Fetcher) *Probe {
	return &Probe{fetcher: f}
}

// Get returns the response of the single fetch.
func (p *Probe) Get(ctx context.Context) (*source.Response, error) {
	p.once.Do(func() {
		p.resp, p.err = p.fetcher.Fetch(ctx)
	})
	return p.resp, p.err
}

// EndpointReachableCheck verifies the endpoint answers with a 2xx status
// well within the request timeout.
type EndpointReachableCheck struct {
	Probe   *Probe
	URL     string
	Timeout time.Duration
}

func (c *EndpointReachableCheck) Name() string     { return "endpoint_reachable" }
func (c *EndpointReachableCheck) Category() string { return CategoryEndpoint }

func (c *EndpointReachableCheck) Run(ctx context.Context) CheckResult {
	resp, err := c.Probe.Get(ctx)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    summarize(err),
			Suggestion: suggestion(err, "Check that the metrics server is running"),
		}
	}
	if !resp.OK() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s answered HTTP %d", c.URL, resp.StatusCode),
			Suggestion: "Check the metrics server logs",
		}
	}

	elapsed := resp.Elapsed.Round(time.Millisecond)
	if c.Timeout > 0 && resp.Elapsed > c.Timeout/2 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s answered in %s, over half the %s timeout", c.URL, elapsed, c.Timeout),
			Suggestion: "Raise source.timeout or check the metrics server load",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s answered in %s", c.URL, elapsed),
	}
}

// EndpointResponseCheck verifies the response parses and holds samples
// recent enough to average.
type EndpointResponseCheck struct {
	Probe  *Probe
	Keys   []string
	Window time.Duration
	Now    func() time.Time
}

func (c *EndpointResponseCheck) Name() string     { return "endpoint_response" }
func (c *EndpointResponseCheck) Category() string { return CategoryEndpoint }

func (c *EndpointResponseCheck) Run(ctx context.Context) CheckResult {
	resp, err := c.Probe.Get(ctx)
	if err != nil || !resp.OK() {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot check response: endpoint unreachable",
		}
	}

	snap, err := series.Parse(resp.Body, c.Keys, nil)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    summarize(err),
			Suggestion: suggestion(err, "Check that source.url points at the metrics API endpoint"),
		}
	}

	latest := snap.LatestTime()
	age := c.now().Sub(latest)
	if c.Window > 0 && age > c.Window {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Latest sample is %s old, outside the %s window", age.Round(time.Second), c.Window),
			Suggestion: "Averages will read as no data; check the collector or raise window",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%d samples of %d metrics, latest %s", snap.Len(), len(c.Keys), latest.Format(time.RFC3339)),
	}
}

func (c *EndpointResponseCheck) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// ClockSkewCheck compares the server Date header with the local clock,
// which seeds the dashboard clock.
type ClockSkewCheck struct {
	Probe *Probe
	Now   func() time.Time
}

func (c *ClockSkewCheck) Name() string     { return "clock_skew" }
func (c *ClockSkewCheck) Category() string { return CategoryEndpoint }

func (c *ClockSkewCheck) Run(ctx context.Context) CheckResult {
	resp, err := c.Probe.Get(ctx)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot check clock: endpoint unreachable",
		}
	}
	if resp.ServerTime.IsZero() {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No Date header, the dashboard clock uses local time",
		}
	}

	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	skew := now.Sub(resp.ServerTime)
	if skew < 0 {
		skew = -skew
	}
	if skew > MaxClockSkew {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Server clock differs from local time by %s", skew.Round(time.Second)),
			Suggestion: "Enable NTP on the metrics server; window averages use its timestamps",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Server clock in sync",
	}
}

// NewEndpointChecks creates the endpoint checks, sharing one fetch.
func NewEndpointChecks(f source.Fetcher, url string, timeout time.Duration, keys []string, window time.Duration) []Check {
	probe := NewProbe(f)
	return []Check{
		&EndpointReachableCheck{Probe: probe, URL: url, Timeout: timeout},
		&EndpointResponseCheck{Probe: probe, Keys: keys, Window: window},
		&ClockSkewCheck{Probe: probe},
	}
}

func summarize(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func suggestion(err error, fallback string) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Suggestion != "" {
		return e.Suggestion
	}
	return fallback
}

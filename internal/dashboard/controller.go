package dashboard

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pulsestation/pulse/internal/chart"
	"github.com/pulsestation/pulse/internal/display"
	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/logger"
	"github.com/pulsestation/pulse/internal/series"
	"github.com/pulsestation/pulse/internal/source"
	"github.com/pulsestation/pulse/internal/stats"
)

// DefaultInterval is the time between poll cycles.
const DefaultInterval = 60 * time.Second

var (
	// ErrCycleInFlight is returned by Poll when another cycle has not settled.
	ErrCycleInFlight = stderrors.New("poll cycle already in flight")
	// ErrStale is returned when a cycle's results were discarded because a
	// newer cycle applied first or the cycle was cancelled.
	ErrStale = stderrors.New("poll cycle result is stale")
)

// Cycle describes one settled poll cycle.
type Cycle struct {
	Seq      uint64
	Started  time.Time
	Duration time.Duration
	// ServerTime is the endpoint's Date header, zero when unknown.
	ServerTime time.Time
	// Err is nil for applied cycles.
	Err error

	Snapshot series.Snapshot
	Summary  Summary
}

// OK reports whether the cycle was applied.
func (c Cycle) OK() bool { return c.Err == nil }

// Observer is notified after every cycle that reached the endpoint or
// failed, in cycle order. Observers run on the polling goroutine and must
// not block.
type Observer interface {
	CycleDone(Cycle)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Cycle)

// CycleDone calls f.
func (f ObserverFunc) CycleDone(c Cycle) { f(c) }

// Controller owns the chart bindings and the display surface and mutates
// them once per successful cycle.
type Controller struct {
	fetcher  source.Fetcher
	bindings *chart.Bindings
	surface  display.Surface
	log      logger.Logger

	interval time.Duration
	window   time.Duration
	limits   stats.Limits
	location *time.Location
	now      func() time.Time

	inFlight    atomic.Bool
	seq         atomic.Uint64
	lastApplied atomic.Uint64

	mu        sync.RWMutex
	observers []Observer
	last      *Cycle
}

// Option configures a Controller.
type Option func(*Controller)

// WithInterval sets the time between cycles in Run.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithWindow sets the trailing window for averages.
func WithWindow(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.window = d
		}
	}
}

// WithLimits sets the configured per-metric limits.
func WithLimits(l stats.Limits) Option {
	return func(c *Controller) {
		if l != nil {
			c.limits = l
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithLocation sets the zone used for timestamps that carry none.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithClock replaces the wall clock used for window averages.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithObserver registers an observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, o)
	}
}

// New creates a controller in the Idle state.
func New(f source.Fetcher, b *chart.Bindings, s display.Surface, opts ...Option) *Controller {
	c := &Controller{
		fetcher:  f,
		bindings: b,
		surface:  s,
		log:      logger.Noop(),
		interval: DefaultInterval,
		window:   stats.DefaultWindow,
		limits:   stats.DefaultLimits(),
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddObserver registers an observer after construction.
func (c *Controller) AddObserver(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// Interval returns the polling interval.
func (c *Controller) Interval() time.Duration { return c.interval }

// Window returns the averaging window.
func (c *Controller) Window() time.Duration { return c.window }

// Descriptors returns the metrics the controller tracks.
func (c *Controller) Descriptors() []series.Descriptor { return c.bindings.Descriptors() }

// Polling reports whether a cycle is in flight.
func (c *Controller) Polling() bool { return c.inFlight.Load() }

// Last returns the most recent settled cycle.
func (c *Controller) Last() (Cycle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return Cycle{}, false
	}
	return *c.last, true
}

// Run polls immediately and then every interval until ctx is cancelled.
// Cycle failures are logged and never stop the loop.
func (c *Controller) Run(ctx context.Context) error {
	c.log.Info("polling %s every %s", c.sourceName(), c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		_ = c.Poll(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Poll runs one cycle. It returns nil when the cycle was applied,
// ErrCycleInFlight when skipped, ErrStale when discarded, and the cycle's
// failure otherwise. Failures have already been logged.
func (c *Controller) Poll(ctx context.Context) error {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.log.Debug("skipping tick: previous cycle still in flight")
		return ErrCycleInFlight
	}
	defer c.inFlight.Store(false)

	cycle := Cycle{Seq: c.seq.Add(1), Started: c.now()}

	snap, serverTime, err := c.fetch(ctx)
	cycle.ServerTime = serverTime
	if err != nil {
		return c.fail(cycle, err)
	}

	summary := Summarize(snap, c.bindings.Descriptors(), c.limits, c.window, c.now())

	if ctx.Err() != nil || cycle.Seq <= c.lastApplied.Load() {
		c.log.Debug("discarding cycle %d: superseded", cycle.Seq)
		return ErrStale
	}

	renderErr := c.render(snap)
	c.surface.Apply(summary.Display)
	c.lastApplied.Store(cycle.Seq)

	cycle.Snapshot = snap
	cycle.Summary = summary
	cycle.Duration = c.now().Sub(cycle.Started)
	c.log.Debug("cycle %d applied: %d samples in %s", cycle.Seq, snap.Len(), cycle.Duration)
	c.settle(cycle)
	return renderErr
}

// fetch retrieves and validates one response.
func (c *Controller) fetch(ctx context.Context) (series.Snapshot, time.Time, error) {
	resp, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return series.Snapshot{}, time.Time{}, err
	}

	keys := series.Keys(c.bindings.Descriptors())
	snap, err := series.Parse(resp.Body, keys, c.location)
	if !resp.OK() {
		// An error body explains itself; anything else is reported by status.
		if err != nil && errors.IsCode(err, errors.ErrApplication) {
			return series.Snapshot{}, resp.ServerTime, err
		}
		return series.Snapshot{}, resp.ServerTime, source.StatusError(resp)
	}
	if err != nil {
		return series.Snapshot{}, resp.ServerTime, err
	}
	return snap, resp.ServerTime, nil
}

// render pushes the snapshot to every chart. A failing chart does not stop
// the others; the first error is returned.
func (c *Controller) render(snap series.Snapshot) error {
	var first error
	for _, b := range c.bindings.All() {
		d := b.Descriptor()
		if err := b.EnsureCreated(); err != nil {
			c.log.Warn("%s", summarize(err))
			if first == nil {
				first = err
			}
			continue
		}
		if err := b.Update(snap.Labels(), snap.Series(d.Key)); err != nil {
			c.log.Warn("%s", summarize(err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (c *Controller) fail(cycle Cycle, err error) error {
	cycle.Err = err
	cycle.Duration = c.now().Sub(cycle.Started)
	c.log.Error("poll cycle %d failed [%s]: %s", cycle.Seq, Kind(err), summarize(err))
	c.settle(cycle)
	return err
}

func (c *Controller) settle(cycle Cycle) {
	c.mu.Lock()
	c.last = &cycle
	observers := append([]Observer(nil), c.observers...)
	c.mu.Unlock()

	for _, o := range observers {
		o.CycleDone(cycle)
	}
}

func (c *Controller) sourceName() string {
	if u, ok := c.fetcher.(interface{ URL() string }); ok {
		return u.URL()
	}
	return fmt.Sprintf("%T", c.fetcher)
}

// Kind names the failure class of a cycle error for logs and metrics.
// Errors without a code count as transport failures.
func Kind(err error) string {
	if code := errors.Code(err); code != "" {
		return code
	}
	return errors.ErrTransport
}

func summarize(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Summary()
	}
	return err.Error()
}

// Package charttest provides a recording chart renderer for tests.
package charttest

import (
	"fmt"
	"sync"

	"github.com/pulsestation/pulse/internal/chart"
)

// Call is one recorded Update.
type Call struct {
	Target string
	Labels []string
	Data   []float64
}

// Renderer records every Create and Update call.
type Renderer struct {
	mu      sync.Mutex
	creates map[string]int
	options map[string]chart.Options
	updates []Call

	// CreateErr and UpdateErr, when set, are returned by the matching call.
	CreateErr error
	UpdateErr error
}

// New returns an empty recording renderer.
func New() *Renderer {
	return &Renderer{
		creates: make(map[string]int),
		options: make(map[string]chart.Options),
	}
}

// Create records the creation.
func (r *Renderer) Create(target string, opts chart.Options) (chart.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return nil, r.CreateErr
	}
	r.creates[target]++
	r.options[target] = opts
	return &handle{r: r, target: target}, nil
}

type handle struct {
	r      *Renderer
	target string
}

func (h *handle) Update(labels []string, data []float64) error {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	if h.r.UpdateErr != nil {
		return h.r.UpdateErr
	}
	h.r.updates = append(h.r.updates, Call{
		Target: h.target,
		Labels: append([]string(nil), labels...),
		Data:   append([]float64(nil), data...),
	})
	return nil
}

// Creates returns how many times target was created.
func (r *Renderer) Creates(target string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates[target]
}

// TotalCreates returns the number of Create calls across all targets.
func (r *Renderer) TotalCreates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.creates {
		n += c
	}
	return n
}

// Options returns the options target was created with.
func (r *Renderer) Options(target string) (chart.Options, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	opts, ok := r.options[target]
	if !ok {
		return chart.Options{}, fmt.Errorf("chart %s was never created", target)
	}
	return opts, nil
}

// Updates returns all recorded updates in order.
func (r *Renderer) Updates() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.updates...)
}

// UpdatesFor returns the recorded updates for one target.
func (r *Renderer) UpdatesFor(target string) []Call {
	var out []Call
	for _, c := range r.Updates() {
		if c.Target == target {
			out = append(out, c)
		}
	}
	return out
}

// Package chart binds metrics to line charts. A Renderer creates charts on
// named targets; a Binding owns one chart for one metric, creating it once
// and replacing its series on every update.
package chart

import (
	"fmt"

	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/series"
)

// Options configure a chart at creation time.
type Options struct {
	Label string
	Color string // hex, e.g. "#FF6384"
	Unit  string

	// The dashboard always draws one unfilled line without legend or x-axis
	// labels. The fields exist so renderers can assert on them.
	ShowLegend  bool
	ShowXLabels bool
	Fill        bool
}

// OptionsFor returns the chart options for a metric descriptor.
func OptionsFor(d series.Descriptor) Options {
	return Options{
		Label: d.Label,
		Color: d.Color,
		Unit:  d.Unit,
	}
}

// Renderer creates charts.
type Renderer interface {
	Create(target string, opts Options) (Handle, error)
}

// Handle is a created chart.
type Handle interface {
	// Update replaces the chart's labels and series wholesale and redraws it.
	Update(labels []string, data []float64) error
}

// Binding is the persistent association between one metric and its chart.
// It is not safe for concurrent use; the controller serializes access.
type Binding struct {
	desc     series.Descriptor
	renderer Renderer
	handle   Handle
}

// NewBinding creates a binding for desc. No chart is created until the
// first EnsureCreated or Update.
func NewBinding(desc series.Descriptor, r Renderer) *Binding {
	return &Binding{desc: desc, renderer: r}
}

// Descriptor returns the metric the binding serves.
func (b *Binding) Descriptor() series.Descriptor {
	return b.desc
}

// Created reports whether the underlying chart exists.
func (b *Binding) Created() bool {
	return b.handle != nil
}

// EnsureCreated creates the chart on first call. Later calls are no-ops.
// A failed creation is retried on the next call.
func (b *Binding) EnsureCreated() error {
	if b.handle != nil {
		return nil
	}
	h, err := b.renderer.Create(b.desc.Target, OptionsFor(b.desc))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRender,
			fmt.Sprintf("Failed to create chart %s", b.desc.Target), "")
	}
	b.handle = h
	return nil
}

// Update replaces the chart's labels and data, creating the chart first if
// needed.
func (b *Binding) Update(labels []string, data []float64) error {
	if err := b.EnsureCreated(); err != nil {
		return err
	}
	if err := b.handle.Update(labels, data); err != nil {
		return errors.WrapWithCode(err, errors.ErrRender,
			fmt.Sprintf("Failed to update chart %s", b.desc.Target), "")
	}
	return nil
}

// Bindings is the ordered set of bindings for a dashboard.
type Bindings struct {
	list  []*Binding
	byKey map[string]*Binding
}

// NewBindings creates one binding per descriptor. Two descriptors sharing a
// key or a target is a configuration error.
func NewBindings(descs []series.Descriptor, r Renderer) (*Bindings, error) {
	bs := &Bindings{byKey: make(map[string]*Binding, len(descs))}
	targets := make(map[string]string, len(descs))

	for _, d := range descs {
		if d.Key == "" || d.Target == "" {
			return nil, errors.New(errors.ErrConfig,
				"Metric descriptor is missing a key or chart target",
				"Set both key and target on every entry under metrics:")
		}
		if _, dup := bs.byKey[d.Key]; dup {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Metric %q is configured twice", d.Key),
				"Remove the duplicate entry under metrics:")
		}
		if owner, dup := targets[d.Target]; dup {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Chart target %q is used by both %q and %q", d.Target, owner, d.Key),
				"Give every metric its own chart target")
		}
		targets[d.Target] = d.Key

		b := NewBinding(d, r)
		bs.list = append(bs.list, b)
		bs.byKey[d.Key] = b
	}
	return bs, nil
}

// All returns the bindings in descriptor order.
func (bs *Bindings) All() []*Binding {
	return bs.list
}

// Get returns the binding for a metric key.
func (bs *Bindings) Get(key string) (*Binding, bool) {
	b, ok := bs.byKey[key]
	return b, ok
}

// Descriptors returns the descriptors of all bindings in order.
func (bs *Bindings) Descriptors() []series.Descriptor {
	out := make([]series.Descriptor, len(bs.list))
	for i, b := range bs.list {
		out[i] = b.desc
	}
	return out
}

// Nop is a Renderer whose charts draw nothing.
type Nop struct{}

// Create returns a handle that ignores updates.
func (Nop) Create(string, Options) (Handle, error) {
	return nopHandle{}, nil
}

type nopHandle struct{}

func (nopHandle) Update([]string, []float64) error { return nil }

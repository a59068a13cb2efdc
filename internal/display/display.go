// Package display models the named text targets the dashboard writes its
// formatted values to.
package display

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pulsestation/pulse/internal/series"
	"github.com/pulsestation/pulse/internal/stats"
)

// Field names a display target.
type Field string

const (
	CPUUsage           Field = "cpuUsageValue"
	CPUAverage         Field = "cpuAverageValue"
	RAMUsage           Field = "ramUsageValue"
	RAMAverage         Field = "ramAverageValue"
	DiskUsage          Field = "diskUsageValue"
	DiskAverage        Field = "diskAverageValue"
	NetSent            Field = "netSentValue"
	NetSentAverage     Field = "netSentAverageValue"
	NetRecv            Field = "netRecvValue"
	NetRecvAverage     Field = "netRecvAverageValue"
	Temperature        Field = "temperatureValue"
	TemperatureAverage Field = "temperatureAverageValue"
)

var knownFields = map[string][2]Field{
	series.KeyCPU:         {CPUUsage, CPUAverage},
	series.KeyRAM:         {RAMUsage, RAMAverage},
	series.KeyDisk:        {DiskUsage, DiskAverage},
	series.KeyNetSent:     {NetSent, NetSentAverage},
	series.KeyNetRecv:     {NetRecv, NetRecvAverage},
	series.KeyTemperature: {Temperature, TemperatureAverage},
}

// FieldsFor returns the current and average fields for a metric key.
// Keys outside the default set map to "<camelKey>Value" and
// "<camelKey>AverageValue".
func FieldsFor(key string) (current, average Field) {
	if f, ok := knownFields[key]; ok {
		return f[0], f[1]
	}
	base := camel(key)
	return Field(base + "Value"), Field(base + "AverageValue")
}

func camel(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	var b strings.Builder
	for i, p := range parts {
		p = strings.ToLower(p)
		if i > 0 && p != "" {
			p = strings.ToUpper(p[:1]) + p[1:]
		}
		b.WriteString(p)
	}
	return b.String()
}

// Value is the text written to one field, plus an optional status class.
type Value struct {
	Text   string        `json:"text"`
	Status *stats.Status `json:"status,omitempty"`
}

// Classified returns a Value carrying a status class.
func Classified(text string, status stats.Status) Value {
	return Value{Text: text, Status: &status}
}

// Alert reports whether the value carries the alert class.
func (v Value) Alert() bool {
	return v.Status != nil && *v.Status == stats.StatusAlert
}

// Update is a batch of field writes applied together.
type Update map[Field]Value

// Fields returns the update's fields in sorted order.
func (u Update) Fields() []Field {
	fields := make([]Field, 0, len(u))
	for f := range u {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// Surface receives display updates. Apply is called once per successful
// poll cycle with every field that cycle produced.
type Surface interface {
	Apply(Update)
}

// Board is an in-memory Surface read by the TUI, the exporter and the CLI.
// It is safe for concurrent use.
type Board struct {
	mu      sync.RWMutex
	values  map[Field]Value
	applied int
	updated time.Time
	now     func() time.Time
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{values: make(map[Field]Value), now: time.Now}
}

// Apply merges the update into the board.
func (b *Board) Apply(u Update) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for f, v := range u {
		b.values[f] = v
	}
	b.applied++
	b.updated = b.now()
}

// Get returns the current value of a field.
func (b *Board) Get(f Field) (Value, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[f]
	return v, ok
}

// Snapshot returns a copy of all fields.
func (b *Board) Snapshot() Update {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(Update, len(b.values))
	for f, v := range b.values {
		out[f] = v
	}
	return out
}

// Applied returns how many updates were applied and when the last one landed.
func (b *Board) Applied() (int, time.Time) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.applied, b.updated
}

// Recorder is a Surface that keeps every update it receives.
type Recorder struct {
	mu      sync.Mutex
	updates []Update
}

// Apply records a copy of the update.
func (r *Recorder) Apply(u Update) {
	cp := make(Update, len(u))
	for f, v := range u {
		cp[f] = v
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, cp)
}

// Updates returns the recorded updates in order.
func (r *Recorder) Updates() []Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Update, len(r.updates))
	copy(out, r.updates)
	return out
}

// Last returns the most recent update, or nil.
func (r *Recorder) Last() Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.updates) == 0 {
		return nil
	}
	return r.updates[len(r.updates)-1]
}

// Multi fans an update out to several surfaces in order.
type Multi []Surface

// Apply forwards the update to every surface.
func (m Multi) Apply(u Update) {
	for _, s := range m {
		s.Apply(u)
	}
}
